package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-12, 10), 60)
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.pres = msg.pres
		m.autoCheckedIn = msg.pres.AutoCheckedIn
		m.state = StatePanel
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Refresh failed: %v", msg.err)
			return m, nil
		}
		m.pres = msg.pres
		return m, nil

	case answeredMsg:
		m.state = StatePanel
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not save answer: %v", msg.err)
			return m, nil
		}
		r := msg.result
		m.result = &r
		switch {
		case r.AlreadyAnswered:
			m.status = "Today's quiz was already answered."
		case r.Correct:
			m.status = fmt.Sprintf("Correct! +%d pts", r.Points)
		default:
			m.status = fmt.Sprintf("Not quite. The answer was %s.", r.CorrectOption())
		}
		return m, refreshCmd(m.ctx, m.sess)

	case planMsg:
		switch {
		case errors.Is(msg.err, session.ErrPlanLocked):
			m.status = "Plan is locked after answering today's quiz."
		case errors.Is(msg.err, session.ErrQuizDisabled):
			m.status = "The quiz is turned off in settings."
		case msg.err != nil:
			m.status = msg.err.Error()
		default:
			m.status = ""
			m.pres.Plan = msg.plan
		}
		return m, nil
	}

	if m.state == StateQuiz {
		return m.updateQuiz(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

		if m.state != StatePanel {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Tab):
			next := constants.PlanQuiz
			if m.pres.Plan == constants.PlanQuiz {
				next = constants.PlanCheckin
			}
			return m, selectPlanCmd(m.ctx, m.sess, next)
		case key.Matches(msg, m.keys.Checkin):
			return m, selectPlanCmd(m.ctx, m.sess, constants.PlanCheckin)
		case key.Matches(msg, m.keys.Quiz):
			return m, selectPlanCmd(m.ctx, m.sess, constants.PlanQuiz)
		case key.Matches(msg, m.keys.Refresh):
			return m, refreshCmd(m.ctx, m.sess)
		case key.Matches(msg, m.keys.Answer):
			if !m.canAnswer() {
				return m, nil
			}
			m.form = m.newQuizForm()
			m.state = StateQuiz
			m.status = ""
			return m, m.form.Init()
		}
	}
	return m, nil
}

func (m Model) updateQuiz(msg tea.Msg) (tea.Model, tea.Cmd) {
	// answer is being saved
	if m.form == nil {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StatePanel
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, answerCmd(m.ctx, m.sess, *m.choice)
	case huh.StateAborted:
		m.state = StatePanel
		m.form = nil
		return m, nil
	}
	return m, cmd
}
