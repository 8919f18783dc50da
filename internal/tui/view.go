package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/quiz"
	"github.com/julianstephens/bobarewards/internal/tui/components/week"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateLoading:
		content = mutedStyle.Render("Opening rewards...")
	case StateError:
		content = dangerStyle.Render("Could not open rewards: " + m.err.Error())
	case StateQuiz:
		if m.form == nil {
			content = mutedStyle.Render("Saving answer...")
		} else {
			content = panelStyle.Render(m.form.View())
		}
	default:
		content = m.viewPanel()
	}

	parts := []string{titleStyle.Render("🧋 Boba Rewards"), content}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, m.help.View(m))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewPanel() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.viewStreak()),
		panelStyle.Render(m.viewPlan()),
		panelStyle.Render(m.viewProgress()),
		bannerStyle.Render(fmt.Sprintf("Order on Tastemate +%d pts per order", constants.OrderPoints)),
	)
}

func (m Model) viewStreak() string {
	p := m.pres
	unit := "days"
	if p.Streak == 1 {
		unit = "day"
	}
	head := streakStyle.Render(fmt.Sprintf("🔥 %d %s streak", p.Streak, unit))
	if m.autoCheckedIn {
		head += " " + badgeStyle.Render(fmt.Sprintf("Checked in +%d pts", constants.CheckinPoints))
	} else if p.CheckedIn {
		head += " " + mutedStyle.Render("✓ checked in today")
	}

	grid := week.New(p.Week, p.TodayIndex())
	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		mutedStyle.Render(fmt.Sprintf("%s · longest %d", p.Today, p.Longest)),
		"",
		grid.View(),
	)
}

func (m Model) viewPlan() string {
	p := m.pres
	var tabs []string
	plans := []constants.Plan{constants.PlanCheckin}
	if p.Quiz.Enabled {
		plans = append(plans, constants.PlanQuiz)
	}
	for _, plan := range plans {
		label := planLabel(plan)
		if plan == p.Plan {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if p.PlanLocked {
		header += " " + mutedStyle.Render("(locked)")
	}

	var body string
	switch p.Plan {
	case constants.PlanQuiz:
		body = m.viewQuiz()
	default:
		body = fmt.Sprintf("Open the app each day for +%d pts and keep your streak alive.", constants.CheckinPoints)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

func planLabel(plan constants.Plan) string {
	if plan == constants.PlanQuiz {
		return "Daily Quiz"
	}
	return "Check-in"
}

func (m Model) viewQuiz() string {
	q := m.pres.Quiz
	if !q.Enabled {
		return mutedStyle.Render("The quiz is turned off.")
	}
	lines := []string{q.Question.Prompt}
	switch q.Gate.State() {
	case quiz.Open:
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Press enter to answer for +%d pts.", constants.QuizPoints)))
	case quiz.AnsweredCorrect:
		lines = append(lines, successStyle.Render(fmt.Sprintf("✓ %s (+%d pts)", q.Question.CorrectOption(), constants.QuizPoints)))
	case quiz.AnsweredWrong:
		chosen := ""
		if q.Question.ValidChoice(q.Gate.AnsweredIndex) {
			chosen = q.Question.Options[q.Gate.AnsweredIndex]
		}
		lines = append(lines,
			dangerStyle.Render("✗ "+chosen),
			"Correct answer: "+q.Question.CorrectOption(),
		)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewProgress() string {
	p := m.pres
	prog := p.Progress

	var ms []string
	for _, milestone := range prog.Milestones {
		mark := "○"
		if milestone.Reached {
			mark = "●"
		}
		ms = append(ms, fmt.Sprintf("%s %d%%", mark, milestone.Percent))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", p.LevelEmoji, p.Level),
		fmt.Sprintf("%s / %s pts (%d%%)",
			humanize.Comma(int64(prog.Balance)), humanize.Comma(int64(prog.MaxPoints)), prog.Percent),
		m.progress.ViewAs(prog.Fraction),
		mutedStyle.Render(strings.Join(ms, "  ")),
	)
}
