// Package tui is the interactive reward panel.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/session"
)

type SessionState int

const (
	StateLoading SessionState = iota
	StatePanel
	StateQuiz
	StateError
)

type openedMsg struct {
	pres session.Presentation
	err  error
}

type refreshedMsg struct {
	pres session.Presentation
	err  error
}

type answeredMsg struct {
	result session.QuizResult
	err    error
}

type planMsg struct {
	plan constants.Plan
	err  error
}

type Model struct {
	ctx      context.Context
	sess     *session.Session
	state    SessionState
	keys     KeyMap
	help     help.Model
	progress progress.Model
	form     *huh.Form
	choice   *int

	pres          session.Presentation
	autoCheckedIn bool
	result        *session.QuizResult
	status        string
	err           error

	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, sess *session.Session) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{
		ctx:      ctx,
		sess:     sess,
		state:    StateLoading,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		choice:   new(int),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab}
	if m.canAnswer() {
		keys = append(keys, m.keys.Answer)
	}
	return append(keys, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// Init opens the session, which checks in for today.
func (m Model) Init() tea.Cmd {
	return openCmd(m.ctx, m.sess)
}

func openCmd(ctx context.Context, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		p, err := sess.Open(ctx)
		return openedMsg{pres: p, err: err}
	}
}

func refreshCmd(ctx context.Context, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		p, err := sess.Snapshot(ctx)
		return refreshedMsg{pres: p, err: err}
	}
}

func answerCmd(ctx context.Context, sess *session.Session, chosen int) tea.Cmd {
	return func() tea.Msg {
		r, err := sess.AnswerQuiz(ctx, chosen)
		return answeredMsg{result: r, err: err}
	}
}

func selectPlanCmd(ctx context.Context, sess *session.Session, plan constants.Plan) tea.Cmd {
	return func() tea.Msg {
		return planMsg{plan: plan, err: sess.SelectPlan(ctx, plan)}
	}
}

// canAnswer reports whether the quiz form may be opened right now
func (m Model) canAnswer() bool {
	return m.state == StatePanel &&
		m.pres.Quiz.Enabled &&
		m.pres.Plan == constants.PlanQuiz &&
		!m.pres.Quiz.Gate.Answered()
}

func (m *Model) newQuizForm() *huh.Form {
	q := m.pres.Quiz.Question
	opts := make([]huh.Option[int], 0, len(q.Options))
	for i, o := range q.Options {
		opts = append(opts, huh.NewOption(o, i))
	}
	*m.choice = 0
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(q.Prompt).
				Description("One answer per day. A correct answer earns points.").
				Options(opts...).
				Value(m.choice),
		),
	).WithShowHelp(true)
}
