// Package session drives one day of the reward panel: the automatic check-in,
// the quiz of the day and the plan selection.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/bobarewards/internal/clock"
	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/levels"
	"github.com/julianstephens/bobarewards/internal/logger"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/points"
	"github.com/julianstephens/bobarewards/internal/quiz"
	"github.com/julianstephens/bobarewards/internal/streak"
)

var (
	ErrPlanLocked    = errors.New("plan is locked after today's quiz was answered")
	ErrInvalidChoice = errors.New("invalid quiz choice")
	ErrQuizDisabled  = errors.New("daily quiz is disabled")
	ErrUnknownPlan   = errors.New("unknown plan")
)

// Store is the persistence the session needs. Each Save call is one atomic
// write; award may be nil when nothing was credited.
type Store interface {
	LoadLedger(ctx context.Context) (models.CheckinLedger, error)
	SaveCheckin(ctx context.Context, ledger models.CheckinLedger, profile models.Profile, award *models.Award) error
	GetProfile(ctx context.Context) (models.Profile, error)
	HasAward(ctx context.Context, day, source string) (bool, error)
	GetQuizAttempt(ctx context.Context, day string) (models.QuizAttempt, bool, error)
	SaveQuizAttempt(ctx context.Context, attempt models.QuizAttempt, profile models.Profile, award *models.Award) error
}

// Options tune a session. The zero value uses the built-in bank and levels
// with the quiz disabled.
type Options struct {
	Bank        quiz.Bank
	Levels      levels.Resolver
	QuizEnabled bool
	DefaultPlan constants.Plan
}

type Session struct {
	store  Store
	clock  clock.Clock
	points *points.Service
	bank   quiz.Bank

	quizEnabled bool
	defaultPlan constants.Plan

	day  string
	plan constants.Plan
}

func New(store Store, c clock.Clock, opts Options) *Session {
	if opts.Bank == nil {
		opts.Bank = quiz.DefaultBank
	}
	if opts.DefaultPlan == "" || (opts.DefaultPlan == constants.PlanQuiz && !opts.QuizEnabled) {
		opts.DefaultPlan = constants.PlanCheckin
	}
	return &Session{
		store:       store,
		clock:       c,
		points:      points.NewService(opts.Levels, c),
		bank:        opts.Bank,
		quizEnabled: opts.QuizEnabled,
		defaultPlan: opts.DefaultPlan,
	}
}

// Open loads the ledger, records today's check-in if there is none yet and
// returns what the reward panel shows. Opening again on the same day never
// checks in or awards twice.
func (s *Session) Open(ctx context.Context) (Presentation, error) {
	today := s.rollover()

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return Presentation{}, err
	}
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return Presentation{}, fmt.Errorf("failed to load profile: %w", err)
	}

	next, checkedIn := streak.Advance(ledger, today)
	if checkedIn {
		// a ledger reset by corrupt data must not credit a day twice
		credited, err := s.store.HasAward(ctx, today, string(constants.SourceCheckin))
		if err != nil {
			return Presentation{}, fmt.Errorf("failed to look up check-in award: %w", err)
		}

		var award *models.Award
		if credited {
			logger.Warn("Check-in already credited, rebuilding ledger only", "day", today)
			checkedIn = false
		} else {
			profile, award = s.points.Award(profile, constants.SourceCheckin, constants.CheckinPoints,
				points.Describe(constants.SourceCheckin, constants.CheckinPoints))
		}
		if err := s.store.SaveCheckin(ctx, next, profile, award); err != nil {
			return Presentation{}, fmt.Errorf("failed to save check-in: %w", err)
		}
		logger.Info("Checked in", "day", today, "streak", next.Streak)
		ledger = next
	}

	return s.present(ctx, today, ledger, profile, checkedIn)
}

// Snapshot returns the panel state without checking in.
func (s *Session) Snapshot(ctx context.Context) (Presentation, error) {
	today := s.rollover()

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return Presentation{}, err
	}
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return Presentation{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return s.present(ctx, today, ledger, profile, false)
}

// AnswerQuiz answers today's question. A second answer on the same day is
// reported as already answered and earns nothing.
func (s *Session) AnswerQuiz(ctx context.Context, chosen int) (QuizResult, error) {
	if !s.quizEnabled {
		return QuizResult{}, ErrQuizDisabled
	}
	today := s.rollover()

	gate, q, err := s.loadGate(ctx, today)
	if err != nil {
		return QuizResult{}, err
	}
	if gate.Answered() {
		return QuizResult{
			Gate:            gate,
			Question:        q,
			Correct:         gate.Correct,
			AlreadyAnswered: true,
		}, nil
	}

	if !q.ValidChoice(chosen) {
		return QuizResult{}, fmt.Errorf("%w: %d is not between 0 and %d", ErrInvalidChoice, chosen, len(q.Options)-1)
	}

	next, earned := quiz.Answer(gate, chosen, q.CorrectIndex)

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return QuizResult{}, fmt.Errorf("failed to load profile: %w", err)
	}
	profile, award := s.points.Award(profile, constants.SourceQuiz, earned, points.Describe(constants.SourceQuiz, earned))

	attempt := next.ToAttempt()
	attempt.AnsweredAt = s.clock.Now()
	if err := s.store.SaveQuizAttempt(ctx, attempt, profile, award); err != nil {
		return QuizResult{}, fmt.Errorf("failed to save quiz answer: %w", err)
	}
	logger.Info("Answered quiz", "day", today, "question", q.ID, "correct", next.Correct)

	s.plan = constants.PlanQuiz
	return QuizResult{
		Gate:     next,
		Question: q,
		Correct:  next.Correct,
		Points:   earned,
		Balance:  profile.Balance,
	}, nil
}

// SelectPlan switches the reward path shown in the panel. It never touches the
// ledger. Once today's quiz is answered the plan can no longer change.
func (s *Session) SelectPlan(ctx context.Context, plan constants.Plan) error {
	switch plan {
	case constants.PlanCheckin:
	case constants.PlanQuiz:
		if !s.quizEnabled {
			return ErrQuizDisabled
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}

	today := s.rollover()
	if s.quizEnabled {
		gate, _, err := s.loadGate(ctx, today)
		if err != nil {
			return err
		}
		if gate.Answered() {
			if plan == constants.PlanQuiz {
				s.plan = plan
				return nil
			}
			return ErrPlanLocked
		}
	}

	s.plan = plan
	return nil
}

// Plan returns the currently selected plan
func (s *Session) Plan() constants.Plan {
	if s.plan == "" {
		return s.defaultPlan
	}
	return s.plan
}

// QuizEnabled reports whether the quiz plan is offered
func (s *Session) QuizEnabled() bool {
	return s.quizEnabled
}

// rollover resets per-day state when the calendar day changes and returns today.
func (s *Session) rollover() string {
	today := s.clock.Today()
	if today != s.day {
		s.day = today
		s.plan = ""
	}
	return today
}

// loadLedger treats an unreadable ledger as the initial ledger.
func (s *Session) loadLedger(ctx context.Context) (models.CheckinLedger, error) {
	ledger, err := s.store.LoadLedger(ctx)
	if errors.Is(err, models.ErrMalformedLedger) {
		logger.Warn("Ignoring malformed check-in ledger, starting fresh", "key", constants.CheckinKey, "error", err)
		return models.CheckinLedger{CheckinDates: []string{}}, nil
	}
	if err != nil {
		return models.CheckinLedger{}, fmt.Errorf("failed to load check-in ledger: %w", err)
	}
	return ledger, nil
}

// loadGate returns today's gate, creating a fresh one when none is stored.
func (s *Session) loadGate(ctx context.Context, today string) (quiz.Gate, quiz.Question, error) {
	q, err := s.bank.QuestionFor(today)
	if err != nil {
		return quiz.Gate{}, quiz.Question{}, err
	}

	attempt, found, err := s.store.GetQuizAttempt(ctx, today)
	if err != nil {
		return quiz.Gate{}, quiz.Question{}, fmt.Errorf("failed to load quiz attempt: %w", err)
	}
	if !found {
		return quiz.NewGate(today, q), q, nil
	}

	gate := quiz.FromAttempt(attempt)
	if stored, ok := s.bank.Lookup(gate.QuestionID); ok {
		q = stored
	}
	return gate, q, nil
}

func (s *Session) present(ctx context.Context, today string, ledger models.CheckinLedger, profile models.Profile, checkedIn bool) (Presentation, error) {
	p := Presentation{
		Today:         today,
		Streak:        ledger.Streak,
		Longest:       streak.Longest(ledger.CheckinDates),
		Week:          streak.ProjectWeek(ledger.CheckinDates, today),
		WeekDays:      streak.WeekDays(today),
		CheckedIn:     ledger.LastDate == today,
		AutoCheckedIn: checkedIn,
		Profile:       profile,
		Balance:       profile.Balance,
		Level:         profile.Level,
		LevelEmoji:    points.LevelEmoji(profile.Level),
		Progress:      points.ComputeProgress(profile.Balance),
		Stats:         points.ComputeStats(profile.Balance),
		Plan:          s.Plan(),
	}

	if s.quizEnabled {
		gate, q, err := s.loadGate(ctx, today)
		if err != nil {
			return Presentation{}, err
		}
		p.Quiz = QuizView{Enabled: true, Gate: gate, Question: q}
		if gate.Answered() {
			p.Plan = constants.PlanQuiz
			p.PlanLocked = true
			s.plan = constants.PlanQuiz
		}
	}
	return p, nil
}
