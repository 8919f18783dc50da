// Package quiz implements the once-per-day trivia bonus.
package quiz

import (
	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/models"
)

// Unanswered marks a gate that has not been answered yet
const Unanswered = -1

// State of a day's gate. Only Open may transition, and only once.
type State int

const (
	Open State = iota
	AnsweredCorrect
	AnsweredWrong
)

func (s State) String() string {
	switch s {
	case AnsweredCorrect:
		return "correct"
	case AnsweredWrong:
		return "wrong"
	default:
		return "open"
	}
}

// Gate is the quiz state for one calendar day.
type Gate struct {
	Day           string
	QuestionID    string
	AnsweredIndex int
	Correct       bool
}

// NewGate returns an unanswered gate for the question on day
func NewGate(day string, q Question) Gate {
	return Gate{Day: day, QuestionID: q.ID, AnsweredIndex: Unanswered}
}

// Answered reports whether the gate is closed for the day
func (g Gate) Answered() bool {
	return g.AnsweredIndex != Unanswered
}

// State reports whether the gate is open or how it was answered
func (g Gate) State() State {
	switch {
	case !g.Answered():
		return Open
	case g.Correct:
		return AnsweredCorrect
	default:
		return AnsweredWrong
	}
}

// Answer applies a choice to an open gate and returns the points earned.
// An already answered gate is returned unchanged with 0 points.
func Answer(gate Gate, chosenIndex, correctIndex int) (Gate, int) {
	if gate.Answered() {
		return gate, 0
	}

	gate.AnsweredIndex = chosenIndex
	gate.Correct = chosenIndex == correctIndex
	if gate.Correct {
		return gate, constants.QuizPoints
	}
	return gate, 0
}

// FromAttempt converts a persisted attempt into a gate
func FromAttempt(a models.QuizAttempt) Gate {
	return Gate{
		Day:           a.Day,
		QuestionID:    a.QuestionID,
		AnsweredIndex: a.AnsweredIndex,
		Correct:       a.Correct,
	}
}

// ToAttempt converts a gate into its persisted form
func (g Gate) ToAttempt() models.QuizAttempt {
	return models.QuizAttempt{
		Day:           g.Day,
		QuestionID:    g.QuestionID,
		AnsweredIndex: g.AnsweredIndex,
		Correct:       g.Correct,
	}
}
