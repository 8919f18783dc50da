package session

import (
	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/points"
	"github.com/julianstephens/bobarewards/internal/quiz"
	"github.com/julianstephens/bobarewards/internal/streak"
)

// Presentation is everything the reward panel renders for one day.
type Presentation struct {
	Today         string
	Streak        int
	Longest       int
	Week          streak.WeekGrid
	WeekDays      [7]string
	CheckedIn     bool // today has a check-in
	AutoCheckedIn bool // the check-in happened on this open
	Quiz          QuizView
	Plan          constants.Plan
	PlanLocked    bool

	Profile    models.Profile
	Balance    int
	Level      string
	LevelEmoji string
	Progress   points.Progress
	Stats      points.Stats
}

// TodayIndex is today's column in the week grid
func (p Presentation) TodayIndex() int {
	for i, d := range p.WeekDays {
		if d == p.Today {
			return i
		}
	}
	return -1
}

// QuizView is today's quiz as shown to the user
type QuizView struct {
	Enabled  bool
	Gate     quiz.Gate
	Question quiz.Question
}

// QuizResult is the outcome of answering the quiz
type QuizResult struct {
	Gate            quiz.Gate
	Question        quiz.Question
	Correct         bool
	Points          int
	Balance         int
	AlreadyAnswered bool
}

// CorrectOption is revealed after a wrong answer
func (r QuizResult) CorrectOption() string {
	return r.Question.CorrectOption()
}
