package models

import "time"

// QuizAttempt is the persisted form of a day's quiz gate
type QuizAttempt struct {
	Day           string    `json:"day"` // YYYY-MM-DD format
	QuestionID    string    `json:"question_id"`
	AnsweredIndex int       `json:"answered_index"`
	Correct       bool      `json:"correct"`
	AnsweredAt    time.Time `json:"answered_at"`
}
