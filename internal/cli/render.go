package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/levels"
	"github.com/julianstephens/bobarewards/internal/points"
	"github.com/julianstephens/bobarewards/internal/quiz"
	"github.com/julianstephens/bobarewards/internal/session"
	"github.com/julianstephens/bobarewards/internal/streak"
)

// WeekLine renders the S M T W T F S grid. Today is bracketed and days after
// today are dots.
func WeekLine(p session.Presentation) (header, marks string) {
	today := p.TodayIndex()
	var h, m []string
	for i, label := range streak.DayLabels {
		h = append(h, fmt.Sprintf(" %s ", label))
		mark := "○"
		switch {
		case i > today:
			mark = "·"
		case p.Week[i]:
			mark = "●"
		}
		if i == today {
			m = append(m, "["+mark+"]")
		} else {
			m = append(m, " "+mark+" ")
		}
	}
	return strings.Join(h, ""), strings.Join(m, "")
}

// PrintPresentation writes the reward panel as plain text
func PrintPresentation(w io.Writer, p session.Presentation) {
	fmt.Fprintf(w, "🧋 %s · %s\n\n", constants.AppName, p.Today)

	fmt.Fprintf(w, "Streak: %s (longest %d)\n", Days(p.Streak), p.Longest)
	switch {
	case p.AutoCheckedIn:
		fmt.Fprintf(w, "✓ Checked in today (+%d pts)\n", constants.CheckinPoints)
	case p.CheckedIn:
		fmt.Fprintln(w, "✓ Already checked in today")
	default:
		fmt.Fprintln(w, "○ Not checked in yet today")
	}

	header, marks := WeekLine(p)
	fmt.Fprintf(w, "\n%s\n%s\n\n", header, marks)

	PrintProgress(w, p.Balance, p.Level)

	fmt.Fprintf(w, "\nPlan: %s", p.Plan)
	if p.PlanLocked {
		fmt.Fprint(w, " (locked)")
	}
	fmt.Fprintln(w)
	if p.Quiz.Enabled {
		fmt.Fprintf(w, "Quiz: %s\n", QuizStatus(p.Quiz.Gate))
	}
	fmt.Fprintf(w, "\nOrder on Tastemate +%d pts per order\n", constants.OrderPoints)
}

// PrintProgress writes the balance, level and milestone line
func PrintProgress(w io.Writer, balance int, level string) {
	prog := points.ComputeProgress(balance)
	fmt.Fprintf(w, "Points: %s / %s (%d%%)  %s %s\n",
		humanize.Comma(int64(prog.Balance)), humanize.Comma(int64(prog.MaxPoints)), prog.Percent,
		points.LevelEmoji(level), level)

	var ms []string
	for _, m := range prog.Milestones {
		mark := "○"
		if m.Reached {
			mark = "●"
		}
		ms = append(ms, fmt.Sprintf("%s %d%%", mark, m.Percent))
	}
	fmt.Fprintf(w, "Milestones: %s\n", strings.Join(ms, "  "))

	if next, ok := levels.Default.Next(balance); ok {
		fmt.Fprintf(w, "Next level: %s in %s pts\n", next.Name, humanize.Comma(int64(next.MinPoints-balance)))
	}
}

// QuizStatus describes a gate in a few words
func QuizStatus(g quiz.Gate) string {
	switch g.State() {
	case quiz.AnsweredCorrect:
		return fmt.Sprintf("answered correctly (+%d pts)", constants.QuizPoints)
	case quiz.AnsweredWrong:
		return "answered, not correct"
	default:
		return fmt.Sprintf("open (+%d pts for the right answer)", constants.QuizPoints)
	}
}

// Days formats a day count like "1 day" or "6 days"
func Days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
