// Package points holds the point balance arithmetic and level progress.
package points

import (
	"math"
	"strings"

	"github.com/julianstephens/bobarewards/internal/constants"
)

// Ledger is a point balance and the level label derived from it
type Ledger struct {
	Balance int
	Level   string
}

// Award adds n points. Balances never decrease, so negative n is ignored.
func Award(ledger Ledger, n int) Ledger {
	if n > 0 {
		ledger.Balance += n
	}
	return ledger
}

// Milestone is a progress marker on the level bar
type Milestone struct {
	Percent int
	Reached bool
}

// Progress describes how far a balance is toward the next thousand-point mark
type Progress struct {
	Balance    int
	MaxPoints  int
	Fraction   float64 // 0..1
	Percent    int
	Remaining  int
	Milestones []Milestone
}

var milestonePercents = []int{25, 50, 75, 100}

// ComputeProgress places balance on a bar whose end is the next multiple of
// 1000 points at or above it, never less than 1000.
func ComputeProgress(balance int) Progress {
	balance = max(balance, 0)
	maxPoints := (balance + constants.LevelStep - 1) / constants.LevelStep * constants.LevelStep
	maxPoints = max(maxPoints, constants.MinLevelPoints)

	fraction := math.Min(float64(balance)/float64(maxPoints), 1)
	p := Progress{
		Balance:   balance,
		MaxPoints: maxPoints,
		Fraction:  fraction,
		Percent:   int(math.Round(fraction * 100)),
		Remaining: max(maxPoints-balance, 0),
	}
	for _, m := range milestonePercents {
		p.Milestones = append(p.Milestones, Milestone{
			Percent: m,
			Reached: fraction*100 >= float64(m),
		})
	}
	return p
}

var levelEmoji = []struct {
	match string
	emoji string
}{
	{"Newbie", "🌱"},
	{"Explorer", "🧭"},
	{"Enthusiast", "⭐"},
	{"Master", "👑"},
	{"Legend", "🏆"},
}

// LevelEmoji returns the badge for a level label, matched by keyword
func LevelEmoji(level string) string {
	for _, e := range levelEmoji {
		if strings.Contains(level, e.match) {
			return e.emoji
		}
	}
	return "🧋"
}

// Stats are the activity counts shown on the profile, estimated from the balance
type Stats struct {
	DrinksOrdered int
	Friends       int
	Reviews       int
	Events        int
}

func ComputeStats(balance int) Stats {
	balance = max(balance, 0)
	return Stats{
		DrinksOrdered: balance / 50,
		Friends:       balance / 100,
		Reviews:       balance / 75,
		Events:        balance / 200,
	}
}
