// Package streak advances the consecutive-day check-in streak and projects
// the check-in history onto the current week.
package streak

import (
	"slices"

	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/utils"
)

// Advance records a check-in for today. It returns the updated ledger and
// whether a new check-in happened; a second call on the same day is a no-op.
//
// The streak continues when the last check-in was yesterday and restarts at 1
// after any gap. today must be a valid YYYY-MM-DD day; an invalid day leaves the
// ledger untouched.
func Advance(ledger models.CheckinLedger, today string) (models.CheckinLedger, bool) {
	if ledger.LastDate == today {
		return ledger, false
	}

	yesterday, err := utils.AddDays(today, -1)
	if err != nil {
		return ledger, false
	}

	next := ledger.WithCheckin(today)
	next.LastDate = today
	if ledger.LastDate == yesterday {
		next.Streak = ledger.Streak + 1
	} else {
		next.Streak = 1
	}
	return next, true
}

// Longest returns the longest run of consecutive days in dates.
func Longest(dates []string) int {
	days := normalize(dates)
	best, run := 0, 0
	for i, day := range days {
		if i > 0 {
			if prev, err := utils.AddDays(day, -1); err == nil && prev == days[i-1] {
				run++
			} else {
				run = 1
			}
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// Recompute derives the streak ending at end from the check-in history alone.
// It returns 0 when end has no check-in.
func Recompute(dates []string, end string) int {
	days := normalize(dates)
	i, found := slices.BinarySearch(days, end)
	if !found {
		return 0
	}

	run := 1
	for ; i > 0; i-- {
		prev, err := utils.AddDays(days[i], -1)
		if err != nil || prev != days[i-1] {
			break
		}
		run++
	}
	return run
}

// normalize returns a sorted, de-duplicated copy of the valid days in dates.
func normalize(dates []string) []string {
	days := make([]string, 0, len(dates))
	for _, d := range dates {
		if utils.ValidateDay(d) {
			days = append(days, d)
		}
	}
	slices.Sort(days)
	return slices.Compact(days)
}
