// Package validation checks persisted reward data for broken invariants.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/bobarewards/internal/levels"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/streak"
	"github.com/julianstephens/bobarewards/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDate       ConflictType = "invalid_date"
	ConflictDuplicateDate     ConflictType = "duplicate_date"
	ConflictUnsortedDates     ConflictType = "unsorted_dates"
	ConflictFutureCheckin     ConflictType = "future_checkin"
	ConflictLastDateNotLatest ConflictType = "last_date_not_latest"
	ConflictStreakState       ConflictType = "streak_state"
	ConflictStreakTooShort    ConflictType = "streak_too_short"
	ConflictNegativeBalance   ConflictType = "negative_balance"
	ConflictLevelMismatch     ConflictType = "level_mismatch"
	ConflictDuplicateAward    ConflictType = "duplicate_award"
	ConflictInvalidAward      ConflictType = "invalid_award"
)

// Conflict is one detected problem
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
	Fixable     bool
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// FixAction describes one repair made by FixLedger
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

func (r *Result) add(c Conflict) {
	r.Conflicts = append(r.Conflicts, c)
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks ledgers, profiles and awards
type Validator struct {
	levels levels.Resolver
}

// New creates a Validator. A nil resolver uses levels.Default.
func New(resolver levels.Resolver) *Validator {
	if resolver == nil {
		resolver = levels.Default
	}
	return &Validator{levels: resolver}
}

// ValidateLedger checks a check-in ledger against today
func (v *Validator) ValidateLedger(ledger models.CheckinLedger, today string) Result {
	result := Result{Conflicts: []Conflict{}}

	seen := make(map[string]bool, len(ledger.CheckinDates))
	for i, day := range ledger.CheckinDates {
		if !utils.ValidateDay(day) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Check-in history has invalid date %q", day),
				Date:        day,
				Fixable:     true,
			})
			continue
		}
		if seen[day] {
			result.add(Conflict{
				Type:        ConflictDuplicateDate,
				Description: fmt.Sprintf("Check-in on %s is recorded more than once", day),
				Date:        day,
				Fixable:     true,
			})
		}
		seen[day] = true
		if i > 0 && day < ledger.CheckinDates[i-1] {
			result.add(Conflict{
				Type:        ConflictUnsortedDates,
				Description: fmt.Sprintf("Check-in history is out of order at %s", day),
				Date:        day,
				Fixable:     true,
			})
		}
		if today != "" && day > today {
			result.add(Conflict{
				Type:        ConflictFutureCheckin,
				Description: fmt.Sprintf("Check-in on %s is after today (%s)", day, today),
				Date:        day,
			})
		}
	}

	if ledger.Streak < 0 || (ledger.Streak == 0) != (ledger.LastDate == "") {
		result.add(Conflict{
			Type:        ConflictStreakState,
			Description: fmt.Sprintf("Streak %d does not match last check-in %q", ledger.Streak, ledger.LastDate),
			Date:        ledger.LastDate,
			Fixable:     true,
		})
		return result
	}
	if ledger.LastDate == "" {
		return result
	}
	if !utils.ValidateDay(ledger.LastDate) {
		result.add(Conflict{
			Type:        ConflictInvalidDate,
			Description: fmt.Sprintf("Last check-in date %q is invalid", ledger.LastDate),
			Date:        ledger.LastDate,
		})
		return result
	}

	for day := range seen {
		if day > ledger.LastDate {
			result.add(Conflict{
				Type:        ConflictLastDateNotLatest,
				Description: fmt.Sprintf("Last check-in %s is older than recorded check-in %s", ledger.LastDate, day),
				Date:        day,
				Fixable:     true,
			})
			break
		}
	}

	// History may be shorter than the streak for ledgers written before dates
	// were recorded, so only a streak the history outruns is a conflict.
	if run := streak.Recompute(ledger.CheckinDates, ledger.LastDate); run > ledger.Streak {
		result.add(Conflict{
			Type:        ConflictStreakTooShort,
			Description: fmt.Sprintf("Streak is %d but history shows %d consecutive days ending %s", ledger.Streak, run, ledger.LastDate),
			Date:        ledger.LastDate,
			Fixable:     true,
		})
	}

	return result
}

// ValidateProfile checks the balance and its level label
func (v *Validator) ValidateProfile(profile models.Profile) Result {
	result := Result{Conflicts: []Conflict{}}
	if profile.Balance < 0 {
		result.add(Conflict{
			Type:        ConflictNegativeBalance,
			Description: fmt.Sprintf("Point balance is negative (%d)", profile.Balance),
		})
		return result
	}
	if want := v.levels.Resolve(profile.Balance); profile.Level != want {
		result.add(Conflict{
			Type:        ConflictLevelMismatch,
			Description: fmt.Sprintf("Level %q does not match balance %d (expected %q)", profile.Level, profile.Balance, want),
			Fixable:     true,
		})
	}
	return result
}

// ValidateAwards checks that no day was credited twice from the same source
func (v *Validator) ValidateAwards(awards []models.Award) Result {
	result := Result{Conflicts: []Conflict{}}
	seen := make(map[string]bool, len(awards))
	for _, a := range awards {
		if a.Points <= 0 || !utils.ValidateDay(a.Day) {
			result.add(Conflict{
				Type:        ConflictInvalidAward,
				Description: fmt.Sprintf("Award %s has invalid day %q or points %d", a.ID, a.Day, a.Points),
				Date:        a.Day,
			})
			continue
		}
		key := a.Day + "/" + a.Source
		if seen[key] {
			result.add(Conflict{
				Type:        ConflictDuplicateAward,
				Description: fmt.Sprintf("%s award credited more than once on %s", a.Source, a.Day),
				Date:        a.Day,
			})
		}
		seen[key] = true
	}
	return result
}

// FixLedger repairs the fixable ledger conflicts: invalid and duplicate dates
// are dropped, history is sorted, LastDate becomes the latest check-in and the
// streak is raised to what the history proves.
func (v *Validator) FixLedger(ledger models.CheckinLedger, conflicts []Conflict) (models.CheckinLedger, []FixAction) {
	fixed := ledger.Clone()
	var actions []FixAction

	for _, c := range conflicts {
		if !c.Fixable {
			continue
		}
		switch c.Type {
		case ConflictInvalidDate:
			fixed.CheckinDates = slices.DeleteFunc(fixed.CheckinDates, func(d string) bool { return d == c.Date })
			actions = append(actions, FixAction{Action: fmt.Sprintf("Removed invalid date %q", c.Date), SourceConflict: c})
		case ConflictDuplicateDate, ConflictUnsortedDates:
			slices.Sort(fixed.CheckinDates)
			fixed.CheckinDates = slices.Compact(fixed.CheckinDates)
			actions = append(actions, FixAction{Action: "Sorted check-in history and removed duplicates", SourceConflict: c})
		}
	}

	// Remaining repairs depend on the cleaned history
	slices.Sort(fixed.CheckinDates)
	fixed.CheckinDates = slices.Compact(fixed.CheckinDates)

	for _, c := range conflicts {
		if !c.Fixable {
			continue
		}
		switch c.Type {
		case ConflictLastDateNotLatest, ConflictStreakState:
			if len(fixed.CheckinDates) == 0 {
				fixed.LastDate, fixed.Streak = "", 0
				actions = append(actions, FixAction{Action: "Reset empty ledger to its initial state", SourceConflict: c})
				continue
			}
			fixed.LastDate = fixed.CheckinDates[len(fixed.CheckinDates)-1]
			fixed.Streak = streak.Recompute(fixed.CheckinDates, fixed.LastDate)
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Set last check-in to %s with streak %d", fixed.LastDate, fixed.Streak),
				SourceConflict: c,
			})
		case ConflictStreakTooShort:
			run := streak.Recompute(fixed.CheckinDates, fixed.LastDate)
			if run > fixed.Streak {
				fixed.Streak = run
				actions = append(actions, FixAction{Action: fmt.Sprintf("Raised streak to %d", run), SourceConflict: c})
			}
		}
	}

	return fixed, actions
}

// FixProfile sets the level label from the balance
func (v *Validator) FixProfile(profile models.Profile) (models.Profile, bool) {
	if profile.Balance < 0 {
		return profile, false
	}
	want := v.levels.Resolve(profile.Balance)
	if profile.Level == want {
		return profile, false
	}
	profile.Level = want
	return profile, true
}
