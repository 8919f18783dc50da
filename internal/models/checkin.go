package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/bobarewards/internal/constants"
)

// ErrMalformedLedger is returned when a persisted ledger cannot be trusted
var ErrMalformedLedger = errors.New("malformed check-in ledger")

// CheckinLedger is the persisted record of daily check-ins for one user.
// LastDate is empty until the first check-in.
type CheckinLedger struct {
	LastDate     string   `json:"lastDate"`     // YYYY-MM-DD format, "" when no check-in yet
	Streak       int      `json:"streak"`       // consecutive days ending at LastDate
	CheckinDates []string `json:"checkinDates"` // every day a check-in was recorded, sorted
}

// IsEmpty reports whether the ledger has never recorded a check-in
func (l CheckinLedger) IsEmpty() bool {
	return l.LastDate == ""
}

// HasCheckin reports whether a check-in was recorded on day
func (l CheckinLedger) HasCheckin(day string) bool {
	_, found := slices.BinarySearch(l.CheckinDates, day)
	return found
}

// Clone returns a deep copy so callers never share the dates slice
func (l CheckinLedger) Clone() CheckinLedger {
	out := l
	out.CheckinDates = slices.Clone(l.CheckinDates)
	if out.CheckinDates == nil {
		out.CheckinDates = []string{}
	}
	return out
}

// WithCheckin returns a copy of the ledger with day added to the history
func (l CheckinLedger) WithCheckin(day string) CheckinLedger {
	out := l.Clone()
	if i, found := slices.BinarySearch(out.CheckinDates, day); !found {
		out.CheckinDates = slices.Insert(out.CheckinDates, i, day)
	}
	return out
}

// EncodeLedger serializes the ledger in its persisted layout
func EncodeLedger(l CheckinLedger) ([]byte, error) {
	if l.CheckinDates == nil {
		l.CheckinDates = []string{}
	}
	return json.Marshal(l)
}

// DecodeLedger parses a persisted ledger. Duplicate dates are collapsed and the
// history is sorted; anything that breaks the ledger invariants is rejected with
// ErrMalformedLedger.
func DecodeLedger(data []byte) (CheckinLedger, error) {
	var l CheckinLedger
	if err := json.Unmarshal(data, &l); err != nil {
		return CheckinLedger{}, fmt.Errorf("%w: %v", ErrMalformedLedger, err)
	}

	if l.Streak < 0 {
		return CheckinLedger{}, fmt.Errorf("%w: negative streak %d", ErrMalformedLedger, l.Streak)
	}
	if (l.Streak == 0) != (l.LastDate == "") {
		return CheckinLedger{}, fmt.Errorf("%w: streak %d with last date %q", ErrMalformedLedger, l.Streak, l.LastDate)
	}

	for _, day := range l.CheckinDates {
		if _, err := time.Parse(constants.DateFormat, day); err != nil {
			return CheckinLedger{}, fmt.Errorf("%w: invalid check-in date %q", ErrMalformedLedger, day)
		}
	}
	slices.Sort(l.CheckinDates)
	l.CheckinDates = slices.Compact(l.CheckinDates)
	if l.CheckinDates == nil {
		l.CheckinDates = []string{}
	}

	if l.LastDate != "" {
		if _, err := time.Parse(constants.DateFormat, l.LastDate); err != nil {
			return CheckinLedger{}, fmt.Errorf("%w: invalid last date %q", ErrMalformedLedger, l.LastDate)
		}
		if !l.HasCheckin(l.LastDate) {
			l = l.WithCheckin(l.LastDate)
		}
		if l.CheckinDates[len(l.CheckinDates)-1] != l.LastDate {
			return CheckinLedger{}, fmt.Errorf("%w: last date %s is not the latest check-in", ErrMalformedLedger, l.LastDate)
		}
	}

	return l, nil
}
