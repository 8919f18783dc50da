// Package clock supplies the single source of "today" for the engine.
package clock

import (
	"time"

	"github.com/julianstephens/bobarewards/internal/utils"
)

// Clock reports the current instant and the local calendar day.
type Clock interface {
	Now() time.Time
	Today() string // YYYY-MM-DD in the clock's location
}

// System reads the wall clock in a configured timezone.
type System struct {
	loc *time.Location
}

// NewSystem returns a System clock for the IANA timezone name ("Local" or "" for the host zone).
func NewSystem(timezone string) (*System, error) {
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &System{loc: loc}, nil
}

func (c *System) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *System) Today() string {
	return utils.FormatDay(c.Now())
}

// Location returns the timezone the clock reads in
func (c *System) Location() *time.Location {
	return c.loc
}

// Fixed always reports the same instant. Used by tests and by `--today` overrides.
type Fixed struct {
	T time.Time
}

// FixedDay returns a Fixed clock at noon UTC on day. It panics on an invalid day.
func FixedDay(day string) *Fixed {
	t, err := utils.ParseDay(day)
	if err != nil {
		panic("clock: invalid day " + day)
	}
	return &Fixed{T: t.Add(12 * time.Hour)}
}

func (c *Fixed) Now() time.Time {
	return c.T
}

func (c *Fixed) Today() string {
	return utils.FormatDay(c.T)
}

// Set moves the clock to day
func (c *Fixed) Set(day string) {
	c.T = FixedDay(day).T
}
