package utils

import (
	"time"

	"github.com/julianstephens/bobarewards/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseDay parses a YYYY-MM-DD day at midnight UTC.
// Day arithmetic is done in UTC so DST transitions never shift a calendar day.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(constants.DateFormat, day)
}

// FormatDay formats t as YYYY-MM-DD
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// AddDays returns the day n calendar days after day (n may be negative).
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}

// WeekStart returns the Sunday that starts the week containing day.
func WeekStart(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, -int(t.Weekday()))), nil
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDay(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDay(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// ValidateDay checks if the string is a valid YYYY-MM-DD day.
func ValidateDay(day string) bool {
	_, err := ParseDay(day)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
