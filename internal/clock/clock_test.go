package clock

import (
	"testing"

	"github.com/julianstephens/bobarewards/internal/utils"
)

func TestFixedDay(t *testing.T) {
	c := FixedDay("2024-01-15")
	if got := c.Today(); got != "2024-01-15" {
		t.Errorf("Today() = %s, want 2024-01-15", got)
	}

	c.Set("2024-01-17")
	if got := c.Today(); got != "2024-01-17" {
		t.Errorf("Today() after Set = %s, want 2024-01-17", got)
	}
}

func TestFixedDayPanicsOnInvalidDay(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FixedDay() expected panic for invalid day")
		}
	}()
	FixedDay("not-a-day")
}

func TestNewSystem(t *testing.T) {
	c, err := NewSystem("UTC")
	if err != nil {
		t.Fatalf("NewSystem() error: %v", err)
	}
	if !utils.ValidateDay(c.Today()) {
		t.Errorf("Today() = %q, not a valid day", c.Today())
	}
	if c.Location().String() != "UTC" {
		t.Errorf("Location() = %s, want UTC", c.Location())
	}

	if _, err := NewSystem("Invalid/Zone"); err == nil {
		t.Error("NewSystem() expected error for invalid timezone")
	}
}
