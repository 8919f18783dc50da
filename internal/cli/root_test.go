package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/bobarewards/internal/clock"
	"github.com/julianstephens/bobarewards/internal/config"
	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/points"
	"github.com/julianstephens/bobarewards/internal/session"
	"github.com/julianstephens/bobarewards/internal/storage/jsonfile"
	"github.com/julianstephens/bobarewards/internal/streak"
)

func TestSettingsEnvOverrides(t *testing.T) {
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "rewards.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	ctx := &Context{Store: store, Config: &config.Config{Timezone: "Asia/Taipei", ReminderSchedule: "0 21 * * *"}}
	s, err := ctx.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Timezone != "Asia/Taipei" || s.ReminderSchedule != "0 21 * * *" {
		t.Errorf("settings = %+v, want env overrides", s)
	}
	if s.ReminderThreshold != constants.DefaultReminderThreshold {
		t.Errorf("threshold = %d, want default", s.ReminderThreshold)
	}

	clk, err := ctx.ClockFor(s)
	if err != nil {
		t.Fatal(err)
	}
	if sys, ok := clk.(*clock.System); !ok || sys.Location().String() != "Asia/Taipei" {
		t.Errorf("clock = %#v", clk)
	}
}

func TestSessionUsesFixedClock(t *testing.T) {
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "rewards.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	clk := clock.FixedDay("2024-01-15")
	ctx := &Context{Store: store, Clock: clk}
	if err := store.SaveProfile(ctx.Context(), points.SeedProfile("Mei", "", clk)); err != nil {
		t.Fatal(err)
	}

	sess, err := ctx.Session()
	if err != nil {
		t.Fatal(err)
	}
	p, err := sess.Open(ctx.Context())
	if err != nil {
		t.Fatal(err)
	}
	if p.Today != "2024-01-15" || !p.AutoCheckedIn {
		t.Errorf("presentation = %+v", p)
	}
	if _, err := ctx.BackupManager(); err == nil {
		t.Error("JSON store should not offer backups")
	}
}

func TestWeekLine(t *testing.T) {
	// 2024-01-17 is a Wednesday
	p := session.Presentation{
		Today:    "2024-01-17",
		WeekDays: streak.WeekDays("2024-01-17"),
		Week:     streak.ProjectWeek([]string{"2024-01-14", "2024-01-15", "2024-01-17"}, "2024-01-17"),
	}

	header, marks := WeekLine(p)
	if header != " S  M  T  W  T  F  S " {
		t.Errorf("header = %q", header)
	}
	if marks != " ●  ●  ○ [●] ·  ·  · " {
		t.Errorf("marks = %q", marks)
	}
}

func TestPrintPresentation(t *testing.T) {
	p := session.Presentation{
		Today:         "2024-01-15",
		Streak:        6,
		Longest:       6,
		WeekDays:      streak.WeekDays("2024-01-15"),
		AutoCheckedIn: true,
		CheckedIn:     true,
		Plan:          constants.PlanCheckin,
		Balance:       1250,
		Level:         "Bubble Tea Master",
	}

	var buf bytes.Buffer
	PrintPresentation(&buf, p)
	out := buf.String()

	for _, want := range []string{
		"Streak: 6 days",
		"Checked in today (+2 pts)",
		"Points: 1,250 / 2,000 (63%)",
		"Bubble Tea Master",
		"Order on Tastemate +10 pts per order",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDays(t *testing.T) {
	if Days(1) != "1 day" || Days(0) != "0 days" || Days(6) != "6 days" {
		t.Error("Days() pluralization is wrong")
	}
}
