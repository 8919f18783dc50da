package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return &cli.Context{Store: store}
}

func ptr[T any](v T) *T { return &v }

func TestSettingsCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     SettingsCmd
		wantErr bool
	}{
		{name: "list", cmd: SettingsCmd{List: true}},
		{name: "no changes", cmd: SettingsCmd{}},
		{name: "timezone", cmd: SettingsCmd{Timezone: ptr("America/New_York")}},
		{name: "bad timezone", cmd: SettingsCmd{Timezone: ptr("Mars/Olympus")}, wantErr: true},
		{name: "threshold", cmd: SettingsCmd{ReminderThreshold: ptr(5)}},
		{name: "zero threshold", cmd: SettingsCmd{ReminderThreshold: ptr(0)}, wantErr: true},
		{name: "schedule", cmd: SettingsCmd{ReminderSchedule: ptr("30 19 * * *")}},
		{name: "bad schedule", cmd: SettingsCmd{ReminderSchedule: ptr("every evening")}, wantErr: true},
		{name: "quiz plan", cmd: SettingsCmd{DefaultPlan: ptr("quiz")}},
		{name: "quiz plan with quiz off", cmd: SettingsCmd{QuizEnabled: ptr(false), DefaultPlan: ptr("quiz")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestContext(t)
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsCmdPersists(t *testing.T) {
	ctx := setupTestContext(t)

	cmd := SettingsCmd{
		Timezone:          ptr("Asia/Taipei"),
		QuizEnabled:       ptr(false),
		ReminderThreshold: ptr(7),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatal(err)
	}

	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Timezone != "Asia/Taipei" || s.QuizEnabled || s.ReminderThreshold != 7 {
		t.Errorf("settings = %+v", s)
	}
}
