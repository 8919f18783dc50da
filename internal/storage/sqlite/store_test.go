package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testProfile(balance int) models.Profile {
	return models.Profile{
		Name:     "Mia",
		Email:    "mia@example.com",
		Balance:  balance,
		Level:    "Bubble Tea Newbie",
		JoinedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestLoadNotInitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestInitWritesDefaultSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error: %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("GetSettings() = %+v, want defaults", settings)
	}

	settings.Timezone = "Asia/Taipei"
	settings.QuizEnabled = false
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}
	got, _ := store.GetSettings()
	if got.Timezone != "Asia/Taipei" || got.QuizEnabled {
		t.Errorf("GetSettings() after save = %+v", got)
	}

	missing, err := store.CheckTables()
	if err != nil || len(missing) != 0 {
		t.Errorf("CheckTables() = %v, %v", missing, err)
	}
	current, latest, err := store.SchemaVersion()
	if err != nil || current != latest || current == 0 {
		t.Errorf("SchemaVersion() = %d, %d, %v", current, latest, err)
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	ledger, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("LoadLedger() on empty store error: %v", err)
	}
	if !ledger.IsEmpty() || ledger.CheckinDates == nil {
		t.Errorf("LoadLedger() = %+v, want initial ledger", ledger)
	}

	want := models.CheckinLedger{LastDate: "2024-01-15", Streak: 2, CheckinDates: []string{"2024-01-14", "2024-01-15"}}
	award := &models.Award{ID: "a1", Day: "2024-01-15", Source: "checkin", Points: 2, CreatedAt: time.Now()}
	if err := store.SaveCheckin(ctx, want, testProfile(102), award); err != nil {
		t.Fatalf("SaveCheckin() error: %v", err)
	}

	got, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("LoadLedger() error: %v", err)
	}
	if got.LastDate != want.LastDate || got.Streak != want.Streak || len(got.CheckinDates) != 2 {
		t.Errorf("LoadLedger() = %+v, want %+v", got, want)
	}

	var raw string
	if err := store.GetDB().QueryRow("SELECT data FROM ledger WHERE key = ?", constants.CheckinKey).Scan(&raw); err != nil {
		t.Fatalf("reading raw ledger: %v", err)
	}
	if raw != `{"lastDate":"2024-01-15","streak":2,"checkinDates":["2024-01-14","2024-01-15"]}` {
		t.Errorf("persisted layout = %s", raw)
	}

	profile, err := store.GetProfile(ctx)
	if err != nil || profile.Balance != 102 {
		t.Errorf("GetProfile() = %+v, %v", profile, err)
	}
}

func TestLoadLedgerMalformed(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.GetDB().Exec("INSERT INTO ledger (key, data, updated_at) VALUES (?, ?, ?)", constants.CheckinKey, "{not json", "x")
	if err != nil {
		t.Fatalf("seeding ledger: %v", err)
	}

	if _, err := store.LoadLedger(context.Background()); !errors.Is(err, models.ErrMalformedLedger) {
		t.Errorf("LoadLedger() error = %v, want ErrMalformedLedger", err)
	}
}

func TestSaveCheckinIsAtomic(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	ledger := models.CheckinLedger{LastDate: "2024-01-15", Streak: 1, CheckinDates: []string{"2024-01-15"}}
	award := &models.Award{ID: "a1", Day: "2024-01-15", Source: "checkin", Points: 2, CreatedAt: time.Now()}
	if err := store.SaveCheckin(ctx, ledger, testProfile(102), award); err != nil {
		t.Fatalf("SaveCheckin() error: %v", err)
	}

	// the same award id again fails the insert, so the ledger change must roll back
	next := models.CheckinLedger{LastDate: "2024-01-16", Streak: 2, CheckinDates: []string{"2024-01-15", "2024-01-16"}}
	if err := store.SaveCheckin(ctx, next, testProfile(104), award); err == nil {
		t.Fatal("SaveCheckin() with duplicate award expected error")
	}

	got, _ := store.LoadLedger(ctx)
	if got.LastDate != "2024-01-15" {
		t.Errorf("ledger LastDate = %s after failed save, want 2024-01-15", got.LastDate)
	}
	profile, _ := store.GetProfile(ctx)
	if profile.Balance != 102 {
		t.Errorf("balance = %d after failed save, want 102", profile.Balance)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetProfile(context.Background()); !errors.Is(err, storage.ErrProfileNotFound) {
		t.Errorf("GetProfile() error = %v, want ErrProfileNotFound", err)
	}
}

func TestProfileFavorites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	p := testProfile(100)
	p.Favorites = []string{"Taro Milk Tea", "Brown Sugar Boba"}
	if err := store.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile() error: %v", err)
	}
	got, err := store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if len(got.Favorites) != 2 || !got.JoinedAt.Equal(p.JoinedAt) {
		t.Errorf("GetProfile() = %+v", got)
	}
}

func TestQuizAttempts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	if err := store.SaveProfile(ctx, testProfile(100)); err != nil {
		t.Fatalf("SaveProfile() error: %v", err)
	}

	if _, found, err := store.GetQuizAttempt(ctx, "2024-01-15"); err != nil || found {
		t.Fatalf("GetQuizAttempt() = found %v, err %v", found, err)
	}

	attempt := models.QuizAttempt{Day: "2024-01-15", QuestionID: "popular-topping", AnsweredIndex: 1, Correct: true, AnsweredAt: time.Now()}
	award := &models.Award{ID: "q1", Day: "2024-01-15", Source: "quiz", Points: 5, CreatedAt: time.Now()}
	if err := store.SaveQuizAttempt(ctx, attempt, testProfile(105), award); err != nil {
		t.Fatalf("SaveQuizAttempt() error: %v", err)
	}

	got, found, err := store.GetQuizAttempt(ctx, "2024-01-15")
	if err != nil || !found || !got.Correct || got.AnsweredIndex != 1 {
		t.Errorf("GetQuizAttempt() = %+v, %v, %v", got, found, err)
	}

	second := &models.Award{ID: "q2", Day: "2024-01-15", Source: "quiz", Points: 5, CreatedAt: time.Now()}
	if err := store.SaveQuizAttempt(ctx, attempt, testProfile(110), second); err == nil {
		t.Error("second SaveQuizAttempt() for the same day expected error")
	}
	profile, _ := store.GetProfile(ctx)
	if profile.Balance != 105 {
		t.Errorf("balance = %d, want 105", profile.Balance)
	}
}

func TestListAwards(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	days := []string{"2024-01-15", "2024-01-16", "2024-01-17"}
	for i, day := range days {
		ledger := models.CheckinLedger{LastDate: day, Streak: i + 1, CheckinDates: days[:i+1]}
		award := &models.Award{ID: "a" + day, Day: day, Source: "checkin", Points: 2, CreatedAt: base.AddDate(0, 0, i)}
		if err := store.SaveCheckin(ctx, ledger, testProfile(100+2*(i+1)), award); err != nil {
			t.Fatalf("SaveCheckin(%s) error: %v", day, err)
		}
	}

	all, err := store.ListAwards(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListAwards(0) = %d awards, %v", len(all), err)
	}
	if all[0].Day != "2024-01-17" {
		t.Errorf("newest award day = %s, want 2024-01-17", all[0].Day)
	}

	limited, err := store.ListAwards(ctx, 2)
	if err != nil || len(limited) != 2 {
		t.Errorf("ListAwards(2) = %d awards, %v", len(limited), err)
	}
}

func TestTableExists(t *testing.T) {
	store := setupTestStore(t)

	tests := []struct {
		name string
		want bool
	}{
		{"ledger", true},
		{"LEDGER", true},
		{"tasks", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.tableExists(tt.name)
			if err != nil {
				t.Fatalf("tableExists() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("tableExists(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestUseBeforeLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if _, err := store.LoadLedger(context.Background()); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("LoadLedger() error = %v, want ErrNotLoaded", err)
	}
}
