package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/bobarewards/internal/models"
)

var (
	// ErrNotInitialized is returned by Load before `bobarewards init` has run
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrProfileNotFound means the store has no profile row yet
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNotLoaded is returned when a store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is the persistence contract shared by every backend. Methods that
// take an award write it in the same transaction as the rest of the call; a
// nil award writes nothing extra.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Check-in ledger
	LoadLedger(ctx context.Context) (models.CheckinLedger, error)
	SaveLedger(ctx context.Context, ledger models.CheckinLedger) error
	SaveCheckin(ctx context.Context, ledger models.CheckinLedger, profile models.Profile, award *models.Award) error

	// Profile and awards
	GetProfile(ctx context.Context) (models.Profile, error)
	SaveProfile(ctx context.Context, profile models.Profile) error
	ListAwards(ctx context.Context, limit int) ([]models.Award, error)
	HasAward(ctx context.Context, day, source string) (bool, error)

	// Quiz
	GetQuizAttempt(ctx context.Context, day string) (models.QuizAttempt, bool, error)
	SaveQuizAttempt(ctx context.Context, attempt models.QuizAttempt, profile models.Profile, award *models.Award) error

	// Utils
	GetConfigPath() string
}

// InitialLedger is the ledger used when nothing has been persisted yet
func InitialLedger() models.CheckinLedger {
	return models.CheckinLedger{CheckinDates: []string{}}
}
