// Package jsonfile is a single-file storage backend for portable or test setups.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/storage"
)

type document struct {
	Version      int                           `json:"version"`
	Settings     models.Settings               `json:"settings"`
	Records      map[string]json.RawMessage    `json:"records"` // keyed JSON blobs, the ledger lives under bobasocial_checkin
	Profile      *models.Profile               `json:"profile,omitempty"`
	Awards       []models.Award                `json:"awards"`
	QuizAttempts map[string]models.QuizAttempt `json:"quiz_attempts"`
}

type Store struct {
	path string
	doc  *document
}

var _ storage.Provider = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.doc = &document{
		Version:      1,
		Settings:     models.DefaultSettings(),
		Records:      map[string]json.RawMessage{},
		QuizAttempts: map[string]models.QuizAttempt{},
	}
	return s.save(s.doc)
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w at %s", storage.ErrNotInitialized, s.path)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Records == nil {
		doc.Records = map[string]json.RawMessage{}
	}
	if doc.QuizAttempts == nil {
		doc.QuizAttempts = map[string]models.QuizAttempt{}
	}
	s.doc = doc
	return nil
}

func (s *Store) Close() error {
	return nil
}

// save writes doc through a temp file and rename so a crash never leaves a
// half-written store. s.doc only changes once the write succeeded.
func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	s.doc = doc
	return nil
}

// next returns a copy of the document to mutate
func (s *Store) next() (*document, error) {
	if s.doc == nil {
		return nil, storage.ErrNotLoaded
	}
	doc := *s.doc
	doc.Records = make(map[string]json.RawMessage, len(s.doc.Records))
	for k, v := range s.doc.Records {
		doc.Records[k] = v
	}
	doc.QuizAttempts = make(map[string]models.QuizAttempt, len(s.doc.QuizAttempts))
	for k, v := range s.doc.QuizAttempts {
		doc.QuizAttempts[k] = v
	}
	doc.Awards = slices.Clone(s.doc.Awards)
	return &doc, nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	if s.doc == nil {
		return models.Settings{}, storage.ErrNotLoaded
	}
	return s.doc.Settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	doc, err := s.next()
	if err != nil {
		return err
	}
	doc.Settings = settings
	return s.save(doc)
}

func (s *Store) LoadLedger(ctx context.Context) (models.CheckinLedger, error) {
	if s.doc == nil {
		return models.CheckinLedger{}, storage.ErrNotLoaded
	}
	raw, ok := s.doc.Records[constants.CheckinKey]
	if !ok {
		return storage.InitialLedger(), nil
	}
	return models.DecodeLedger(raw)
}

func (s *Store) SaveLedger(ctx context.Context, ledger models.CheckinLedger) error {
	doc, err := s.next()
	if err != nil {
		return err
	}
	if err := putLedger(doc, ledger); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *Store) SaveCheckin(ctx context.Context, ledger models.CheckinLedger, profile models.Profile, award *models.Award) error {
	doc, err := s.next()
	if err != nil {
		return err
	}
	if err := putLedger(doc, ledger); err != nil {
		return err
	}
	doc.Profile = &profile
	if err := putAward(doc, award); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *Store) GetProfile(ctx context.Context) (models.Profile, error) {
	if s.doc == nil {
		return models.Profile{}, storage.ErrNotLoaded
	}
	if s.doc.Profile == nil {
		return models.Profile{}, storage.ErrProfileNotFound
	}
	p := *s.doc.Profile
	p.Favorites = slices.Clone(p.Favorites)
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, profile models.Profile) error {
	doc, err := s.next()
	if err != nil {
		return err
	}
	doc.Profile = &profile
	return s.save(doc)
}

func (s *Store) ListAwards(ctx context.Context, limit int) ([]models.Award, error) {
	if s.doc == nil {
		return nil, storage.ErrNotLoaded
	}
	awards := slices.Clone(s.doc.Awards)
	sort.SliceStable(awards, func(i, j int) bool {
		return awards[i].CreatedAt.After(awards[j].CreatedAt)
	})
	if limit > 0 && len(awards) > limit {
		awards = awards[:limit]
	}
	return awards, nil
}

func (s *Store) HasAward(ctx context.Context, day, source string) (bool, error) {
	if s.doc == nil {
		return false, storage.ErrNotLoaded
	}
	for _, a := range s.doc.Awards {
		if a.Day == day && a.Source == source {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetQuizAttempt(ctx context.Context, day string) (models.QuizAttempt, bool, error) {
	if s.doc == nil {
		return models.QuizAttempt{}, false, storage.ErrNotLoaded
	}
	a, ok := s.doc.QuizAttempts[day]
	return a, ok, nil
}

func (s *Store) SaveQuizAttempt(ctx context.Context, attempt models.QuizAttempt, profile models.Profile, award *models.Award) error {
	doc, err := s.next()
	if err != nil {
		return err
	}
	if _, exists := doc.QuizAttempts[attempt.Day]; exists {
		return fmt.Errorf("quiz already answered for %s", attempt.Day)
	}
	doc.QuizAttempts[attempt.Day] = attempt
	doc.Profile = &profile
	if err := putAward(doc, award); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func putLedger(doc *document, ledger models.CheckinLedger) error {
	data, err := models.EncodeLedger(ledger)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	doc.Records[constants.CheckinKey] = data
	return nil
}

func putAward(doc *document, award *models.Award) error {
	if award == nil {
		return nil
	}
	for _, a := range doc.Awards {
		if a.ID == award.ID {
			return fmt.Errorf("award %s already recorded", award.ID)
		}
		if a.Day == award.Day && a.Source == award.Source {
			return fmt.Errorf("%s award already recorded for %s", award.Source, award.Day)
		}
	}
	doc.Awards = append(doc.Awards, *award)
	return nil
}
