// Package sqlstore implements the domain queries shared by the SQLite and
// PostgreSQL backends. Queries are written with ? placeholders and rebound per
// driver.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/migration"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/storage"
)

const timeLayout = time.RFC3339Nano

// Store holds an open database handle. The zero value is unusable until Attach.
type Store struct {
	db     *sql.DB
	driver migration.Driver
}

func New(driver migration.Driver) *Store {
	return &Store{driver: driver}
}

// Attach sets the database handle once the backend has opened it
func (s *Store) Attach(db *sql.DB) {
	s.db = db
}

// DB returns the underlying handle, nil before Attach
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) q(query string) string {
	return s.driver.Rebind(query)
}

func (s *Store) ready() error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	return nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	if err := s.ready(); err != nil {
		return models.Settings{}, err
	}
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := s.ready(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(s.q("INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// LoadLedger returns the persisted ledger, or the initial ledger when none
// has been saved. Unreadable data is reported as models.ErrMalformedLedger.
func (s *Store) LoadLedger(ctx context.Context) (models.CheckinLedger, error) {
	if err := s.ready(); err != nil {
		return models.CheckinLedger{}, err
	}

	var data string
	err := s.db.QueryRowContext(ctx, s.q("SELECT data FROM ledger WHERE key = ?"), constants.CheckinKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.InitialLedger(), nil
	}
	if err != nil {
		return models.CheckinLedger{}, err
	}
	return models.DecodeLedger([]byte(data))
}

func (s *Store) SaveLedger(ctx context.Context, ledger models.CheckinLedger) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.writeLedger(ctx, tx, ledger)
	})
}

func (s *Store) SaveCheckin(ctx context.Context, ledger models.CheckinLedger, profile models.Profile, award *models.Award) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.writeLedger(ctx, tx, ledger); err != nil {
			return err
		}
		if err := s.writeProfile(ctx, tx, profile); err != nil {
			return err
		}
		return s.writeAward(ctx, tx, award)
	})
}

func (s *Store) GetProfile(ctx context.Context) (models.Profile, error) {
	if err := s.ready(); err != nil {
		return models.Profile{}, err
	}

	var (
		p         models.Profile
		favorites string
		joinedAt  string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT name, email, balance, level, favorites, joined_at FROM profile WHERE id = 1",
	).Scan(&p.Name, &p.Email, &p.Balance, &p.Level, &favorites, &joinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, storage.ErrProfileNotFound
	}
	if err != nil {
		return models.Profile{}, err
	}

	if err := json.Unmarshal([]byte(favorites), &p.Favorites); err != nil {
		return models.Profile{}, fmt.Errorf("decoding favorites: %w", err)
	}
	if p.JoinedAt, err = time.Parse(timeLayout, joinedAt); err != nil {
		return models.Profile{}, fmt.Errorf("decoding joined_at: %w", err)
	}
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, profile models.Profile) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.writeProfile(ctx, tx, profile)
	})
}

// ListAwards returns the newest awards first; limit <= 0 returns all of them.
func (s *Store) ListAwards(ctx context.Context, limit int) ([]models.Award, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := "SELECT id, day, source, points, description, created_at FROM awards ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []models.Award
	for rows.Next() {
		var (
			a         models.Award
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.Day, &a.Source, &a.Points, &a.Description, &createdAt); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("decoding award %s: %w", a.ID, err)
		}
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

// HasAward reports whether an award from source was already recorded for day
func (s *Store) HasAward(ctx context.Context, day, source string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, s.q("SELECT COUNT(*) FROM awards WHERE day = ? AND source = ?"), day, source).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) GetQuizAttempt(ctx context.Context, day string) (models.QuizAttempt, bool, error) {
	if err := s.ready(); err != nil {
		return models.QuizAttempt{}, false, err
	}

	var (
		a          models.QuizAttempt
		answeredAt string
	)
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT day, question_id, answered_index, correct, answered_at FROM quiz_attempts WHERE day = ?"), day,
	).Scan(&a.Day, &a.QuestionID, &a.AnsweredIndex, &a.Correct, &answeredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QuizAttempt{}, false, nil
	}
	if err != nil {
		return models.QuizAttempt{}, false, err
	}
	if a.AnsweredAt, err = time.Parse(timeLayout, answeredAt); err != nil {
		return models.QuizAttempt{}, false, fmt.Errorf("decoding answered_at: %w", err)
	}
	return a, true, nil
}

// SaveQuizAttempt inserts the day's attempt. The day is the primary key, so a
// second attempt for the same day fails and nothing in the transaction is kept.
func (s *Store) SaveQuizAttempt(ctx context.Context, attempt models.QuizAttempt, profile models.Profile, award *models.Award) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			s.q("INSERT INTO quiz_attempts (day, question_id, answered_index, correct, answered_at) VALUES (?, ?, ?, ?, ?)"),
			attempt.Day, attempt.QuestionID, attempt.AnsweredIndex, attempt.Correct, attempt.AnsweredAt.UTC().Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("saving quiz attempt for %s: %w", attempt.Day, err)
		}
		if err := s.writeProfile(ctx, tx, profile); err != nil {
			return err
		}
		return s.writeAward(ctx, tx, award)
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := s.ready(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) writeLedger(ctx context.Context, tx *sql.Tx, ledger models.CheckinLedger) error {
	data, err := models.EncodeLedger(ledger)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		s.q("INSERT INTO ledger (key, data, updated_at) VALUES (?, ?, ?) ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at"),
		constants.CheckinKey, string(data), time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}

func (s *Store) writeProfile(ctx context.Context, tx *sql.Tx, p models.Profile) error {
	favorites := p.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	fav, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		s.q(`INSERT INTO profile (id, name, email, balance, level, favorites, joined_at) VALUES (1, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, email = excluded.email, balance = excluded.balance,
			level = excluded.level, favorites = excluded.favorites, joined_at = excluded.joined_at`),
		p.Name, p.Email, p.Balance, p.Level, string(fav), p.JoinedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

func (s *Store) writeAward(ctx context.Context, tx *sql.Tx, a *models.Award) error {
	if a == nil {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		s.q("INSERT INTO awards (id, day, source, points, description, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		a.ID, a.Day, a.Source, a.Points, a.Description, a.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving award: %w", err)
	}
	return nil
}
