package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/logger"
)

var (
	ErrNoDatabase = errors.New("database does not exist")
	ErrNoBackup   = errors.New("backup file does not exist")
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// Info describes one backup file
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Name returns the file name of the backup
func (i Info) Name() string {
	return filepath.Base(i.Path)
}

// HumanSize returns the backup size like "48 kB"
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

// Age returns a relative age like "3 hours ago"
func (i Info) Age(now time.Time) string {
	return humanize.RelTime(i.Timestamp, now, "ago", "from now")
}

// Manager handles backup operations for a SQLite store
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

// NewManager creates a backup manager that keeps backups next to the database
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

func (m *Manager) BackupDir() string {
	return m.backupDir
}

// CreateBackup copies the database into the backup directory and rotates old copies
func (m *Manager) CreateBackup() (Info, error) {
	info, err := m.createBackup()
	if err != nil {
		return Info{}, err
	}
	if err := m.rotateBackups(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) createBackup() (Info, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return Info{}, fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}

	now := m.now()
	path, err := m.nextPath(now)
	if err != nil {
		return Info{}, err
	}
	if err := m.backupDatabase(path); err != nil {
		return Info{}, fmt.Errorf("failed to backup database: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	logger.Info("Created backup", "path", path, "size", humanize.Bytes(uint64(st.Size())))
	return Info{Path: path, Timestamp: now, Size: st.Size()}, nil
}

// nextPath picks a file name that does not exist yet, widening the timestamp
// to seconds and then adding a counter on collision.
func (m *Manager) nextPath(now time.Time) (string, error) {
	path := m.pathFor(now.Format(minuteLayout))
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format(secondLayout)
	path = m.pathFor(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = m.pathFor(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

func (m *Manager) backupDatabase(destPath string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := src.Exec("VACUUM INTO ?", destPath); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		src.Close()
		return copyFile(m.dbPath, destPath)
	}
	return nil
}

// ListBackups returns all backups, newest first
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(m.backupDir, entry.Name())
		st, err := os.Stat(path)
		if err != nil {
			continue
		}
		backups = append(backups, Info{Path: path, Timestamp: ts, Size: st.Size()})
	}

	slices.SortFunc(backups, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return backups, nil
}

// parseBackupName extracts the timestamp from names like
// bobarewards-20240115-0930.db or bobarewards-20240115-093012-2.db
func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, false
		}
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// RestoreBackup replaces the database with backupPath. The current database is
// backed up first; its backup is returned when one was made.
func (m *Manager) RestoreBackup(backupPath string) (*Info, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoBackup, backupPath)
	}
	if err := verifyBackup(backupPath); err != nil {
		return nil, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous *Info
	if exists(m.dbPath) {
		info, err := m.createBackup()
		if err != nil {
			return nil, fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		previous = &info
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return previous, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return previous, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Restored backup", "path", backupPath)
	return previous, nil
}

// Resolve finds a backup by full path or by file name in the backup directory
func (m *Manager) Resolve(name string) string {
	if exists(name) {
		return name
	}
	return filepath.Join(m.backupDir, filepath.Base(name))
}

func verifyBackup(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
