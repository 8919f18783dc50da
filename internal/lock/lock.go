// Package lock gives one process at a time ownership of the store.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/logger"
)

// ErrLocked means another live process owns the store
var ErrLocked = errors.New("store is in use by another process")

// writeGrace is how long an unreadable lockfile is assumed to be mid-write
const writeGrace = 5 * time.Second

var (
	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
)

// Lock is a held lockfile. The file holds "pid|executable|acquired_at".
type Lock struct {
	path string
	pid  int
}

// PathFor returns the lockfile path guarding the store at storePath
func PathFor(storePath string) string {
	return storePath + constants.LockfileSuffix
}

// Acquire takes the lockfile at path. A lockfile left behind by a process
// that is no longer running is replaced.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := create(path)
		if err == nil {
			return &Lock{path: path, pid: getpid()}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		owner, err := Inspect(path)
		if err == nil && owner.Alive {
			return nil, fmt.Errorf("%w (pid %d, since %s)", ErrLocked, owner.PID, owner.AcquiredAt.Format(time.Kitchen))
		}
		// the owner may still be writing its record
		if err != nil && recentlyCreated(path) {
			return nil, fmt.Errorf("%w (lockfile is being written)", ErrLocked)
		}
		logger.Warn("Replacing stale lockfile", "path", path, "error", err)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, ErrLocked
}

func recentlyCreated(path string) bool {
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(st.ModTime()) < writeGrace
}

func create(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	exe := filepath.Base(os.Args[0])
	_, err = fmt.Fprintf(f, "%d|%s|%s", getpid(), exe, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Release removes the lockfile if it is still ours
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	owner, err := Inspect(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if owner.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Owner describes the process recorded in a lockfile
type Owner struct {
	PID        int
	Executable string
	AcquiredAt time.Time
	Alive      bool
}

// Inspect reads a lockfile and checks whether its owner is still running.
func Inspect(path string) (Owner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Owner{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Owner{}, errors.New("lockfile is malformed")
	}

	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Owner{}, errors.New("invalid process ID in lockfile")
	}
	acquiredAt, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return Owner{}, errors.New("invalid timestamp in lockfile")
	}

	owner := Owner{PID: pid, Executable: parts[1], AcquiredAt: acquiredAt}
	process, err := findProcessFunc(pid)
	if err == nil && process != nil {
		owner.Alive = sameExecutable(owner.Executable, process.Executable())
	}
	return owner, nil
}

// sameExecutable compares names loosely because some platforms truncate
// the process name.
func sameExecutable(recorded, running string) bool {
	if recorded == "" || running == "" {
		return false
	}
	return strings.HasPrefix(recorded, running) || strings.HasPrefix(running, recorded)
}
