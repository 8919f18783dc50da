// Package keyring keeps the PostgreSQL connection string in the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/bobarewards/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are stored
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

const probeUser = "test-availability"

// Status summarizes what the keyring holds for this app
type Status struct {
	Available bool
	Stored    bool
	Masked    string // stored connection string with the password hidden
}

// GetConnectionString returns the stored connection string or ErrNotFound
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort probe: a lookup that fails with anything other
// than "not found" means there is no usable keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, probeUser)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// GetStatus reports availability and the masked stored value
func GetStatus() Status {
	st := Status{Available: IsAvailable()}
	if !st.Available {
		return st
	}
	connStr, err := GetConnectionString()
	if err != nil {
		return st
	}
	st.Stored = true
	st.Masked = Mask(connStr)
	return st
}

// Mask hides the password of a URL-style connection string.
// Key/value strings are hidden entirely.
func Mask(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.Scheme == "" {
		return "****"
	}
	return u.Redacted()
}
