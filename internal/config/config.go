// Package config loads process configuration from BOBAREWARDS_* environment variables.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/utils"
)

// Config holds values that may come from the environment. Empty fields fall
// back to persisted settings; CLI flags override both.
type Config struct {
	DB               string `envconfig:"DB" default:"~/.config/bobarewards/bobarewards.db"`
	Debug            bool   `envconfig:"DEBUG" default:"false"`
	Timezone         string `envconfig:"TIMEZONE"`
	ReminderSchedule string `envconfig:"REMINDER_SCHEDULE"`
}

// Load reads BOBAREWARDS_* variables and validates them
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(constants.EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB) == "" {
		return fmt.Errorf("%s_DB must not be empty", constants.EnvPrefix)
	}
	if c.Timezone != "" && !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("%s_TIMEZONE %q is not a valid IANA timezone", constants.EnvPrefix, c.Timezone)
	}
	if c.ReminderSchedule != "" {
		if err := ValidateSchedule(c.ReminderSchedule); err != nil {
			return fmt.Errorf("%s_REMINDER_SCHEDULE: %w", constants.EnvPrefix, err)
		}
	}
	return nil
}

// ValidateSchedule checks a standard five-field cron expression
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}

// Usage writes a table of the supported environment variables to w
func Usage(w io.Writer) error {
	var cfg Config
	return envconfig.Usagef(constants.EnvPrefix, &cfg, w, envconfig.DefaultTableFormat)
}

// ExpandPath resolves a leading ~ to the user's home directory.
// Connection strings are returned unchanged.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir is the directory that holds logs, backups and the lockfile for a store path.
// PostgreSQL stores fall back to the default config directory.
func ConfigDir(storePath string, isConnString bool) (string, error) {
	if isConnString {
		p, err := ExpandPath(constants.DefaultConfigPath)
		if err != nil {
			return "", err
		}
		return filepath.Dir(p), nil
	}
	p, err := ExpandPath(storePath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}
