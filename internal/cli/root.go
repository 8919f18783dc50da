package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/bobarewards/internal/backup"
	"github.com/julianstephens/bobarewards/internal/clock"
	"github.com/julianstephens/bobarewards/internal/config"
	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/logger"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/session"
	"github.com/julianstephens/bobarewards/internal/storage"
	"github.com/julianstephens/bobarewards/internal/storage/sqlite"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
	// Clock overrides the settings timezone when set
	Clock clock.Clock
	Ctx   context.Context
}

// Context returns the command's context.Context
func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Settings returns persisted settings with defaults applied and
// environment overrides on top.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	if c.Config != nil {
		if c.Config.Timezone != "" {
			settings.Timezone = c.Config.Timezone
		}
		if c.Config.ReminderSchedule != "" {
			settings.ReminderSchedule = c.Config.ReminderSchedule
		}
	}
	return settings, nil
}

// ClockFor returns the clock for the configured timezone
func (c *Context) ClockFor(settings models.Settings) (clock.Clock, error) {
	if c.Clock != nil {
		return c.Clock, nil
	}
	clk, err := clock.NewSystem(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return clk, nil
}

// Session builds a reward session from the stored settings
func (c *Context) Session() (*session.Session, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	clk, err := c.ClockFor(settings)
	if err != nil {
		return nil, err
	}
	return session.New(c.Store, clk, session.Options{
		QuizEnabled: settings.QuizEnabled,
		DefaultPlan: constants.Plan(settings.DefaultPlan),
	}), nil
}

// BackupManager returns a backup manager for SQLite stores
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage")
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates a backup and only logs failures
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
