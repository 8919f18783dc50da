package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/points"
	"github.com/julianstephens/bobarewards/internal/storage"
	"github.com/julianstephens/bobarewards/internal/storage/postgres"
)

type InitCmd struct {
	Name  string `help:"Display name for the local profile." default:"Boba Fan"`
	Email string `help:"Email for the local profile."`
	Force bool   `help:"Force reset by deleting existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized bobarewards storage at: %s\n", ctx.Store.GetConfigPath())

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	clk, err := ctx.ClockFor(settings)
	if err != nil {
		return err
	}

	profile, err := ctx.Store.GetProfile(ctx.Context())
	switch {
	case errors.Is(err, storage.ErrProfileNotFound):
		profile = points.SeedProfile(c.Name, c.Email, clk)
		if err := ctx.Store.SaveProfile(ctx.Context(), profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		fmt.Printf("Welcome, %s! You start with %d pts as a %s.\n", profile.Name, profile.Balance, profile.Level)
	case err != nil:
		return fmt.Errorf("failed to load profile: %w", err)
	default:
		fmt.Printf("Existing profile kept: %s (%d pts)\n", profile.Name, profile.Balance)
	}

	ctx.PerformAutomaticBackup()
	return nil
}

// reset deletes the existing file store. PostgreSQL databases are never dropped.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return errors.New("--force is not supported for PostgreSQL storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); err == nil {
		ctx.PerformAutomaticBackup()
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}
