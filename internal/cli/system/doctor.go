package system

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/config"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/storage/sqlite"
	"github.com/julianstephens/bobarewards/internal/utils"
	"github.com/julianstephens/bobarewards/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Repair fixable ledger and profile problems."`
}

type dbHolder interface {
	DB() *sql.DB
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			fmt.Printf("❌ %s: FAIL\n", name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		fmt.Printf("✓ %s: OK\n", name)
	}
	skip := func(name string) {
		fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", name)
	}

	dbErr := checkDBReachable(ctx)
	report("Database reachable", dbErr)
	dbReachable := dbErr == nil

	if dbReachable {
		report("Schema version", checkSchemaVersion(ctx))
		report("Migrations complete", checkMigrationsComplete(ctx))
		report("Tables present", checkTables(ctx))
	} else {
		skip("Schema version")
		skip("Migrations complete")
		skip("Tables present")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	if dbReachable {
		report("Check-in ledger", cmd.checkLedger(ctx))
		report("Profile", cmd.checkProfile(ctx))
		report("Awards", checkAwards(ctx))
		report("Settings", checkSettings(ctx))
	} else {
		skip("Check-in ledger")
		skip("Profile")
		skip("Awards")
		skip("Settings")
	}

	report("Clock/timezone", checkClockTimezone())

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if h, ok := ctx.Store.(dbHolder); ok {
		db := h.DB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		// JSON store has no schema version
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'bobarewards migrate')", current, latest)
	}
	return nil
}

func checkTables(ctx *cli.Context) error {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	missing, err := s.CheckTables()
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables: %v", missing)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		// only SQLite stores are backed up
		return nil
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s (run 'bobarewards backup create')", mgr.BackupDir())
	}

	newest := backups[0]
	if time.Since(newest.Timestamp) > 7*24*time.Hour {
		return fmt.Errorf("most recent backup is %s", newest.Age(time.Now()))
	}
	return nil
}

func (cmd *DoctorCmd) checkLedger(ctx *cli.Context) error {
	ledger, err := ctx.Store.LoadLedger(ctx.Context())
	if errors.Is(err, models.ErrMalformedLedger) {
		return fmt.Errorf("%w (the next open starts a fresh ledger)", err)
	}
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	clk, err := ctx.ClockFor(settings)
	if err != nil {
		return err
	}

	v := validation.New(nil)
	result := v.ValidateLedger(ledger, clk.Today())
	if !result.HasConflicts() {
		return nil
	}

	if cmd.Fix {
		fixed, actions := v.FixLedger(ledger, result.Conflicts)
		if len(actions) > 0 {
			if err := ctx.Store.SaveLedger(ctx.Context(), fixed); err != nil {
				return fmt.Errorf("failed to save repaired ledger: %w", err)
			}
			for _, a := range actions {
				fmt.Printf("   Fixed: %s\n", a.Action)
			}
			result = v.ValidateLedger(fixed, clk.Today())
			if !result.HasConflicts() {
				return nil
			}
		}
	}
	return errors.New(result.FormatReport())
}

func (cmd *DoctorCmd) checkProfile(ctx *cli.Context) error {
	profile, err := ctx.Store.GetProfile(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	v := validation.New(nil)
	result := v.ValidateProfile(profile)
	if !result.HasConflicts() {
		return nil
	}
	if cmd.Fix {
		if fixed, changed := v.FixProfile(profile); changed {
			if err := ctx.Store.SaveProfile(ctx.Context(), fixed); err != nil {
				return fmt.Errorf("failed to save repaired profile: %w", err)
			}
			fmt.Printf("   Fixed: level set to %s\n", fixed.Level)
			return nil
		}
	}
	return errors.New(result.FormatReport())
}

func checkAwards(ctx *cli.Context) error {
	awards, err := ctx.Store.ListAwards(ctx.Context(), 0)
	if err != nil {
		return fmt.Errorf("failed to list awards: %w", err)
	}
	result := validation.New(nil).ValidateAwards(awards)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("timezone %q is not a valid IANA timezone", settings.Timezone)
	}
	if err := config.ValidateSchedule(settings.ReminderSchedule); err != nil {
		return err
	}
	if settings.ReminderThreshold < 1 {
		return fmt.Errorf("reminder threshold must be at least 1, got %d", settings.ReminderThreshold)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation("UTC"); err != nil {
		return fmt.Errorf("timezone database unavailable: %w", err)
	}
	return nil
}
