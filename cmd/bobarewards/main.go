package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/cli/backups"
	"github.com/julianstephens/bobarewards/internal/cli/rewards"
	"github.com/julianstephens/bobarewards/internal/cli/settings"
	"github.com/julianstephens/bobarewards/internal/cli/system"
	"github.com/julianstephens/bobarewards/internal/config"
	"github.com/julianstephens/bobarewards/internal/constants"
	apperrors "github.com/julianstephens/bobarewards/internal/errors"
	"github.com/julianstephens/bobarewards/internal/keyring"
	"github.com/julianstephens/bobarewards/internal/lock"
	"github.com/julianstephens/bobarewards/internal/logger"
	"github.com/julianstephens/bobarewards/internal/session"
	"github.com/julianstephens/bobarewards/internal/storage"
	"github.com/julianstephens/bobarewards/internal/storage/jsonfile"
	"github.com/julianstephens/bobarewards/internal/storage/postgres"
	"github.com/julianstephens/bobarewards/internal/storage/sqlite"
)

// keyringSource selects the connection string stored in the OS keyring
const keyringSource = "keyring"

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"Database file (.db or .json), PostgreSQL connection string without a password, or 'keyring'. Defaults to BOBAREWARDS_DB." placeholder:"PATH"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize rewards storage and the seed profile."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Open the interactive reward panel." default:"1"`
	Open     rewards.OpenCmd      `cmd:"" help:"Open today's rewards and check in."`
	Status   rewards.StatusCmd    `cmd:"" help:"Show today's rewards without checking in."`
	Quiz     rewards.QuizCmd      `cmd:"" help:"Show or answer the daily quiz."`
	Progress rewards.ProgressCmd  `cmd:"" help:"Show points progress toward the next level."`
	Profile  rewards.ProfileCmd   `cmd:"" help:"Show or edit the profile."`
	Awards   rewards.AwardsCmd    `cmd:"" help:"List recent point awards."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Env     system.EnvCmd     `cmd:"" help:"List the environment variables bobarewards reads."`
	Remind  system.RemindCmd  `cmd:"" help:"Remind before a streak is lost."`
}

func init() {
	apperrors.RegisterHint(storage.ErrNotInitialized, "run 'bobarewards init' first")
	apperrors.RegisterHint(storage.ErrProfileNotFound, "run 'bobarewards init' to create a profile")
	apperrors.RegisterHint(lock.ErrLocked, "close the other bobarewards window or wait for it to finish")
	apperrors.RegisterHint(keyring.ErrKeyringUnavailable, "pass the connection string with --db instead")
	apperrors.RegisterHint(keyring.ErrNotFound, "store one with 'bobarewards keyring set <conn>'")
	apperrors.RegisterHint(postgres.ErrEmbeddedCredentials, "use the OS keyring ('bobarewards keyring set'), PGPASSWORD or a .pgpass file")
	apperrors.RegisterHint(session.ErrPlanLocked, "today's quiz is answered; the plan unlocks tomorrow")
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily check-in streaks, boba trivia and reward points"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.DB = CLI.DB
	}
	cfg.Debug = cfg.Debug || CLI.Debug

	command := "tui"
	if fields := strings.Fields(kctx.Command()); len(fields) > 0 {
		command = fields[0]
	}

	connStr, isConn, err := resolveSource(cfg.DB, command)
	if err != nil {
		apperrors.Fatal(err)
	}

	configDir, err := config.ConfigDir(connStr, isConn)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting", "version", constants.Version, "command", kctx.Command())

	store, storePath, err := openStore(connStr, isConn)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
		Ctx:    context.Background(),
	}

	os.Exit(run(kctx, appCtx, command, storePath))
}

// run executes the selected command and returns the exit code. Deferred
// cleanup runs before main exits.
func run(kctx *kong.Context, appCtx *cli.Context, command, storePath string) int {
	defer func() {
		if err := appCtx.Store.Close(); err != nil {
			logger.Warn("Failed to close store", "error", err)
		}
	}()

	if storePath != "" && needsLock(command) {
		l, err := lock.Acquire(lock.PathFor(storePath))
		if err != nil {
			fmt.Fprintln(os.Stderr, apperrors.Format(err))
			return 1
		}
		defer func() {
			if err := l.Release(); err != nil {
				logger.Warn("Failed to release lockfile", "error", err)
			}
		}()
	}

	if needsLoad(command) {
		if err := appCtx.Store.Load(); err != nil {
			fmt.Fprintln(os.Stderr, apperrors.Format(err))
			return 1
		}
	}

	if err := kctx.Run(appCtx); err != nil {
		logger.Error("Command execution failed", "command", command, "error", err)
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		return 1
	}
	return 0
}

// resolveSource turns the --db value into a file path or a validated
// PostgreSQL connection string.
func resolveSource(db, command string) (string, bool, error) {
	if db == keyringSource {
		// keyring and env never open the store
		if command == "keyring" || command == "env" {
			return constants.DefaultConfigPath, false, nil
		}
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return "", false, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return connStr, true, nil
	}

	if postgres.IsConnString(db) {
		if _, err := postgres.ValidateConnString(db); err != nil {
			return "", false, err
		}
		return db, true, nil
	}
	return db, false, nil
}

// openStore picks the backend for source. storePath is empty for PostgreSQL.
func openStore(source string, isConn bool) (storage.Provider, string, error) {
	if isConn {
		return postgres.New(source), "", nil
	}

	path, err := config.ExpandPath(source)
	if err != nil {
		return nil, "", err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return jsonfile.NewStore(path), path, nil
	}
	return sqlite.NewStore(path), path, nil
}

// needsLock reports whether command writes to the store. The reminder daemon
// only reads and must be able to run next to the panel.
func needsLock(command string) bool {
	switch command {
	case "keyring", "remind", "doctor", "env":
		return false
	}
	return true
}

// needsLoad reports whether the store must be loaded before the command runs.
// init creates the store; doctor reports load failures itself.
func needsLoad(command string) bool {
	switch command {
	case "init", "doctor", "keyring", "env":
		return false
	}
	return true
}
