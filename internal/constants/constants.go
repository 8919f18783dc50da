package constants

// Plan is the daily reward path surfaced to the user
type Plan string

// AwardSource identifies what produced a point award
type AwardSource string

const (
	AppName            = "bobarewards"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/bobarewards/bobarewards.db"
	Version            = "v0.3.0"
	EnvPrefix          = "BOBAREWARDS"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// CheckinKey is the fixed identifier of the persisted check-in ledger record
	CheckinKey = "bobasocial_checkin"

	// Reward amounts
	CheckinPoints = 2
	QuizPoints    = 5
	OrderPoints   = 10 // display only, orders happen outside the app

	// Level progress
	LevelStep      = 1000
	MinLevelPoints = 1000

	// Seed profile (matches the registration defaults)
	SeedBalance = 100
	SeedLevel   = "Bubble Tea Newbie"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "bobarewards-"
	BackupFileSuffix = ".db"

	// Lock constants
	LockfileSuffix = ".lock"

	// Plans
	PlanCheckin Plan = "checkin"
	PlanQuiz    Plan = "quiz"

	// Award sources
	SourceCheckin AwardSource = "checkin"
	SourceQuiz    AwardSource = "quiz"
)
