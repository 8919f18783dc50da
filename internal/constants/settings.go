package constants

const (
	// Setting keys
	SettingTimezone          = "timezone"
	SettingQuizEnabled       = "quiz_enabled"
	SettingReminderThreshold = "reminder_threshold"
	SettingReminderSchedule  = "reminder_schedule"
	SettingDefaultPlan       = "default_plan"

	// Default Settings Values
	DefaultTimezone          = "Local" // Use system local timezone by default
	DefaultQuizEnabled       = true
	DefaultReminderThreshold = 3
	DefaultReminderSchedule  = "0 20 * * *"
	DefaultPlan              = PlanCheckin
)
