package models

// Settings represents application-wide settings
type Settings struct {
	Timezone          string `json:"timezone"`           // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	QuizEnabled       bool   `json:"quiz_enabled"`       // whether the daily quiz plan is offered
	ReminderThreshold int    `json:"reminder_threshold"` // minimum streak before reminders are sent
	ReminderSchedule  string `json:"reminder_schedule"`  // cron expression evaluated in Timezone
	DefaultPlan       string `json:"default_plan"`       // plan shown first in the reward panel
}
