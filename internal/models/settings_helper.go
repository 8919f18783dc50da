package models

import (
	"fmt"

	"github.com/julianstephens/bobarewards/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingQuizEnabled:
			settings.QuizEnabled = value == "true"
		case constants.SettingReminderThreshold:
			if _, err := fmt.Sscanf(value, "%d", &settings.ReminderThreshold); err != nil {
				return Settings{}, fmt.Errorf("parsing reminder_threshold: %w", err)
			}
		case constants.SettingReminderSchedule:
			settings.ReminderSchedule = value
		case constants.SettingDefaultPlan:
			settings.DefaultPlan = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:          settings.Timezone,
		constants.SettingQuizEnabled:       fmt.Sprintf("%v", settings.QuizEnabled),
		constants.SettingReminderThreshold: fmt.Sprintf("%d", settings.ReminderThreshold),
		constants.SettingReminderSchedule:  settings.ReminderSchedule,
		constants.SettingDefaultPlan:       settings.DefaultPlan,
	}
}

// DefaultSettings returns the settings written by init
func DefaultSettings() Settings {
	return Settings{
		Timezone:          constants.DefaultTimezone,
		QuizEnabled:       constants.DefaultQuizEnabled,
		ReminderThreshold: constants.DefaultReminderThreshold,
		ReminderSchedule:  constants.DefaultReminderSchedule,
		DefaultPlan:       string(constants.DefaultPlan),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
// QuizEnabled is a plain bool and is left as stored.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.ReminderThreshold == 0 {
		settings.ReminderThreshold = constants.DefaultReminderThreshold
	}
	if settings.ReminderSchedule == "" {
		settings.ReminderSchedule = constants.DefaultReminderSchedule
	}
	if settings.DefaultPlan == "" {
		settings.DefaultPlan = string(constants.DefaultPlan)
	}
}
