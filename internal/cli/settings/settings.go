package settings

import (
	"fmt"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/config"
	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone          *string `help:"IANA timezone used for the day boundary (or Local)."`
	QuizEnabled       *bool   `help:"Offer the daily quiz plan."`
	ReminderThreshold *int    `help:"Minimum streak before reminders are sent."`
	ReminderSchedule  *string `help:"Cron schedule for streak reminders."`
	DefaultPlan       *string `help:"Plan shown first in the reward panel." enum:"checkin,quiz"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	if c.List {
		printSettings(settings)
		return nil
	}

	updated, err := c.apply(&settings)
	if err != nil {
		return err
	}
	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

func (c *SettingsCmd) apply(settings *models.Settings) (bool, error) {
	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return false, fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.QuizEnabled != nil {
		settings.QuizEnabled = *c.QuizEnabled
		updated = true
	}
	if c.ReminderThreshold != nil {
		if *c.ReminderThreshold < 1 {
			return false, fmt.Errorf("reminder threshold must be at least 1")
		}
		settings.ReminderThreshold = *c.ReminderThreshold
		updated = true
	}
	if c.ReminderSchedule != nil {
		if err := config.ValidateSchedule(*c.ReminderSchedule); err != nil {
			return false, err
		}
		settings.ReminderSchedule = *c.ReminderSchedule
		updated = true
	}
	if c.DefaultPlan != nil {
		settings.DefaultPlan = *c.DefaultPlan
		updated = true
	}
	if settings.DefaultPlan == string(constants.PlanQuiz) && !settings.QuizEnabled {
		return false, fmt.Errorf("default plan cannot be quiz while the quiz is disabled")
	}
	return updated, nil
}

func printSettings(s models.Settings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Timezone:           %s\n", s.Timezone)
	fmt.Printf("  Quiz Enabled:       %v\n", s.QuizEnabled)
	fmt.Printf("  Default Plan:       %s\n", s.DefaultPlan)
	fmt.Println("\nReminder Settings:")
	fmt.Printf("  Reminder Threshold: %d days\n", s.ReminderThreshold)
	fmt.Printf("  Reminder Schedule:  %s\n", s.ReminderSchedule)
}
