package system

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/logger"
	"github.com/julianstephens/bobarewards/internal/reminder"
)

type RemindCmd struct {
	Once     bool   `help:"Check once and exit instead of running the schedule."`
	Schedule string `help:"Cron schedule overriding the stored reminder_schedule."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	clk, err := ctx.ClockFor(settings)
	if err != nil {
		return err
	}

	notify := func(r reminder.Reminder) {
		logger.Info("Streak reminder", "day", r.Day, "streak", r.Streak)
		fmt.Printf("⏰ %s\n", r.Message)
	}
	sched := reminder.NewScheduler(ctx.Store, clk, settings.ReminderThreshold, notify)

	if c.Once {
		sent, err := sched.RunOnce(ctx.Context())
		if err != nil {
			return err
		}
		if !sent {
			fmt.Println("No reminder needed today.")
		}
		return nil
	}

	spec := settings.ReminderSchedule
	if c.Schedule != "" {
		spec = c.Schedule
	}
	if err := sched.Start(ctx.Context(), spec); err != nil {
		return err
	}
	defer sched.Stop()

	fmt.Printf("Watching your streak on %q (%s). Press Ctrl+C to stop.\n", spec, settings.Timezone)
	sigCtx, stop := signal.NotifyContext(ctx.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	return nil
}
