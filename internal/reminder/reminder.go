// Package reminder warns about a streak that will end at midnight.
package reminder

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/bobarewards/internal/clock"
	"github.com/julianstephens/bobarewards/internal/logger"
	"github.com/julianstephens/bobarewards/internal/models"
	"github.com/julianstephens/bobarewards/internal/utils"
)

// Reminder is one streak-at-risk notice
type Reminder struct {
	Day     string
	Streak  int
	Message string
}

// Check reports whether the streak is at risk on today: the last check-in was
// yesterday and the streak has reached threshold.
func Check(ledger models.CheckinLedger, today string, threshold int) (Reminder, bool) {
	if ledger.IsEmpty() || ledger.LastDate == today {
		return Reminder{}, false
	}
	yesterday, err := utils.AddDays(today, -1)
	if err != nil || ledger.LastDate != yesterday {
		return Reminder{}, false
	}
	if ledger.Streak < max(threshold, 1) {
		return Reminder{}, false
	}
	return Reminder{
		Day:     today,
		Streak:  ledger.Streak,
		Message: fmt.Sprintf("Your %d-day boba streak ends at midnight. Check in to keep it going!", ledger.Streak),
	}, true
}

// LedgerLoader reads the current ledger
type LedgerLoader interface {
	LoadLedger(ctx context.Context) (models.CheckinLedger, error)
}

// Scheduler runs Check on a cron schedule and hands reminders to notify.
// At most one reminder is sent per day.
type Scheduler struct {
	cron      *cron.Cron
	store     LedgerLoader
	clock     clock.Clock
	threshold int
	notify    func(Reminder)

	mu       sync.Mutex
	lastSent string
}

func NewScheduler(store LedgerLoader, c clock.Clock, threshold int, notify func(Reminder)) *Scheduler {
	opts := []cron.Option{}
	if sys, ok := c.(*clock.System); ok {
		opts = append(opts, cron.WithLocation(sys.Location()))
	}
	return &Scheduler{
		cron:      cron.New(opts...),
		store:     store,
		clock:     c,
		threshold: threshold,
		notify:    notify,
	}
}

// Start registers the reminder job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		logger.Debug("Checking streak reminder")
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Streak reminder failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	s.cron.Start()
	logger.Info("Reminder scheduler started", "schedule", spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Reminder scheduler stopped")
}

// RunOnce checks the ledger now and notifies when the streak is at risk.
// It reports whether a reminder was sent.
func (s *Scheduler) RunOnce(ctx context.Context) (bool, error) {
	ledger, err := s.store.LoadLedger(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load ledger: %w", err)
	}

	today := s.clock.Today()
	r, ok := Check(ledger, today, s.threshold)
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSent == today {
		return false, nil
	}
	s.notify(r)
	s.lastSent = today
	return true, nil
}
