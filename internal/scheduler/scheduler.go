// Package scheduler sends hourly reminders about due cards.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/example/leitnerbot/internal/config"
	"github.com/example/leitnerbot/internal/database"
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	users     *database.UserRepository
	schedules *database.ScheduleRepository
	startHour int
	endHour   int
	dueLimit  int
	now       func() time.Time
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminders(userID int64, count int) error
}

// New creates a new scheduler instance
func New(db *sqlx.DB, notifier Notifier, cfg *config.Config) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		users:     database.NewUserRepository(db),
		schedules: database.NewScheduleRepository(db),
		startHour: cfg.NotificationStartHour,
		endHour:   cfg.NotificationEndHour,
		dueLimit:  cfg.DueLimit,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// Schedule hourly check for users who need notifications
	_, err := s.scheduler.Every(1).Hour().Do(func() {
		s.checkAndSendReminders(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	log.WithFields(log.Fields{
		"start_hour": s.startHour,
		"end_hour":   s.endHour,
	}).Info("Reminder scheduler started")
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies users whose reminder hour is now and who have due cards
func (s *Scheduler) checkAndSendReminders(ctx context.Context) int {
	now := s.now().UTC()
	currentHour := now.Hour()

	if currentHour < s.startHour || currentHour > s.endHour {
		log.Debugf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, s.startHour, s.endHour)
		return 0
	}

	users, err := s.users.GetUsersForNotification(ctx, currentHour)
	if err != nil {
		log.WithError(err).Error("Error getting users for notification")
		return 0
	}

	sent := 0
	for _, user := range users {
		ok, err := s.remind(ctx, user.ID, now)
		if err != nil {
			log.WithError(err).WithField("user_id", user.ID).Error("Error sending reminder")
			continue
		}
		if ok {
			sent++
		}
	}
	return sent
}

// remind sends one reminder if the user has due cards
func (s *Scheduler) remind(ctx context.Context, userID int64, now time.Time) (bool, error) {
	count, err := s.schedules.CountDue(ctx, userID, now)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	if s.dueLimit > 0 && count > s.dueLimit {
		count = s.dueLimit
	}
	if err := s.notifier.SendReminders(userID, count); err != nil {
		return false, err
	}
	return true, nil
}

// RunManualCheck forces a check for a specific user, ignoring notification hours
func (s *Scheduler) RunManualCheck(ctx context.Context, userID int64) (bool, error) {
	return s.remind(ctx, userID, s.now().UTC())
}
