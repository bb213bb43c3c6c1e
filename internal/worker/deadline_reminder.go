package worker

import (
	"context"
	"fmt"
	"time"

	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"

	"docutrack/internal/app"
)

// DeadlineReminder scans the working set on a cron schedule and sends one
// reminder per open document whose deadline falls within the warning
// window (the same three-day window the staff dashboard highlights).
type DeadlineReminder struct {
	docs          app.DocumentStore
	notifications *app.NotificationService
	recipient     string
	schedule      string
	windowDays    int

	cron *cron.Cron
}

func NewDeadlineReminder(docs app.DocumentStore, notifications *app.NotificationService, recipient, schedule string, windowDays int) *DeadlineReminder {
	if windowDays <= 0 {
		windowDays = 3
	}
	return &DeadlineReminder{
		docs:          docs,
		notifications: notifications,
		recipient:     recipient,
		schedule:      schedule,
		windowDays:    windowDays,
	}
}

func (r *DeadlineReminder) Start() error {
	if r.cron != nil {
		return nil
	}
	c := cron.New()
	if err := c.AddFunc(r.schedule, r.Run); err != nil {
		return fmt.Errorf("schedule deadline reminder failed: %w", err)
	}
	c.Start()
	r.cron = c
	return nil
}

func (r *DeadlineReminder) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Run executes one scan. Exported so a scan can be triggered outside the
// cron schedule.
func (r *DeadlineReminder) Run() {
	ctx := context.Background()
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	docs, err := r.docs.List()
	if err != nil {
		logrus.Warnf("deadline reminder list documents failed: %v", err)
		return
	}

	for i := range docs {
		doc := &docs[i]
		if !doc.DueWithin(now, r.windowDays) {
			continue
		}
		sent, err := r.notifications.ReminderSentSince(doc.ID, startOfDay)
		if err != nil {
			logrus.Warnf("deadline reminder dedup check failed for %s: %v", doc.ID, err)
			continue
		}
		if sent {
			continue
		}
		if err := r.notifications.SendDeadlineReminder(ctx, doc.ID, doc.Name, doc.Deadline, r.recipient); err != nil {
			logrus.Warnf("send deadline reminder for %s failed: %v", doc.ID, err)
		}
	}
}
