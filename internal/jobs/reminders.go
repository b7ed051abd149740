// Package jobs holds the background work scheduled next to the HTTP server.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type ReminderSender interface {
	SendAppointmentReminder(ctx context.Context, user *models.User, apt *models.Appointment) error
}

// ReminderJob sends the SMS reminders of scheduled appointments once their
// time has come.
type ReminderJob struct {
	appointments store.AppointmentStore
	users        store.UserStore
	sender       ReminderSender
	now          func() time.Time
	cron         *cron.Cron
}

func NewReminderJob(appointments store.AppointmentStore, users store.UserStore, sender ReminderSender) *ReminderJob {
	return &ReminderJob{
		appointments: appointments,
		users:        users,
		sender:       sender,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the job on a standard five-field cron spec. An empty spec
// leaves the job disabled.
func (j *ReminderJob) Start(spec string) error {
	if spec == "" {
		utils.Zlog.Info("appointment reminders disabled")
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sent, err := j.Run(ctx)
		if err != nil {
			utils.Zlog.Error("reminder run failed", zap.Error(err))
			return
		}
		if sent > 0 {
			utils.Zlog.Info("appointment reminders sent", zap.Int("count", sent))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	j.cron = c
	c.Start()
	utils.Zlog.Info("appointment reminders scheduled", zap.String("schedule", spec))
	return nil
}

// Stop returns a context that is done once a running pass has finished.
func (j *ReminderJob) Stop() context.Context {
	if j.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return j.cron.Stop()
}

// Run makes one pass and returns how many reminders were sent. Due
// reminders are marked sent even when delivery fails so a missing phone
// number does not trigger a retry on every pass.
func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	now := j.now()
	appointments, err := j.appointments.ListWithDueReminders(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	sent := 0
	for i := range appointments {
		apt := &appointments[i]
		due := apt.TakeDueReminders(now)
		if len(due) == 0 {
			continue
		}

		user, err := j.users.FindByID(ctx, apt.User)
		switch {
		case errors.Is(err, store.ErrNotFound):
			user = nil
		case err != nil:
			utils.Zlog.Error("reminder owner lookup failed", zap.String("appointment", apt.ID.Hex()), zap.Error(err))
			continue
		}

		if user != nil && user.Notifications.SMS && hasChannel(due, "sms") {
			if err := j.sender.SendAppointmentReminder(ctx, user, apt); err != nil {
				utils.Zlog.Warn("reminder not delivered", zap.String("appointment", apt.ID.Hex()), zap.Error(err))
			} else {
				sent++
			}
		}

		if err := j.appointments.SetReminders(ctx, apt.ID, apt.Reminders); err != nil {
			utils.Zlog.Error("marking reminders sent failed", zap.String("appointment", apt.ID.Hex()), zap.Error(err))
		}
	}
	return sent, nil
}

func hasChannel(reminders []models.Reminder, channel string) bool {
	for _, r := range reminders {
		if r.Channel == channel {
			return true
		}
	}
	return false
}
