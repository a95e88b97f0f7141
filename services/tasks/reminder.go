package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hireloop/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the asynq task carrying a reminder payload, scheduled
// to fire at the given instant.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler implements the scheduling ReminderScheduler on top of
// an asynq client.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

// Schedule enqueues the reminder for delivery at fireAt. Reminders whose fire
// time already passed are dropped silently; there is nothing useful to remind.
func (s *AsynqReminderScheduler) Schedule(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	if fireAt.Before(time.Now()) {
		return nil
	}

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("building reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueueing reminder: %w", err)
	}
	return nil
}
