package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// ReminderPayload is the queued task body. Only the booking id travels; the
// worker re-reads the booking at fire time so a reschedule or cancellation
// between enqueue and fire is honored.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
}

func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(3)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues deferred reminder tasks on the reminder
// queue.
type AsynqReminderScheduler struct {
	client *asynq.Client
}

func NewAsynqReminderScheduler(opt asynq.RedisClientOpt) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{client: asynq.NewClient(opt)}
}

func (s *AsynqReminderScheduler) Schedule(ctx context.Context, bookingID string, at time.Time) error {
	if at.Before(time.Now()) {
		return fmt.Errorf("reminder fire time %s already passed", at.Format(time.RFC3339))
	}
	task, opts, err := NewReminderTask(ReminderPayload{BookingID: bookingID}, at)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

func (s *AsynqReminderScheduler) Close() error {
	return s.client.Close()
}
