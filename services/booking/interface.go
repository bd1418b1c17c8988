package booking

import (
	"context"
	"time"

	bookingRepo "divyajyotisha/database/repository/booking"
	"divyajyotisha/models"
)

// ReminderScheduler enqueues a deferred reminder for a booking. The concrete
// implementation lives in the tasks package; the coordinator only cares that
// scheduling either succeeded or is reported as a failed side effect.
type ReminderScheduler interface {
	Schedule(ctx context.Context, bookingID string, at time.Time) error
}

// Service is the booking lifecycle coordinator. It owns every transition of
// booking, payment and meeting state; handlers validate transport concerns
// and delegate here.
type Service interface {
	Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, filter bookingRepo.ListFilter) ([]models.Booking, int64, error)
	Update(ctx context.Context, id string, req models.UpdateBookingRequest) (*models.Booking, error)
	Cancel(ctx context.Context, id, reason string) (*models.Booking, []models.SideEffectResult, error)
	Reschedule(ctx context.Context, id, newDate, newTime, reason string) (*models.Booking, []models.SideEffectResult, error)
	// SendReminder dispatches a reminder for an eligible booking. Channel
	// failures are per-channel side effects, not request failures; only
	// ineligibility (wrong state, no payment, no link, past slot) errors.
	SendReminder(ctx context.Context, id string) (*models.Booking, []models.SideEffectResult, error)
	Upcoming(ctx context.Context, astrologerName string) ([]models.Booking, error)
	Today(ctx context.Context, astrologerName string) ([]models.Booking, error)

	// IngestPaymentResult reconciles a gateway callback. The payload is
	// untrusted until VerifySignature passes; after that the mapped outcome
	// is applied to the booking and, on the first transition to SUCCESS,
	// post-payment side effects run best-effort.
	IngestPaymentResult(ctx context.Context, payload []byte, signature string) (*models.PaymentIngestResponse, error)

	// PaymentStatus reports the booking's authoritative payment state,
	// refreshing a still-pending payment from the gateway first.
	PaymentStatus(ctx context.Context, orderID string) (*models.PaymentIngestResponse, error)
}
