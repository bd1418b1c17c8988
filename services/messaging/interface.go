package messaging

import (
	"context"

	"divyajyotisha/models"
)

// Message is one rendered notification ready for any channel. Channels pick
// the address field they need and ignore the rest.
type Message struct {
	Subject string
	Body    string
	ToEmail string
	ToPhone string
}

// Channel is one delivery mechanism. Send returns a short human-readable
// detail on success, used in side-effect reporting.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) (string, error)
}

// ChannelResult is the per-channel outcome of one dispatch.
type ChannelResult struct {
	Channel string
	Detail  string
	Err     error
}

// DispatchResult aggregates the outcomes across all configured channels.
type DispatchResult struct {
	Results []ChannelResult
}

// AnySuccess reports whether at least one channel delivered. Flags such as
// confirmationSent and reminderSent flip only when this holds.
func (r DispatchResult) AnySuccess() bool {
	for _, cr := range r.Results {
		if cr.Err == nil {
			return true
		}
	}
	return false
}

// Dispatcher fans a booking notification out to every configured channel.
// A channel failure never aborts the remaining channels.
type Dispatcher interface {
	SendConfirmation(ctx context.Context, booking *models.Booking) DispatchResult
	SendReminder(ctx context.Context, booking *models.Booking) DispatchResult
	SendCancellation(ctx context.Context, booking *models.Booking, reason string) DispatchResult
	SendReschedule(ctx context.Context, booking *models.Booking) DispatchResult
}
