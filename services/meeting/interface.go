package meeting

import (
	"context"
	"time"

	"divyajyotisha/models"
)

// Meeting is the provisioned remote event with its joinable link.
type Meeting struct {
	Link    string
	EventID string
	Start   time.Time
	End     time.Time
}

// Window is a meeting time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Service provisions, moves, and cancels remote calendar events carrying a
// video-meeting link. All calls are best-effort from the coordinator's point
// of view: a failure is recorded, never propagated as a request failure once
// the authoritative booking mutation has succeeded.
type Service interface {
	Provision(ctx context.Context, booking *models.Booking) (*Meeting, error)
	Update(ctx context.Context, eventID string, w Window) (*Meeting, error)
	Cancel(ctx context.Context, eventID string) error
}
