// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"divyajyotisha/models"
)

var (
	// ErrNotFound is returned when no booking matches the given key.
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicateOrderID is returned when creation would violate the
	// global orderId uniqueness invariant.
	ErrDuplicateOrderID = errors.New("orderId already exists")
	// ErrStaleWrite is returned when an update's version does not match
	// the stored document.
	ErrStaleWrite = errors.New("booking was modified concurrently")
)

// ListFilter narrows and pages the booking listing.
type ListFilter struct {
	Status         string
	PaymentStatus  string
	AstrologerName string // case-insensitive substring match
	Page           int
	Limit          int
}

// Repository defines booking data access. Implementations provide
// per-document atomicity for a single read-modify-write; Update performs a
// compare-and-swap on the Version field.
type Repository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, filter ListFilter) ([]models.Booking, int64, error)
	Upcoming(ctx context.Context, astrologerName string, now time.Time) ([]models.Booking, error)
	Today(ctx context.Context, astrologerName string, dayStart, dayEnd time.Time) ([]models.Booking, error)
}
