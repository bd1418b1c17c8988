// File: database/repository/booking/memory.go
package bookingRepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"divyajyotisha/models"
)

// MemoryBookingRepo is the in-memory Repository implementation, selected by
// STORAGE_BACKEND=memory and used as the test double. It enforces the same
// orderId uniqueness and versioned-write semantics as the Mongo store.
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	byID     map[string]models.Booking
	byOrder  map[string]string // orderId -> booking id
	creation []string          // insertion order, newest listing is reversed
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{
		byID:    make(map[string]models.Booking),
		byOrder: make(map[string]string),
	}
}

func (r *MemoryBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byOrder[booking.OrderID]; exists {
		return ErrDuplicateOrderID
	}
	r.byID[booking.ID] = *booking
	r.byOrder[booking.OrderID] = booking.ID
	r.creation = append(r.creation, booking.ID)
	return nil
}

func (r *MemoryBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (r *MemoryBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	r.mu.RLock()
	id, ok := r.byOrder[orderID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[booking.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != booking.Version {
		return ErrStaleWrite
	}
	booking.Version++
	booking.UpdatedAt = time.Now()
	r.byID[booking.ID] = *booking
	return nil
}

func (r *MemoryBookingRepo) List(ctx context.Context, filter ListFilter) ([]models.Booking, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Booking
	for i := len(r.creation) - 1; i >= 0; i-- {
		b := r.byID[r.creation[i]]
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && b.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.AstrologerName != "" &&
			!strings.Contains(strings.ToLower(b.AstrologerName), strings.ToLower(filter.AstrologerName)) {
			continue
		}
		matched = append(matched, b)
	}

	total := int64(len(matched))
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Booking{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryBookingRepo) Upcoming(ctx context.Context, astrologerName string, now time.Time) ([]models.Booking, error) {
	matched := r.collect(astrologerName, func(b models.Booking) bool {
		return !b.ConsultationDate.Before(now)
	})
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].ConsultationDate.Equal(matched[j].ConsultationDate) {
			return matched[i].ConsultationDate.Before(matched[j].ConsultationDate)
		}
		return matched[i].ConsultationTime < matched[j].ConsultationTime
	})
	return matched, nil
}

func (r *MemoryBookingRepo) Today(ctx context.Context, astrologerName string, dayStart, dayEnd time.Time) ([]models.Booking, error) {
	matched := r.collect(astrologerName, func(b models.Booking) bool {
		return !b.ConsultationDate.Before(dayStart) && b.ConsultationDate.Before(dayEnd)
	})
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ConsultationTime < matched[j].ConsultationTime
	})
	return matched, nil
}

func (r *MemoryBookingRepo) collect(astrologerName string, keep func(models.Booking) bool) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Booking
	for _, id := range r.creation {
		b := r.byID[id]
		if b.Status != models.BookingActive || b.PaymentStatus != models.PaymentSuccess {
			continue
		}
		if astrologerName != "" &&
			!strings.Contains(strings.ToLower(b.AstrologerName), strings.ToLower(astrologerName)) {
			continue
		}
		if keep(b) {
			matched = append(matched, b)
		}
	}
	return matched
}
