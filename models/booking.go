package models

import (
	"fmt"
	"time"
)

// Payment status vocabulary. PaymentStatus is mutated only by payment
// reconciliation, never directly by handlers.
const (
	PaymentPending  = "PENDING"
	PaymentSuccess  = "SUCCESS"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// Top-level booking lifecycle. Transitions are monotone: ACTIVE may move to
// CANCELLED or COMPLETED; neither terminal state transitions further.
const (
	BookingActive    = "ACTIVE"
	BookingCompleted = "COMPLETED"
	BookingCancelled = "CANCELLED"
)

// Meeting status mirrors the booking status for meeting concerns.
const (
	MeetingScheduled = "SCHEDULED"
	MeetingCompleted = "COMPLETED"
	MeetingCancelled = "CANCELLED"
	MeetingNoShow    = "NO_SHOW"
)

// Booking is a customer's purchased consultation slot, the unit of state the
// lifecycle coordinator manages.
type Booking struct {
	ID string `bson:"id" json:"id"`

	// Customer information, immutable after creation.
	CustomerName  string `bson:"customerName" json:"customerName"`
	CustomerEmail string `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone string `bson:"customerPhone" json:"customerPhone"`

	// Birth details, domain payload not interpreted by the coordinator.
	DateOfBirth  time.Time `bson:"dateOfBirth" json:"dateOfBirth"`
	TimeOfBirth  string    `bson:"timeOfBirth,omitempty" json:"timeOfBirth,omitempty"`
	PlaceOfBirth string    `bson:"placeOfBirth,omitempty" json:"placeOfBirth,omitempty"`

	// Consultation details.
	AstrologerName   string    `bson:"astrologerName" json:"astrologerName"`
	PackageName      string    `bson:"packageName" json:"packageName"`
	PackageDuration  int       `bson:"packageDuration" json:"packageDuration"` // minutes
	PackagePrice     float64   `bson:"packagePrice" json:"packagePrice"`
	ConsultationDate time.Time `bson:"consultationDate" json:"consultationDate"`
	ConsultationTime string    `bson:"consultationTime" json:"consultationTime"` // "HH:MM"

	// Payment information. OrderID is the correlation key shared with the
	// payment gateway, globally unique and immutable after creation.
	OrderID       string    `bson:"orderId" json:"orderId"`
	TransactionID string    `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	PaymentStatus string    `bson:"paymentStatus" json:"paymentStatus"`
	PaymentAmount float64   `bson:"paymentAmount" json:"paymentAmount"`
	PaymentDate   time.Time `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`

	// Meeting information. MeetingLink and EventID are only ever set
	// together by successful provisioning.
	MeetingLink   string `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	EventID       string `bson:"eventId,omitempty" json:"eventId,omitempty"`
	MeetingStatus string `bson:"meetingStatus" json:"meetingStatus"`

	// Communication status.
	ConfirmationSent bool `bson:"confirmationSent" json:"confirmationSent"`
	ReminderSent     bool `bson:"reminderSent" json:"reminderSent"`

	// Additional information, append-only for cancel/reschedule annotations.
	SpecialRequirements string `bson:"specialRequirements,omitempty" json:"specialRequirements,omitempty"`
	Notes               string `bson:"notes,omitempty" json:"notes,omitempty"`

	Status string `bson:"status" json:"status"`

	// Version guards read-modify-write cycles; stores reject a write whose
	// version does not match the stored document.
	Version int64 `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ConsultationDateTime combines the consultation date and "HH:MM" time into a
// single instant in the given location. Returns the zero time when either
// part is missing or malformed.
func (b *Booking) ConsultationDateTime(loc *time.Location) time.Time {
	if b.ConsultationDate.IsZero() || b.ConsultationTime == "" {
		return time.Time{}
	}
	var hh, mm int
	if _, err := fmt.Sscanf(b.ConsultationTime, "%d:%d", &hh, &mm); err != nil {
		return time.Time{}
	}
	d := b.ConsultationDate.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hh, mm, 0, 0, loc)
}

// IsUpcoming reports whether the consultation instant is in the future.
func (b *Booking) IsUpcoming(now time.Time, loc *time.Location) bool {
	at := b.ConsultationDateTime(loc)
	return !at.IsZero() && at.After(now)
}

// IsToday reports whether the consultation falls on the current day.
func (b *Booking) IsToday(now time.Time, loc *time.Location) bool {
	if b.ConsultationDate.IsZero() {
		return false
	}
	y1, m1, d1 := b.ConsultationDate.In(loc).Date()
	y2, m2, d2 := now.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// TimeUntilConsultation renders the remaining time as a human string, or
// "PAST" once the consultation instant has passed.
func (b *Booking) TimeUntilConsultation(now time.Time, loc *time.Location) string {
	at := b.ConsultationDateTime(loc)
	if at.IsZero() {
		return ""
	}
	diff := at.Sub(now)
	if diff <= 0 {
		return "PAST"
	}
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	switch {
	case hours > 24:
		return fmt.Sprintf("%d day(s) %d hour(s)", hours/24, hours%24)
	case hours > 0:
		return fmt.Sprintf("%d hour(s) %d minute(s)", hours, minutes)
	default:
		return fmt.Sprintf("%d minute(s)", minutes)
	}
}

// CreateBookingRequest is the inbound payload for booking creation.
type CreateBookingRequest struct {
	CustomerName        string  `json:"customerName"`
	CustomerEmail       string  `json:"customerEmail"`
	CustomerPhone       string  `json:"customerPhone"`
	DateOfBirth         string  `json:"dateOfBirth"`
	TimeOfBirth         string  `json:"timeOfBirth"`
	PlaceOfBirth        string  `json:"placeOfBirth"`
	AstrologerName      string  `json:"astrologerName"`
	PackageName         string  `json:"packageName"`
	PackageDuration     int     `json:"packageDuration"`
	PackagePrice        float64 `json:"packagePrice"`
	ConsultationDate    string  `json:"consultationDate"` // "YYYY-MM-DD"
	ConsultationTime    string  `json:"consultationTime"` // "HH:MM"
	OrderID             string  `json:"orderId"`
	SpecialRequirements string  `json:"specialRequirements"`
	Notes               string  `json:"notes"`
}

// BookingReceipt is returned by booking creation; responses reflect the
// booking's authoritative fields, never raw adapter responses.
type BookingReceipt struct {
	BookingID            string    `json:"bookingId"`
	OrderID              string    `json:"orderId"`
	ConsultationDateTime time.Time `json:"consultationDateTime"`
}

// UpdateBookingRequest carries the mutable booking fields for PUT updates.
// Payment and meeting identity fields are not represented here: orderId,
// paymentStatus, transactionId, meetingLink and eventId are stripped from
// the inbound payload before it ever reaches the coordinator.
type UpdateBookingRequest struct {
	CustomerName        *string  `json:"customerName"`
	CustomerEmail       *string  `json:"customerEmail"`
	CustomerPhone       *string  `json:"customerPhone"`
	DateOfBirth         *string  `json:"dateOfBirth"`
	TimeOfBirth         *string  `json:"timeOfBirth"`
	PlaceOfBirth        *string  `json:"placeOfBirth"`
	AstrologerName      *string  `json:"astrologerName"`
	PackageName         *string  `json:"packageName"`
	PackageDuration     *int     `json:"packageDuration"`
	PackagePrice        *float64 `json:"packagePrice"`
	SpecialRequirements *string  `json:"specialRequirements"`
	Notes               *string  `json:"notes"`
}
