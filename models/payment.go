package models

import "time"

// PaymentIntentRequest carries the fields needed to open a payment with the
// configured gateway. The booking itself is created separately, so payment
// initiation must succeed or fail without touching booking state.
type PaymentIntentRequest struct {
	Amount         float64 `json:"amount"`
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail"`
	CustomerPhone  string  `json:"customerPhone"`
	OrderID        string  `json:"orderId"`
	AstrologerName string  `json:"astrologerName"`
	PackageName    string  `json:"packageName"`
}

// PaymentIntent is the provider-specific material the client needs to
// complete the payment.
type PaymentIntent struct {
	OrderID     string            `json:"orderId"`
	Provider    string            `json:"provider"`
	Params      map[string]string `json:"params"`
	RedirectURL string            `json:"redirectUrl,omitempty"`
}

// PaymentResult is a gateway outcome after signature verification, with the
// gateway's status vocabulary already mapped to the internal enum.
type PaymentResult struct {
	OrderID       string
	TransactionID string
	Amount        float64
	Status        string // PaymentPending / PaymentSuccess / PaymentFailed / PaymentRefunded
	ResponseCode  string
	Message       string
}

// SideEffectResult records the outcome of one best-effort post-commit call
// (meeting provisioning, notification dispatch, reminder scheduling). These
// are captured as data, never surfaced as request failures.
type SideEffectResult struct {
	Name   string `json:"name"`
	Ok     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// PaymentIngestResponse reflects the booking's authoritative payment fields
// after a gateway callback has been reconciled.
type PaymentIngestResponse struct {
	BookingID     string             `json:"bookingId"`
	OrderID       string             `json:"orderId"`
	PaymentStatus string             `json:"paymentStatus"`
	TransactionID string             `json:"transactionId,omitempty"`
	MeetingLink   string             `json:"meetingLink,omitempty"`
	SideEffects   []SideEffectResult `json:"sideEffects,omitempty"`
	ProcessedAt   time.Time          `json:"processedAt"`
}
