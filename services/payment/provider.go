package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"divyajyotisha/models"
)

// ErrBadSignature indicates the gateway payload failed signature or checksum
// verification. It is distinct from a legitimate "payment failed" business
// outcome: it means tampering or misconfiguration, and no booking state may
// be mutated when it is returned.
var ErrBadSignature = errors.New("payment signature verification failed")

// Provider abstracts one payment gateway. Concrete adapters own their
// gateway's wire format and status vocabulary; the lifecycle coordinator
// never inspects raw gateway fields.
type Provider interface {
	Name() string

	// CreateIntent opens a payment with the gateway and returns the
	// material the client needs to complete it.
	CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntent, error)

	// VerifySignature recomputes the expected signature over the exact
	// payload using the shared secret. It must be called, and must pass,
	// before any payload field is trusted.
	VerifySignature(payload []byte, signature string) error

	// ParseResult maps a verified payload to an internal PaymentResult,
	// applying the adapter's fixed status lookup table.
	ParseResult(payload []byte) (*models.PaymentResult, error)

	// FetchStatus queries the gateway for the settlement status of a
	// booking's payment.
	FetchStatus(ctx context.Context, booking *models.Booking) (string, error)

	// Refund returns the paid amount for a booking's transaction.
	Refund(ctx context.Context, booking *models.Booking) error
}

// NewOrderID generates an externally visible correlation key in the shape
// the gateways already accept.
func NewOrderID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), suffix)
}
