package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"divyajyotisha/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// StripeProvider is the card gateway adapter. Webhook events carry a
// Stripe-Signature header that the SDK verifies against the endpoint secret.
type StripeProvider struct {
	webhookSecret string
	logger        *zap.Logger
}

func NewStripeProvider(webhookSecret string, logger *zap.Logger) *StripeProvider {
	return &StripeProvider{webhookSecret: webhookSecret, logger: logger}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount * 100)),
		Currency: stripe.String(string(stripe.CurrencyINR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("orderId", req.OrderID)
	params.AddMetadata("astrologerName", req.AstrologerName)
	params.AddMetadata("packageName", req.PackageName)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &models.PaymentIntent{
		OrderID:  req.OrderID,
		Provider: p.Name(),
		Params: map[string]string{
			"paymentIntentId": pi.ID,
			"clientSecret":    pi.ClientSecret,
		},
	}, nil
}

func (p *StripeProvider) VerifySignature(payload []byte, signature string) error {
	_, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return ErrBadSignature
	}
	return nil
}

// ParseResult maps webhook event types onto the internal status enum.
func (p *StripeProvider) ParseResult(payload []byte) (*models.PaymentResult, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("malformed payment intent: %w", err)
	}
	orderID := pi.Metadata["orderId"]
	if orderID == "" {
		return nil, fmt.Errorf("payload missing orderId metadata")
	}

	result := &models.PaymentResult{
		OrderID:       orderID,
		TransactionID: pi.ID,
		Amount:        float64(pi.Amount) / 100,
		ResponseCode:  string(event.Type),
	}
	switch event.Type {
	case "payment_intent.succeeded":
		result.Status = models.PaymentSuccess
		result.Message = "Payment successful"
	case "payment_intent.processing":
		result.Status = models.PaymentPending
		result.Message = "Payment pending"
	case "charge.refunded":
		result.Status = models.PaymentRefunded
		result.Message = "Payment refunded"
	default:
		result.Status = models.PaymentFailed
		result.Message = "Payment failed"
	}
	return result, nil
}

func (p *StripeProvider) FetchStatus(ctx context.Context, booking *models.Booking) (string, error) {
	if booking.TransactionID == "" {
		return models.PaymentPending, nil
	}
	pi, err := paymentintent.Get(booking.TransactionID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch payment intent: %w", err)
	}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentSuccess, nil
	case stripe.PaymentIntentStatusCanceled:
		return models.PaymentFailed, nil
	default:
		return models.PaymentPending, nil
	}
}

func (p *StripeProvider) Refund(ctx context.Context, booking *models.Booking) error {
	if booking.TransactionID == "" {
		return fmt.Errorf("no transaction to refund for order %s", booking.OrderID)
	}
	_, err := refund.New(&stripe.RefundParams{
		PaymentIntent: stripe.String(booking.TransactionID),
	})
	if err != nil {
		return fmt.Errorf("refund failed: %w", err)
	}
	p.logger.Info("refund created", zap.String("orderId", booking.OrderID))
	return nil
}
