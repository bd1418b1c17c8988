package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"divyajyotisha/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingChannel struct {
	name string
	err  error
	sent []Message
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(_ context.Context, msg Message) (string, error) {
	c.sent = append(c.sent, msg)
	if c.err != nil {
		return "", c.err
	}
	return "ok", nil
}

func testBooking() *models.Booking {
	return &models.Booking{
		ID:               "bk-1",
		CustomerName:     "Asha Verma",
		CustomerEmail:    "asha@example.com",
		CustomerPhone:    "9876543210",
		AstrologerName:   "Pandit Sharma",
		PackageName:      "Vedic Reading",
		PackageDuration:  30,
		PaymentAmount:    1500,
		ConsultationDate: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		ConsultationTime: "15:00",
		MeetingLink:      "https://meet.google.com/abc-defg-hij",
	}
}

func TestDispatchFanOut(t *testing.T) {
	ctx := context.Background()

	t.Run("a failed channel does not stop the rest", func(t *testing.T) {
		broken := &recordingChannel{name: "telegram", err: errors.New("bot offline")}
		working := &recordingChannel{name: "email"}
		d := NewMultiChannelDispatcher([]Channel{broken, working}, time.UTC, "+91 99999 00000", zap.NewNop())

		res := d.SendConfirmation(ctx, testBooking())
		require.Len(t, res.Results, 2)
		assert.True(t, res.AnySuccess())
		assert.Len(t, broken.sent, 1)
		assert.Len(t, working.sent, 1)
		assert.Error(t, res.Results[0].Err)
		assert.NoError(t, res.Results[1].Err)
	})

	t.Run("all channels failing reports no success", func(t *testing.T) {
		a := &recordingChannel{name: "telegram", err: errors.New("down")}
		b := &recordingChannel{name: "email", err: errors.New("down")}
		d := NewMultiChannelDispatcher([]Channel{a, b}, time.UTC, "", zap.NewNop())

		res := d.SendReminder(ctx, testBooking())
		assert.False(t, res.AnySuccess())
	})

	t.Run("no channels configured reports no success", func(t *testing.T) {
		d := NewMultiChannelDispatcher(nil, time.UTC, "", zap.NewNop())
		res := d.SendConfirmation(ctx, testBooking())
		assert.False(t, res.AnySuccess())
		assert.Empty(t, res.Results)
	})
}

func TestMessageContent(t *testing.T) {
	ctx := context.Background()
	ch := &recordingChannel{name: "email"}
	d := NewMultiChannelDispatcher([]Channel{ch}, time.UTC, "+91 99999 00000", zap.NewNop())
	b := testBooking()

	t.Run("confirmation carries the meeting link and addresses", func(t *testing.T) {
		d.SendConfirmation(ctx, b)
		msg := ch.sent[len(ch.sent)-1]
		assert.Contains(t, msg.Subject, "Pandit Sharma")
		assert.Contains(t, msg.Body, b.MeetingLink)
		assert.Contains(t, msg.Body, "Rs. 1500.00")
		assert.Contains(t, msg.Body, "+91 99999 00000")
		assert.Equal(t, "asha@example.com", msg.ToEmail)
		assert.Equal(t, "9876543210", msg.ToPhone)
	})

	t.Run("cancellation carries the reason", func(t *testing.T) {
		d.SendCancellation(ctx, b, "astrologer unavailable")
		msg := ch.sent[len(ch.sent)-1]
		assert.Contains(t, msg.Subject, "Cancelled")
		assert.Contains(t, msg.Body, "astrologer unavailable")
	})

	t.Run("reschedule carries the new schedule", func(t *testing.T) {
		d.SendReschedule(ctx, b)
		msg := ch.sent[len(ch.sent)-1]
		assert.Contains(t, msg.Subject, "Rescheduled")
		assert.Contains(t, msg.Body, "20 Sep 2026")
		assert.Contains(t, msg.Body, "15:00")
	})
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"9876543210":       "919876543210",
		"+91 98765 43210":  "919876543210",
		"91-9876-543-210":  "919876543210",
		"+1 555 123 4567":  "15551234567",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizePhone(in), in)
	}
}
