package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	bookingRepo "divyajyotisha/database/repository/booking"
	"divyajyotisha/models"
	"divyajyotisha/services/meeting"
	"divyajyotisha/services/messaging"
	"divyajyotisha/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- fakes ---

type fakeProvider struct {
	verifyErr   error
	parseResult *models.PaymentResult
	parseErr    error
	fetchStatus string
	fetchErr    error
	refundErr   error
	refundCalls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) CreateIntent(_ context.Context, req models.PaymentIntentRequest) (*models.PaymentIntent, error) {
	return &models.PaymentIntent{OrderID: req.OrderID, Provider: "fake"}, nil
}

func (f *fakeProvider) VerifySignature(_ []byte, _ string) error { return f.verifyErr }

func (f *fakeProvider) ParseResult(_ []byte) (*models.PaymentResult, error) {
	return f.parseResult, f.parseErr
}

func (f *fakeProvider) FetchStatus(_ context.Context, _ *models.Booking) (string, error) {
	return f.fetchStatus, f.fetchErr
}

func (f *fakeProvider) Refund(_ context.Context, _ *models.Booking) error {
	f.refundCalls++
	return f.refundErr
}

type fakeMeetings struct {
	provisionErr   error
	provisionCalls int
	updateCalls    int
	cancelCalls    int
	cancelledIDs   []string
}

func (f *fakeMeetings) Provision(_ context.Context, b *models.Booking) (*meeting.Meeting, error) {
	f.provisionCalls++
	if f.provisionErr != nil {
		return nil, f.provisionErr
	}
	return &meeting.Meeting{
		Link:    "https://meet.google.com/abc-defg-hij",
		EventID: fmt.Sprintf("evt-%s", b.OrderID),
	}, nil
}

func (f *fakeMeetings) Update(_ context.Context, eventID string, w meeting.Window) (*meeting.Meeting, error) {
	f.updateCalls++
	return &meeting.Meeting{Link: "https://meet.google.com/new-link", EventID: eventID, Start: w.Start, End: w.End}, nil
}

func (f *fakeMeetings) Cancel(_ context.Context, eventID string) error {
	f.cancelCalls++
	f.cancelledIDs = append(f.cancelledIDs, eventID)
	return nil
}

type fakeDispatcher struct {
	fail              bool
	confirmations     int
	reminders         int
	cancellations     int
	reschedules       int
	lastReminderOrder string
}

func (f *fakeDispatcher) result() messaging.DispatchResult {
	cr := messaging.ChannelResult{Channel: "fake", Detail: "sent"}
	if f.fail {
		cr.Err = errors.New("channel down")
	}
	return messaging.DispatchResult{Results: []messaging.ChannelResult{cr}}
}

func (f *fakeDispatcher) SendConfirmation(_ context.Context, _ *models.Booking) messaging.DispatchResult {
	f.confirmations++
	return f.result()
}

func (f *fakeDispatcher) SendReminder(_ context.Context, b *models.Booking) messaging.DispatchResult {
	f.reminders++
	f.lastReminderOrder = b.OrderID
	return f.result()
}

func (f *fakeDispatcher) SendCancellation(_ context.Context, _ *models.Booking, _ string) messaging.DispatchResult {
	f.cancellations++
	return f.result()
}

func (f *fakeDispatcher) SendReschedule(_ context.Context, _ *models.Booking) messaging.DispatchResult {
	f.reschedules++
	return f.result()
}

type fakeScheduler struct {
	err    error
	calls  int
	lastAt time.Time
}

func (f *fakeScheduler) Schedule(_ context.Context, _ string, at time.Time) error {
	f.calls++
	f.lastAt = at
	return f.err
}

// --- helpers ---

type testEnv struct {
	svc       *DefaultBookingService
	repo      bookingRepo.Repository
	provider  *fakeProvider
	meetings  *fakeMeetings
	notifier  *fakeDispatcher
	scheduler *fakeScheduler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:      bookingRepo.NewMemoryBookingRepo(),
		provider:  &fakeProvider{},
		meetings:  &fakeMeetings{},
		notifier:  &fakeDispatcher{},
		scheduler: &fakeScheduler{},
	}
	env.svc = NewBookingService(
		env.repo, env.provider, env.meetings, env.notifier, env.scheduler,
		time.Hour, time.UTC, zap.NewNop(),
	)
	return env
}

func validCreateReq(orderID string) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		CustomerName:     "Asha Verma",
		CustomerEmail:    "asha@example.com",
		CustomerPhone:    "9876543210",
		DateOfBirth:      "1992-04-17",
		AstrologerName:   "Pandit Sharma",
		PackageName:      "Vedic Reading",
		PackagePrice:     1500,
		ConsultationDate: time.Now().UTC().Add(72 * time.Hour).Format("2006-01-02"),
		ConsultationTime: "15:30",
		OrderID:          orderID,
	}
}

func successResult(orderID string) *models.PaymentResult {
	return &models.PaymentResult{
		OrderID:       orderID,
		TransactionID: "TXN-" + orderID,
		Amount:        1500,
		Status:        models.PaymentSuccess,
		ResponseCode:  "01",
		Message:       "Payment successful",
	}
}

// --- tests ---

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and initial state", func(t *testing.T) {
		env := newTestEnv(t)
		b, err := env.svc.Create(ctx, validCreateReq("ORD-1"))
		require.NoError(t, err)

		assert.NotEmpty(t, b.ID)
		assert.Equal(t, models.BookingActive, b.Status)
		assert.Equal(t, models.PaymentPending, b.PaymentStatus)
		assert.Equal(t, models.MeetingScheduled, b.MeetingStatus)
		assert.Equal(t, 30, b.PackageDuration)
		assert.Equal(t, 1500.0, b.PaymentAmount)
		assert.Empty(t, b.MeetingLink)
		assert.False(t, b.ConfirmationSent)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		env := newTestEnv(t)
		req := validCreateReq("ORD-2")
		req.CustomerEmail = ""
		_, err := env.svc.Create(ctx, req)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("rejects a consultation in the past", func(t *testing.T) {
		env := newTestEnv(t)
		req := validCreateReq("ORD-3")
		req.ConsultationDate = "2020-01-01"
		_, err := env.svc.Create(ctx, req)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("rejects duplicate orderId", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Create(ctx, validCreateReq("ORD-4"))
		require.NoError(t, err)

		_, err = env.svc.Create(ctx, validCreateReq("ORD-4"))
		assert.Equal(t, CodeConflict, CodeOf(err))
	})
}

func TestIngestPaymentResult(t *testing.T) {
	ctx := context.Background()

	t.Run("bad signature mutates nothing", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-10"))
		require.NoError(t, err)

		env.provider.verifyErr = payment.ErrBadSignature
		env.provider.parseResult = successResult("ORD-10")

		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "bogus")
		assert.Equal(t, CodeAuthenticity, CodeOf(err))

		after, err := env.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, after.PaymentStatus)
		assert.Empty(t, after.TransactionID)
		assert.Zero(t, env.meetings.provisionCalls)
		assert.Zero(t, env.notifier.confirmations)
	})

	t.Run("first success runs post-payment hooks", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-11"))
		require.NoError(t, err)

		env.provider.parseResult = successResult("ORD-11")
		resp, err := env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		assert.Equal(t, models.PaymentSuccess, resp.PaymentStatus)
		assert.Equal(t, "TXN-ORD-11", resp.TransactionID)
		assert.Equal(t, "https://meet.google.com/abc-defg-hij", resp.MeetingLink)
		assert.NotEmpty(t, resp.SideEffects)

		after, err := env.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, after.PaymentStatus)
		assert.Equal(t, "evt-ORD-11", after.EventID)
		assert.True(t, after.ConfirmationSent)
		assert.False(t, after.PaymentDate.IsZero())
		assert.Equal(t, 1, env.meetings.provisionCalls)
		assert.Equal(t, 1, env.notifier.confirmations)
		assert.Equal(t, 1, env.scheduler.calls)
		assert.Equal(t, after.ConsultationDateTime(time.UTC).Add(-time.Hour), env.scheduler.lastAt)
	})

	t.Run("duplicate success callback is idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Create(ctx, validCreateReq("ORD-12"))
		require.NoError(t, err)

		env.provider.parseResult = successResult("ORD-12")
		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		resp, err := env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, resp.PaymentStatus)
		assert.Empty(t, resp.SideEffects)
		assert.Equal(t, 1, env.meetings.provisionCalls)
		assert.Equal(t, 1, env.notifier.confirmations)
	})

	t.Run("late failure cannot downgrade a settled payment", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-13"))
		require.NoError(t, err)

		env.provider.parseResult = successResult("ORD-13")
		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		env.provider.parseResult = &models.PaymentResult{
			OrderID: "ORD-13",
			Status:  models.PaymentFailed,
		}
		resp, err := env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, resp.PaymentStatus)

		after, err := env.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, after.PaymentStatus)
	})

	t.Run("failed payment records no side effects", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Create(ctx, validCreateReq("ORD-14"))
		require.NoError(t, err)

		env.provider.parseResult = &models.PaymentResult{
			OrderID: "ORD-14",
			Status:  models.PaymentFailed,
			Message: "insufficient funds",
		}
		resp, err := env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, resp.PaymentStatus)
		assert.Empty(t, resp.SideEffects)
		assert.Zero(t, env.meetings.provisionCalls)
	})

	t.Run("meeting failure does not undo the payment", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-15"))
		require.NoError(t, err)

		env.meetings.provisionErr = errors.New("calendar unavailable")
		env.provider.parseResult = successResult("ORD-15")

		resp, err := env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, resp.PaymentStatus)
		assert.Empty(t, resp.MeetingLink)

		var provisionEffect *models.SideEffectResult
		for i := range resp.SideEffects {
			if resp.SideEffects[i].Name == "meeting.provision" {
				provisionEffect = &resp.SideEffects[i]
			}
		}
		require.NotNil(t, provisionEffect)
		assert.False(t, provisionEffect.Ok)

		after, err := env.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, after.PaymentStatus)
		assert.Empty(t, after.EventID)
	})

	t.Run("unknown orderId is not found", func(t *testing.T) {
		env := newTestEnv(t)
		env.provider.parseResult = successResult("ORD-UNKNOWN")
		_, err := env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels an unpaid booking", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-20"))
		require.NoError(t, err)

		b, _, err := env.svc.Cancel(ctx, created.ID, "customer request")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, b.Status)
		assert.Equal(t, models.MeetingCancelled, b.MeetingStatus)
		assert.Contains(t, b.Notes, "Cancellation Reason: customer request")
		assert.Zero(t, env.provider.refundCalls)
	})

	t.Run("refunds and removes the meeting for a paid booking", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-21"))
		require.NoError(t, err)

		env.provider.parseResult = successResult("ORD-21")
		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		b, effects, err := env.svc.Cancel(ctx, created.ID, "astrologer unavailable")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRefunded, b.PaymentStatus)
		assert.Equal(t, 1, env.provider.refundCalls)
		assert.Equal(t, 1, env.meetings.cancelCalls)
		assert.Equal(t, []string{"evt-ORD-21"}, env.meetings.cancelledIDs)
		assert.Equal(t, 1, env.notifier.cancellations)
		assert.NotEmpty(t, effects)

		after, err := env.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentRefunded, after.PaymentStatus)
	})

	t.Run("keeps SUCCESS when the refund call fails", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-22"))
		require.NoError(t, err)

		env.provider.parseResult = successResult("ORD-22")
		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		env.provider.refundErr = errors.New("gateway timeout")
		b, _, err := env.svc.Cancel(ctx, created.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, b.Status)
		assert.Equal(t, models.PaymentSuccess, b.PaymentStatus)
	})

	t.Run("rejects double cancellation", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-23"))
		require.NoError(t, err)

		_, _, err = env.svc.Cancel(ctx, created.ID, "")
		require.NoError(t, err)

		_, _, err = env.svc.Cancel(ctx, created.ID, "")
		assert.Equal(t, CodeAlreadyCancelled, CodeOf(err))
	})
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()

	t.Run("moves an active booking", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-30"))
		require.NoError(t, err)

		newDate := time.Now().UTC().Add(120 * time.Hour).Format("2006-01-02")
		b, _, err := env.svc.Reschedule(ctx, created.ID, newDate, "11:00", "customer request")
		require.NoError(t, err)
		assert.Equal(t, "11:00", b.ConsultationTime)
		assert.Contains(t, b.Notes, "Rescheduled:")
		assert.Contains(t, b.Notes, "(customer request)")
		assert.False(t, b.ReminderSent)
	})

	t.Run("moves the calendar event when one exists", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-31"))
		require.NoError(t, err)

		env.provider.parseResult = successResult("ORD-31")
		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		newDate := time.Now().UTC().Add(120 * time.Hour).Format("2006-01-02")
		b, _, err := env.svc.Reschedule(ctx, created.ID, newDate, "09:15", "")
		require.NoError(t, err)
		assert.Equal(t, 1, env.meetings.updateCalls)
		assert.Equal(t, "https://meet.google.com/new-link", b.MeetingLink)
		assert.Equal(t, 1, env.notifier.reschedules)
	})

	t.Run("rejects a past target time", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-32"))
		require.NoError(t, err)

		_, _, err = env.svc.Reschedule(ctx, created.ID, "2020-06-01", "10:00", "")
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("rejects a cancelled booking", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-33"))
		require.NoError(t, err)
		_, _, err = env.svc.Cancel(ctx, created.ID, "")
		require.NoError(t, err)

		newDate := time.Now().UTC().Add(120 * time.Hour).Format("2006-01-02")
		_, _, err = env.svc.Reschedule(ctx, created.ID, newDate, "10:00", "")
		assert.Equal(t, CodeInvalidState, CodeOf(err))
	})
}

func TestSendReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("never dispatches for a pending payment", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-40"))
		require.NoError(t, err)

		_, _, err = env.svc.SendReminder(ctx, created.ID)
		assert.Equal(t, CodeInvalidState, CodeOf(err))
		assert.Zero(t, env.notifier.reminders)
	})

	t.Run("marks reminderSent after delivery", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-41"))
		require.NoError(t, err)

		env.provider.parseResult = successResult("ORD-41")
		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		b, effects, err := env.svc.SendReminder(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, b.ReminderSent)
		assert.Equal(t, "ORD-41", env.notifier.lastReminderOrder)
		require.Len(t, effects, 1)
		assert.True(t, effects[0].Ok)

		// Repeat reminders are allowed.
		_, _, err = env.svc.SendReminder(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, env.notifier.reminders)
	})

	t.Run("rejects a paid booking without a meeting link", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-43"))
		require.NoError(t, err)

		env.meetings.provisionErr = errors.New("calendar down")
		env.provider.parseResult = successResult("ORD-43")
		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		_, _, err = env.svc.SendReminder(ctx, created.ID)
		assert.Equal(t, CodeInvalidState, CodeOf(err))
		assert.Zero(t, env.notifier.reminders)
	})

	t.Run("all channels failing is reported, not an error", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-42"))
		require.NoError(t, err)

		env.provider.parseResult = successResult("ORD-42")
		_, err = env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
		require.NoError(t, err)

		env.notifier.fail = true
		b, effects, err := env.svc.SendReminder(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, b.ReminderSent)
		require.Len(t, effects, 1)
		assert.False(t, effects[0].Ok)

		after, err := env.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, after.ReminderSent)

		// A later dispatch that delivers still marks the booking.
		env.notifier.fail = false
		b, _, err = env.svc.SendReminder(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, b.ReminderSent)
	})
}

func TestPaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes a pending payment from the gateway", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.svc.Create(ctx, validCreateReq("ORD-50"))
		require.NoError(t, err)

		env.provider.fetchStatus = models.PaymentSuccess
		resp, err := env.svc.PaymentStatus(ctx, "ORD-50")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, resp.PaymentStatus)
		assert.Equal(t, 1, env.meetings.provisionCalls)

		after, err := env.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, after.PaymentStatus)
	})

	t.Run("gateway failure leaves the booking pending", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Create(ctx, validCreateReq("ORD-51"))
		require.NoError(t, err)

		env.provider.fetchErr = errors.New("gateway down")
		resp, err := env.svc.PaymentStatus(ctx, "ORD-51")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, resp.PaymentStatus)
	})

	t.Run("unknown orderId is not found", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.PaymentStatus(ctx, "ORD-NOPE")
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})
}

func TestFullLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.svc.Create(ctx, validCreateReq("ORD-100"))
	require.NoError(t, err)

	env.provider.parseResult = successResult("ORD-100")
	resp, err := env.svc.IngestPaymentResult(ctx, []byte(`{}`), "")
	require.NoError(t, err)
	require.Equal(t, models.PaymentSuccess, resp.PaymentStatus)

	newDate := time.Now().UTC().Add(96 * time.Hour).Format("2006-01-02")
	_, _, err = env.svc.Reschedule(ctx, created.ID, newDate, "17:45", "")
	require.NoError(t, err)

	_, _, err = env.svc.SendReminder(ctx, created.ID)
	require.NoError(t, err)

	b, _, err := env.svc.Cancel(ctx, created.ID, "travel conflict")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, b.Status)
	assert.Equal(t, models.PaymentRefunded, b.PaymentStatus)
	assert.Contains(t, b.Notes, "Rescheduled:")
	assert.Contains(t, b.Notes, "Cancellation Reason: travel conflict")

	// Terminal state rejects further operations.
	_, _, err = env.svc.SendReminder(ctx, created.ID)
	assert.Equal(t, CodeInvalidState, CodeOf(err))
	_, _, err = env.svc.Cancel(ctx, created.ID, "")
	assert.Equal(t, CodeAlreadyCancelled, CodeOf(err))
}
