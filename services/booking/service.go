package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "divyajyotisha/database/repository/booking"
	"divyajyotisha/models"
	"divyajyotisha/services/meeting"
	"divyajyotisha/services/messaging"
	"divyajyotisha/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDurationMinutes = 30

// DefaultBookingService implements Service. The storage write is the
// authoritative step of every mutation; meeting, notification and reminder
// calls run after it and are captured as side-effect results, never as
// request failures.
type DefaultBookingService struct {
	Repo      bookingRepo.Repository
	Payments  payment.Provider
	Meetings  meeting.Service
	Notifier  messaging.Dispatcher
	Reminders ReminderScheduler

	ReminderLead time.Duration
	Loc          *time.Location
	Now          func() time.Time
	Logger       *zap.Logger
}

func NewBookingService(
	repo bookingRepo.Repository,
	payments payment.Provider,
	meetings meeting.Service,
	notifier messaging.Dispatcher,
	reminders ReminderScheduler,
	reminderLead time.Duration,
	loc *time.Location,
	logger *zap.Logger,
) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:         repo,
		Payments:     payments,
		Meetings:     meetings,
		Notifier:     notifier,
		Reminders:    reminders,
		ReminderLead: reminderLead,
		Loc:          loc,
		Now:          time.Now,
		Logger:       logger,
	}
}

func (s *DefaultBookingService) Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	switch {
	case req.CustomerName == "":
		return nil, NewValidationError("customerName is required")
	case req.CustomerEmail == "":
		return nil, NewValidationError("customerEmail is required")
	case req.CustomerPhone == "":
		return nil, NewValidationError("customerPhone is required")
	case req.AstrologerName == "":
		return nil, NewValidationError("astrologerName is required")
	case req.PackageName == "":
		return nil, NewValidationError("packageName is required")
	case req.OrderID == "":
		return nil, NewValidationError("orderId is required")
	case req.PackagePrice <= 0:
		return nil, NewValidationError("packagePrice must be positive")
	}

	consultDate, err := time.ParseInLocation("2006-01-02", req.ConsultationDate, s.Loc)
	if err != nil {
		return nil, NewValidationError("consultationDate must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.ConsultationTime); err != nil {
		return nil, NewValidationError("consultationTime must be HH:MM")
	}

	var dob time.Time
	if req.DateOfBirth != "" {
		dob, err = time.ParseInLocation("2006-01-02", req.DateOfBirth, s.Loc)
		if err != nil {
			return nil, NewValidationError("dateOfBirth must be YYYY-MM-DD")
		}
	}

	duration := req.PackageDuration
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	now := s.Now()
	b := &models.Booking{
		ID:                  uuid.New().String(),
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		DateOfBirth:         dob,
		TimeOfBirth:         req.TimeOfBirth,
		PlaceOfBirth:        req.PlaceOfBirth,
		AstrologerName:      req.AstrologerName,
		PackageName:         req.PackageName,
		PackageDuration:     duration,
		PackagePrice:        req.PackagePrice,
		ConsultationDate:    consultDate,
		ConsultationTime:    req.ConsultationTime,
		OrderID:             req.OrderID,
		PaymentStatus:       models.PaymentPending,
		PaymentAmount:       req.PackagePrice,
		MeetingStatus:       models.MeetingScheduled,
		SpecialRequirements: req.SpecialRequirements,
		Notes:               req.Notes,
		Status:              models.BookingActive,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if !b.IsUpcoming(now, s.Loc) {
		return nil, NewValidationError("consultation must be scheduled in the future")
	}

	if err := s.Repo.Create(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateOrderID) {
			return nil, NewConflictError("a booking with this orderId already exists")
		}
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("orderId", b.OrderID),
		zap.String("astrologer", b.AstrologerName))
	return b, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, NewNotFoundError("booking not found")
	}
	return b, err
}

func (s *DefaultBookingService) List(ctx context.Context, filter bookingRepo.ListFilter) ([]models.Booking, int64, error) {
	return s.Repo.List(ctx, filter)
}

func (s *DefaultBookingService) Update(ctx context.Context, id string, req models.UpdateBookingRequest) (*models.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == models.BookingCancelled {
		return nil, NewAlreadyCancelledError("cannot update a cancelled booking")
	}

	if req.CustomerName != nil {
		b.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		b.CustomerEmail = *req.CustomerEmail
	}
	if req.CustomerPhone != nil {
		b.CustomerPhone = *req.CustomerPhone
	}
	if req.DateOfBirth != nil {
		dob, err := time.ParseInLocation("2006-01-02", *req.DateOfBirth, s.Loc)
		if err != nil {
			return nil, NewValidationError("dateOfBirth must be YYYY-MM-DD")
		}
		b.DateOfBirth = dob
	}
	if req.TimeOfBirth != nil {
		b.TimeOfBirth = *req.TimeOfBirth
	}
	if req.PlaceOfBirth != nil {
		b.PlaceOfBirth = *req.PlaceOfBirth
	}
	if req.AstrologerName != nil {
		b.AstrologerName = *req.AstrologerName
	}
	if req.PackageName != nil {
		b.PackageName = *req.PackageName
	}
	if req.PackageDuration != nil {
		b.PackageDuration = *req.PackageDuration
	}
	if req.PackagePrice != nil {
		b.PackagePrice = *req.PackagePrice
	}
	if req.SpecialRequirements != nil {
		b.SpecialRequirements = *req.SpecialRequirements
	}
	if req.Notes != nil {
		b.Notes = *req.Notes
	}
	b.UpdatedAt = s.Now()

	if err := s.persist(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *DefaultBookingService) Cancel(ctx context.Context, id, reason string) (*models.Booking, []models.SideEffectResult, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if b.Status == models.BookingCancelled {
		return nil, nil, NewAlreadyCancelledError("booking is already cancelled")
	}
	if b.Status == models.BookingCompleted {
		return nil, nil, NewInvalidStateError("cannot cancel a completed booking")
	}

	b.Status = models.BookingCancelled
	b.MeetingStatus = models.MeetingCancelled
	if reason != "" {
		b.Notes += "\n\nCancellation Reason: " + reason
	}
	b.UpdatedAt = s.Now()

	if err := s.persist(ctx, b); err != nil {
		return nil, nil, err
	}
	s.Logger.Info("booking cancelled", zap.String("bookingId", b.ID), zap.String("reason", reason))

	var effects []models.SideEffectResult

	if b.EventID != "" {
		if err := s.Meetings.Cancel(ctx, b.EventID); err != nil {
			effects = append(effects, sideEffect("meeting.cancel", false, err.Error()))
		} else {
			effects = append(effects, sideEffect("meeting.cancel", true, "event removed"))
		}
	}

	if b.PaymentStatus == models.PaymentSuccess {
		if err := s.Payments.Refund(ctx, b); err != nil {
			effects = append(effects, sideEffect("payment.refund", false, err.Error()))
		} else {
			b.PaymentStatus = models.PaymentRefunded
			b.UpdatedAt = s.Now()
			if err := s.persist(ctx, b); err != nil {
				s.Logger.Error("failed to record refund", zap.String("bookingId", b.ID), zap.Error(err))
			}
			effects = append(effects, sideEffect("payment.refund", true, "refund initiated"))
		}
	}

	res := s.Notifier.SendCancellation(ctx, b, reason)
	effects = append(effects, dispatchEffects("notify.cancellation", res)...)

	return b, effects, nil
}

func (s *DefaultBookingService) Reschedule(ctx context.Context, id, newDate, newTime, reason string) (*models.Booking, []models.SideEffectResult, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if b.Status != models.BookingActive {
		return nil, nil, NewInvalidStateError("only active bookings can be rescheduled")
	}

	consultDate, err := time.ParseInLocation("2006-01-02", newDate, s.Loc)
	if err != nil {
		return nil, nil, NewValidationError("consultationDate must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", newTime); err != nil {
		return nil, nil, NewValidationError("consultationTime must be HH:MM")
	}

	oldDate := b.ConsultationDate.In(s.Loc).Format("2006-01-02")
	oldTime := b.ConsultationTime

	b.ConsultationDate = consultDate
	b.ConsultationTime = newTime
	now := s.Now()
	if !b.IsUpcoming(now, s.Loc) {
		return nil, nil, NewValidationError("new consultation time must be in the future")
	}
	b.Notes += fmt.Sprintf("\n\nRescheduled: %s %s to %s %s", oldDate, oldTime, newDate, newTime)
	if reason != "" {
		b.Notes += " (" + reason + ")"
	}
	b.ReminderSent = false
	b.UpdatedAt = now

	if err := s.persist(ctx, b); err != nil {
		return nil, nil, err
	}
	s.Logger.Info("booking rescheduled",
		zap.String("bookingId", b.ID),
		zap.String("newDate", newDate),
		zap.String("newTime", newTime))

	var effects []models.SideEffectResult

	if b.EventID != "" {
		start := b.ConsultationDateTime(s.Loc)
		window := meeting.Window{Start: start, End: start.Add(time.Duration(b.PackageDuration) * time.Minute)}
		m, err := s.Meetings.Update(ctx, b.EventID, window)
		if err != nil {
			// Booking time is authoritative; the stale calendar event is
			// reported, not rolled back.
			effects = append(effects, sideEffect("meeting.update", false, err.Error()))
		} else {
			if m.Link != "" {
				b.MeetingLink = m.Link
			}
			b.UpdatedAt = s.Now()
			if err := s.persist(ctx, b); err != nil {
				s.Logger.Error("failed to record moved meeting", zap.String("bookingId", b.ID), zap.Error(err))
			}
			effects = append(effects, sideEffect("meeting.update", true, "event moved"))
		}
	}

	res := s.Notifier.SendReschedule(ctx, b)
	effects = append(effects, dispatchEffects("notify.reschedule", res)...)

	if s.Reminders != nil {
		at := b.ConsultationDateTime(s.Loc).Add(-s.ReminderLead)
		if err := s.Reminders.Schedule(ctx, b.ID, at); err != nil {
			effects = append(effects, sideEffect("reminder.schedule", false, err.Error()))
		} else {
			effects = append(effects, sideEffect("reminder.schedule", true, "scheduled for "+at.Format(time.RFC3339)))
		}
	}

	return b, effects, nil
}

// SendReminder dispatches a reminder for one booking. Repeated reminders are
// allowed; reminderSent records that at least one was delivered. A dispatch
// where every channel fails is still a completed request, reported through
// the per-channel results with reminderSent left false.
func (s *DefaultBookingService) SendReminder(ctx context.Context, id string) (*models.Booking, []models.SideEffectResult, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if b.Status != models.BookingActive {
		return nil, nil, NewInvalidStateError("reminders only apply to active bookings")
	}
	if b.PaymentStatus != models.PaymentSuccess {
		return nil, nil, NewInvalidStateError("reminders require a successful payment")
	}
	if b.MeetingLink == "" {
		return nil, nil, NewInvalidStateError("reminders require a provisioned meeting link")
	}
	if !b.IsUpcoming(s.Now(), s.Loc) {
		return nil, nil, NewInvalidStateError("consultation time has already passed")
	}

	res := s.Notifier.SendReminder(ctx, b)
	effects := dispatchEffects("notify.reminder", res)

	if res.AnySuccess() && !b.ReminderSent {
		b.ReminderSent = true
		b.UpdatedAt = s.Now()
		if err := s.persist(ctx, b); err != nil {
			s.Logger.Error("failed to record reminder", zap.String("bookingId", b.ID), zap.Error(err))
		}
	}
	return b, effects, nil
}

func (s *DefaultBookingService) Upcoming(ctx context.Context, astrologerName string) ([]models.Booking, error) {
	return s.Repo.Upcoming(ctx, astrologerName, s.Now())
}

func (s *DefaultBookingService) Today(ctx context.Context, astrologerName string) ([]models.Booking, error) {
	now := s.Now().In(s.Loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Loc)
	return s.Repo.Today(ctx, astrologerName, dayStart, dayStart.Add(24*time.Hour))
}

func (s *DefaultBookingService) IngestPaymentResult(ctx context.Context, payload []byte, signature string) (*models.PaymentIngestResponse, error) {
	if err := s.Payments.VerifySignature(payload, signature); err != nil {
		s.Logger.Warn("payment payload rejected", zap.Error(err))
		return nil, NewAuthenticityError("payment payload failed signature verification")
	}

	result, err := s.Payments.ParseResult(payload)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	b, err := s.Repo.GetByOrderID(ctx, result.OrderID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, NewNotFoundError("no booking for orderId " + result.OrderID)
	}
	if err != nil {
		return nil, err
	}

	return s.applyPaymentOutcome(ctx, b, result)
}

func (s *DefaultBookingService) PaymentStatus(ctx context.Context, orderID string) (*models.PaymentIngestResponse, error) {
	b, err := s.Repo.GetByOrderID(ctx, orderID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, NewNotFoundError("no booking for orderId " + orderID)
	}
	if err != nil {
		return nil, err
	}

	if b.PaymentStatus == models.PaymentPending && b.Status == models.BookingActive {
		status, err := s.Payments.FetchStatus(ctx, b)
		if err != nil {
			s.Logger.Warn("gateway status query failed",
				zap.String("orderId", orderID), zap.Error(err))
		} else if status != b.PaymentStatus {
			return s.applyPaymentOutcome(ctx, b, &models.PaymentResult{
				OrderID:       b.OrderID,
				TransactionID: b.TransactionID,
				Status:        status,
			})
		}
	}
	return s.ingestResponse(b, nil), nil
}

// applyPaymentOutcome writes the reconciled payment state and, on the first
// transition to SUCCESS, runs the post-payment hooks. A settled payment is
// never downgraded: SUCCESS only ever moves to REFUNDED, and a terminal
// status absorbs duplicate callbacks idempotently.
func (s *DefaultBookingService) applyPaymentOutcome(ctx context.Context, b *models.Booking, result *models.PaymentResult) (*models.PaymentIngestResponse, error) {
	if b.PaymentStatus == models.PaymentRefunded {
		return s.ingestResponse(b, nil), nil
	}
	if b.PaymentStatus == models.PaymentSuccess && result.Status != models.PaymentRefunded {
		return s.ingestResponse(b, nil), nil
	}
	if b.PaymentStatus == result.Status && b.TransactionID == result.TransactionID {
		return s.ingestResponse(b, nil), nil
	}

	firstSuccess := result.Status == models.PaymentSuccess && b.PaymentStatus != models.PaymentSuccess

	b.PaymentStatus = result.Status
	if result.TransactionID != "" {
		b.TransactionID = result.TransactionID
	}
	if result.Amount > 0 {
		b.PaymentAmount = result.Amount
	}
	if firstSuccess {
		b.PaymentDate = s.Now()
	}
	b.UpdatedAt = s.Now()

	if err := s.persist(ctx, b); err != nil {
		return nil, err
	}
	s.Logger.Info("payment outcome recorded",
		zap.String("orderId", b.OrderID),
		zap.String("paymentStatus", b.PaymentStatus),
		zap.String("transactionId", b.TransactionID))

	var effects []models.SideEffectResult
	if firstSuccess {
		effects = s.runPostPaymentHooks(ctx, b)
	}
	return s.ingestResponse(b, effects), nil
}

// runPostPaymentHooks provisions the meeting, sends the confirmation and
// schedules the reminder. Each hook's outcome is recorded; none of them can
// undo the payment write that preceded them.
func (s *DefaultBookingService) runPostPaymentHooks(ctx context.Context, b *models.Booking) []models.SideEffectResult {
	var effects []models.SideEffectResult

	m, err := s.Meetings.Provision(ctx, b)
	if err != nil {
		s.Logger.Error("meeting provisioning failed",
			zap.String("bookingId", b.ID), zap.Error(err))
		effects = append(effects, sideEffect("meeting.provision", false, err.Error()))
	} else {
		b.MeetingLink = m.Link
		b.EventID = m.EventID
		b.UpdatedAt = s.Now()
		if err := s.persist(ctx, b); err != nil {
			s.Logger.Error("failed to record meeting link",
				zap.String("bookingId", b.ID), zap.Error(err))
			effects = append(effects, sideEffect("meeting.provision", false, "event created but not recorded: "+err.Error()))
		} else {
			effects = append(effects, sideEffect("meeting.provision", true, m.Link))
		}
	}

	res := s.Notifier.SendConfirmation(ctx, b)
	effects = append(effects, dispatchEffects("notify.confirmation", res)...)
	if res.AnySuccess() {
		b.ConfirmationSent = true
		b.UpdatedAt = s.Now()
		if err := s.persist(ctx, b); err != nil {
			s.Logger.Error("failed to record confirmation",
				zap.String("bookingId", b.ID), zap.Error(err))
		}
	}

	if s.Reminders != nil {
		at := b.ConsultationDateTime(s.Loc).Add(-s.ReminderLead)
		if err := s.Reminders.Schedule(ctx, b.ID, at); err != nil {
			effects = append(effects, sideEffect("reminder.schedule", false, err.Error()))
		} else {
			effects = append(effects, sideEffect("reminder.schedule", true, "scheduled for "+at.Format(time.RFC3339)))
		}
	}

	return effects
}

// persist retries a stale compare-and-swap once by refreshing the version and
// replaying the write. The booking pointer carries the intended final state,
// so replay is a version bump, not a re-merge.
func (s *DefaultBookingService) persist(ctx context.Context, b *models.Booking) error {
	err := s.Repo.Update(ctx, b)
	if errors.Is(err, bookingRepo.ErrStaleWrite) {
		current, getErr := s.Repo.GetByID(ctx, b.ID)
		if getErr != nil {
			return err
		}
		b.Version = current.Version
		err = s.Repo.Update(ctx, b)
	}
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return NewNotFoundError("booking not found")
	}
	if errors.Is(err, bookingRepo.ErrStaleWrite) {
		return NewConflictError("booking was modified concurrently, retry the operation")
	}
	return err
}

func (s *DefaultBookingService) ingestResponse(b *models.Booking, effects []models.SideEffectResult) *models.PaymentIngestResponse {
	return &models.PaymentIngestResponse{
		BookingID:     b.ID,
		OrderID:       b.OrderID,
		PaymentStatus: b.PaymentStatus,
		TransactionID: b.TransactionID,
		MeetingLink:   b.MeetingLink,
		SideEffects:   effects,
		ProcessedAt:   s.Now(),
	}
}

func sideEffect(name string, ok bool, detail string) models.SideEffectResult {
	return models.SideEffectResult{Name: name, Ok: ok, Detail: detail}
}

func dispatchEffects(prefix string, res messaging.DispatchResult) []models.SideEffectResult {
	effects := make([]models.SideEffectResult, 0, len(res.Results))
	for _, cr := range res.Results {
		e := models.SideEffectResult{Name: prefix + "." + cr.Channel, Ok: cr.Err == nil, Detail: cr.Detail}
		if cr.Err != nil {
			e.Detail = cr.Err.Error()
		}
		effects = append(effects, e)
	}
	return effects
}
