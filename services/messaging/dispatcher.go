package messaging

import (
	"context"
	"fmt"
	"time"

	"divyajyotisha/models"

	"go.uber.org/zap"
)

// MultiChannelDispatcher sends each notification through every configured
// channel sequentially, collecting per-channel outcomes.
type MultiChannelDispatcher struct {
	channels []Channel
	loc      *time.Location
	support  string
	logger   *zap.Logger
}

func NewMultiChannelDispatcher(channels []Channel, loc *time.Location, supportPhone string, logger *zap.Logger) *MultiChannelDispatcher {
	return &MultiChannelDispatcher{channels: channels, loc: loc, support: supportPhone, logger: logger}
}

func (d *MultiChannelDispatcher) dispatch(ctx context.Context, kind string, msg Message) DispatchResult {
	var result DispatchResult
	for _, ch := range d.channels {
		detail, err := ch.Send(ctx, msg)
		if err != nil {
			d.logger.Warn("notification channel failed",
				zap.String("kind", kind),
				zap.String("channel", ch.Name()),
				zap.Error(err))
		} else {
			d.logger.Info("notification sent",
				zap.String("kind", kind),
				zap.String("channel", ch.Name()))
		}
		result.Results = append(result.Results, ChannelResult{Channel: ch.Name(), Detail: detail, Err: err})
	}
	return result
}

func (d *MultiChannelDispatcher) SendConfirmation(ctx context.Context, b *models.Booking) DispatchResult {
	at := b.ConsultationDateTime(d.loc)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour astrology consultation has been confirmed!\n\n"+
			"Booking Details:\n- Astrologer: %s\n- Package: %s\n- Date: %s\n- Time: %s\n- Duration: %d minutes\n- Amount Paid: Rs. %.2f\n\n"+
			"Meeting Link: %s\n\nPlease join the meeting 5 minutes before the scheduled time.\n\n"+
			"For any queries, contact us at %s.",
		b.CustomerName, b.AstrologerName, b.PackageName,
		at.Format("02 Jan 2006"), b.ConsultationTime, b.PackageDuration,
		b.PaymentAmount, b.MeetingLink, d.support,
	)
	return d.dispatch(ctx, "confirmation", Message{
		Subject: "Consultation Confirmed - " + b.AstrologerName,
		Body:    body,
		ToEmail: b.CustomerEmail,
		ToPhone: b.CustomerPhone,
	})
}

func (d *MultiChannelDispatcher) SendReminder(ctx context.Context, b *models.Booking) DispatchResult {
	body := fmt.Sprintf(
		"Dear %s,\n\nThis is a reminder for your upcoming astrology consultation.\n\n"+
			"- Astrologer: %s\n- Package: %s\n- Time: %s (%s)\n\n"+
			"Meeting Link: %s\n\nPlease be ready 5 minutes early.",
		b.CustomerName, b.AstrologerName, b.PackageName,
		b.ConsultationTime, b.TimeUntilConsultation(time.Now(), d.loc),
		b.MeetingLink,
	)
	return d.dispatch(ctx, "reminder", Message{
		Subject: "Consultation Reminder - " + b.AstrologerName,
		Body:    body,
		ToEmail: b.CustomerEmail,
		ToPhone: b.CustomerPhone,
	})
}

func (d *MultiChannelDispatcher) SendCancellation(ctx context.Context, b *models.Booking, reason string) DispatchResult {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour astrology consultation with %s has been cancelled.\n\n"+
			"Reason: %s\n\nIf you paid for this booking, your refund will be processed within 5-7 business days.\n\n"+
			"For any queries, contact us at %s.",
		b.CustomerName, b.AstrologerName, reason, d.support,
	)
	return d.dispatch(ctx, "cancellation", Message{
		Subject: "Consultation Cancelled - " + b.AstrologerName,
		Body:    body,
		ToEmail: b.CustomerEmail,
		ToPhone: b.CustomerPhone,
	})
}

func (d *MultiChannelDispatcher) SendReschedule(ctx context.Context, b *models.Booking) DispatchResult {
	at := b.ConsultationDateTime(d.loc)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour astrology consultation has been rescheduled.\n\n"+
			"New Schedule:\n- Astrologer: %s\n- Date: %s\n- Time: %s\n\n"+
			"Meeting Link: %s",
		b.CustomerName, b.AstrologerName,
		at.Format("02 Jan 2006"), b.ConsultationTime, b.MeetingLink,
	)
	return d.dispatch(ctx, "reschedule", Message{
		Subject: "Consultation Rescheduled - " + b.AstrologerName,
		Body:    body,
		ToEmail: b.CustomerEmail,
		ToPhone: b.CustomerPhone,
	})
}
