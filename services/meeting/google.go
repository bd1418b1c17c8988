package meeting

import (
	"context"
	"fmt"
	"time"

	"divyajyotisha/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleMeetConfig carries the OAuth2 client credentials and the astrologer
// attendee address.
type GoogleMeetConfig struct {
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	AstrologerEmail string
	TimeZone        string
}

// GoogleMeetService implements Service on the Google Calendar API, attaching
// a Meet conference to each event.
type GoogleMeetService struct {
	cal    *calendar.Service
	cfg    GoogleMeetConfig
	loc    *time.Location
	logger *zap.Logger
}

func NewGoogleMeetService(ctx context.Context, cfg GoogleMeetConfig, loc *time.Location, logger *zap.Logger) (*GoogleMeetService, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarEventsScope},
	}
	ts := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	cal, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize calendar service: %w", err)
	}
	return &GoogleMeetService{cal: cal, cfg: cfg, loc: loc, logger: logger}, nil
}

func (s *GoogleMeetService) Provision(ctx context.Context, booking *models.Booking) (*Meeting, error) {
	duration := booking.PackageDuration
	if duration <= 0 {
		duration = 30
	}
	start := booking.ConsultationDateTime(s.loc)
	if start.IsZero() || start.Before(time.Now()) {
		// Consultation slot already passed or unknown; keep the meeting
		// joinable by opening it an hour out.
		start = time.Now().Add(time.Hour)
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	event := &calendar.Event{
		Summary: fmt.Sprintf("Astrology Consultation - %s", booking.AstrologerName),
		Description: fmt.Sprintf(
			"Consultation Details:\n- Customer: %s\n- Package: %s\n- Duration: %d minutes\n- Type: Astrology Consultation\n\nPlease join the meeting on time.",
			booking.CustomerName, booking.PackageName, duration,
		),
		Start: &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: s.cfg.TimeZone},
		End:   &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: s.cfg.TimeZone},
		Attendees: []*calendar.EventAttendee{
			{Email: booking.CustomerEmail, DisplayName: booking.CustomerName},
			{Email: s.cfg.AstrologerEmail, DisplayName: booking.AstrologerName},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: "meet_" + uuid.New().String(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 15},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := s.cal.Events.Insert("primary", event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	link := meetingLink(created)
	if link == "" {
		return nil, fmt.Errorf("calendar event %s has no meeting link", created.Id)
	}

	s.logger.Info("meeting provisioned",
		zap.String("eventId", created.Id),
		zap.String("orderId", booking.OrderID))
	return &Meeting{Link: link, EventID: created.Id, Start: start, End: end}, nil
}

func (s *GoogleMeetService) Update(ctx context.Context, eventID string, w Window) (*Meeting, error) {
	patch := &calendar.Event{
		Start: &calendar.EventDateTime{DateTime: w.Start.Format(time.RFC3339), TimeZone: s.cfg.TimeZone},
		End:   &calendar.EventDateTime{DateTime: w.End.Format(time.RFC3339), TimeZone: s.cfg.TimeZone},
	}
	updated, err := s.cal.Events.Patch("primary", eventID, patch).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update calendar event %s: %w", eventID, err)
	}
	return &Meeting{Link: meetingLink(updated), EventID: updated.Id, Start: w.Start, End: w.End}, nil
}

func (s *GoogleMeetService) Cancel(ctx context.Context, eventID string) error {
	if err := s.cal.Events.Delete("primary", eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event %s: %w", eventID, err)
	}
	return nil
}

func meetingLink(event *calendar.Event) string {
	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return event.HangoutLink
}
