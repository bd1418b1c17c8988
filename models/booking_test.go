package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsultationDateTime(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	t.Run("combines date and time", func(t *testing.T) {
		b := &Booking{ConsultationDate: date, ConsultationTime: "15:30"}
		at := b.ConsultationDateTime(time.UTC)
		assert.Equal(t, time.Date(2026, 9, 14, 15, 30, 0, 0, time.UTC), at)
	})

	t.Run("zero when time is missing", func(t *testing.T) {
		b := &Booking{ConsultationDate: date}
		assert.True(t, b.ConsultationDateTime(time.UTC).IsZero())
	})

	t.Run("zero when time is malformed", func(t *testing.T) {
		b := &Booking{ConsultationDate: date, ConsultationTime: "afternoon"}
		assert.True(t, b.ConsultationDateTime(time.UTC).IsZero())
	})
}

func TestIsUpcomingAndIsToday(t *testing.T) {
	now := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)

	t.Run("later today is upcoming and today", func(t *testing.T) {
		b := &Booking{
			ConsultationDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			ConsultationTime: "18:00",
		}
		assert.True(t, b.IsUpcoming(now, time.UTC))
		assert.True(t, b.IsToday(now, time.UTC))
	})

	t.Run("earlier today is not upcoming but still today", func(t *testing.T) {
		b := &Booking{
			ConsultationDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			ConsultationTime: "09:00",
		}
		assert.False(t, b.IsUpcoming(now, time.UTC))
		assert.True(t, b.IsToday(now, time.UTC))
	})

	t.Run("tomorrow is upcoming but not today", func(t *testing.T) {
		b := &Booking{
			ConsultationDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			ConsultationTime: "09:00",
		}
		assert.True(t, b.IsUpcoming(now, time.UTC))
		assert.False(t, b.IsToday(now, time.UTC))
	})
}

func TestTimeUntilConsultation(t *testing.T) {
	now := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		date time.Time
		hhmm string
		want string
	}{
		{"days away", time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC), "14:00", "3 day(s) 2 hour(s)"},
		{"hours away", time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), "15:45", "3 hour(s) 45 minute(s)"},
		{"minutes away", time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), "12:20", "20 minute(s)"},
		{"already passed", time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), "08:00", "PAST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &Booking{ConsultationDate: tc.date, ConsultationTime: tc.hhmm}
			assert.Equal(t, tc.want, b.TimeUntilConsultation(now, time.UTC))
		})
	}

	t.Run("empty when schedule is incomplete", func(t *testing.T) {
		b := &Booking{}
		assert.Equal(t, "", b.TimeUntilConsultation(now, time.UTC))
	})
}
