package dashboard

import (
	"context"
	"errors"
	"fmt"

	"agenda/internal/availability"
	"agenda/internal/events"
	"agenda/internal/schedule"
	"agenda/internal/session"
)

// AppointmentSource loads the provider's appointments of one day.
type AppointmentSource interface {
	FetchByDay(ctx context.Context, day, month, year int) ([]schedule.RawAppointment, error)
}

// AvailabilitySource loads the provider's per-day availability of one month.
type AvailabilitySource interface {
	FetchByMonth(ctx context.Context, providerID string, month, year int) ([]availability.DayEntry, error)
}

// Session exposes the signed-in provider.
type Session interface {
	CurrentUser() session.User
}

// Publisher receives dashboard events.
type Publisher interface {
	Publish(event events.Event) error
}

// Stream names one of the two independent fetch streams.
type Stream string

const (
	StreamAppointments Stream = "appointments"
	StreamAvailability Stream = "availability"
)

var (
	// ErrDateUnavailable is returned when the selected day is a weekend or is
	// disabled by the provider's availability.
	ErrDateUnavailable = errors.New("dashboard: date is not available")
	// ErrDateOutOfRange is returned for dates or months before the current month.
	ErrDateOutOfRange = errors.New("dashboard: date is before the current month")
)

// FetchError wraps a failed fetch on one stream.
type FetchError struct {
	Stream Stream
	Key    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Stream, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
