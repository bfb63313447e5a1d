// Package schedule turns the appointments of a day into the morning/afternoon
// lists and the "next appointment" shown on the provider dashboard.
package schedule

import (
	"fmt"
	"time"

	"agenda/internal/timefmt"
)

// afternoonStartsAt is the first hour of the afternoon period.
const afternoonStartsAt = 12

// Client is the customer who booked an appointment.
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// RawAppointment is an appointment as returned by the API.
type RawAppointment struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Client Client `json:"client"`
}

// Appointment is a parsed appointment.
type Appointment struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Hour   string    `json:"hour_formatted"`
	Client Client    `json:"client"`
}

// Periods groups a day's appointments.
type Periods struct {
	Morning   []Appointment `json:"morning"`
	Afternoon []Appointment `json:"afternoon"`
}

// ParseError reports a raw appointment whose date could not be parsed.
type ParseError struct {
	ID  string
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("appointment %s: parse date %q: %v", e.ID, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts a raw appointment, expressing its date in loc.
func Parse(raw RawAppointment, loc *time.Location) (Appointment, error) {
	t, err := time.Parse(time.RFC3339, raw.Date)
	if err != nil {
		return Appointment{}, &ParseError{ID: raw.ID, Raw: raw.Date, Err: err}
	}
	if loc != nil {
		t = t.In(loc)
	}
	return Appointment{
		ID:     raw.ID,
		Date:   t,
		Hour:   timefmt.FormatTime(t),
		Client: raw.Client,
	}, nil
}

// MapRaw parses every raw appointment, keeping input order. Records that fail
// to parse are skipped and returned as errors.
func MapRaw(raw []RawAppointment, loc *time.Location) ([]Appointment, []error) {
	out := make([]Appointment, 0, len(raw))
	var errs []error
	for _, r := range raw {
		a, err := Parse(r, loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, a)
	}
	return out, errs
}

// PartitionByPeriod splits appointments by local hour: before noon goes to
// Morning, the rest to Afternoon. Input order is kept inside each bucket.
func PartitionByPeriod(appointments []Appointment, loc *time.Location) Periods {
	p := Periods{
		Morning:   make([]Appointment, 0, len(appointments)),
		Afternoon: make([]Appointment, 0, len(appointments)),
	}
	for _, a := range appointments {
		if localHour(a.Date, loc) < afternoonStartsAt {
			p.Morning = append(p.Morning, a)
		} else {
			p.Afternoon = append(p.Afternoon, a)
		}
	}
	return p
}

// FindNextAppointment returns the earliest appointment strictly after now. It
// returns false when selectedIsToday is false or nothing qualifies. Ties keep
// the first one in input order.
func FindNextAppointment(appointments []Appointment, now time.Time, selectedIsToday bool) (Appointment, bool) {
	if !selectedIsToday {
		return Appointment{}, false
	}

	best := -1
	for i, a := range appointments {
		if !timefmt.IsStrictlyAfter(a.Date, now) {
			continue
		}
		if best < 0 || a.Date.Before(appointments[best].Date) {
			best = i
		}
	}
	if best < 0 {
		return Appointment{}, false
	}
	return appointments[best], true
}

func localHour(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Hour()
}
