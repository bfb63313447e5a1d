// Package availability derives the disabled calendar days of a month from the
// provider's per-day availability flags.
package availability

import (
	"fmt"
	"sort"
	"time"
)

// DayEntry is one element of a month-availability response.
type DayEntry struct {
	Day       int  `json:"day"`
	Available bool `json:"availability"`
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month t falls in (in t's location).
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// First returns midnight of the first day of the month in loc.
func (m YearMonth) First(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

// Days returns how many days the month has.
func (m YearMonth) Days() int {
	return daysIn(m.Month, m.Year)
}

// Contains reports whether t falls in the month.
func (m YearMonth) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// Before reports whether m is an earlier month than other.
func (m YearMonth) Before(other YearMonth) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// InvalidEntryError reports an entry whose day does not exist in its month.
type InvalidEntryError struct {
	Entry DayEntry
	Month YearMonth
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("availability entry day %d out of range for %s (1..%d)", e.Entry.Day, e.Month, e.Month.Days())
}

// Reason explains why a date is disabled. Both bits may be set.
type Reason uint8

const (
	ReasonWeekend Reason = 1 << iota
	ReasonUnavailable
)

// DisabledSet is the set of disabled dates of one month, keyed by day of month.
type DisabledSet struct {
	month   YearMonth
	loc     *time.Location
	reasons map[int]Reason
}

// Option tunes ComputeDisabledDates.
type Option func(*options)

type options struct {
	loc       *time.Location
	onInvalid func(*InvalidEntryError)
}

// WithLocation sets the location used to build the resulting dates.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// OnInvalidEntry registers a callback for dropped entries.
func OnInvalidEntry(fn func(*InvalidEntryError)) Option {
	return func(o *options) { o.onInvalid = fn }
}

// ComputeDisabledDates returns every date of month that the calendar must not offer:
// the days flagged unavailable by entries plus every Saturday and Sunday.
// Entries whose day is outside the month are dropped.
func ComputeDisabledDates(entries []DayEntry, month YearMonth, opts ...Option) DisabledSet {
	o := options{loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loc == nil {
		o.loc = time.Local
	}

	set := DisabledSet{month: month, loc: o.loc, reasons: make(map[int]Reason)}
	days := month.Days()

	for day := 1; day <= days; day++ {
		if IsWeekend(time.Date(month.Year, month.Month, day, 0, 0, 0, 0, o.loc)) {
			set.reasons[day] |= ReasonWeekend
		}
	}

	for _, e := range entries {
		if e.Day < 1 || e.Day > days {
			if o.onInvalid != nil {
				o.onInvalid(&InvalidEntryError{Entry: e, Month: month})
			}
			continue
		}
		if !e.Available {
			set.reasons[e.Day] |= ReasonUnavailable
		}
	}

	return set
}

// IsWeekend reports whether t is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Month returns the month the set was computed for.
func (s DisabledSet) Month() YearMonth {
	return s.month
}

// Len returns the number of disabled dates.
func (s DisabledSet) Len() int {
	return len(s.reasons)
}

// Contains reports whether t is a disabled date of the set's month.
func (s DisabledSet) Contains(t time.Time) bool {
	return s.Reason(t) != 0
}

// Reason returns why t is disabled, or 0 when it is not (or is outside the month).
func (s DisabledSet) Reason(t time.Time) Reason {
	if s.loc != nil {
		t = t.In(s.loc)
	}
	if !s.month.Contains(t) {
		return 0
	}
	return s.reasons[t.Day()]
}

// Dates returns the disabled dates in ascending order.
func (s DisabledSet) Dates() []time.Time {
	days := make([]int, 0, len(s.reasons))
	for day := range s.reasons {
		days = append(days, day)
	}
	sort.Ints(days)

	out := make([]time.Time, len(days))
	for i, day := range days {
		out[i] = time.Date(s.month.Year, s.month.Month, day, 0, 0, 0, 0, s.loc)
	}
	return out
}

func daysIn(m time.Month, year int) int {
	switch m {
	case time.February:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}
