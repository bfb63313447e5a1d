// Package timefmt holds the locale-aware date helpers used by the agenda.
package timefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// Locale identifies the language used for weekday and month names.
type Locale = monday.Locale

const (
	LocalePtBR Locale = monday.LocalePtBR
	LocaleEnUS Locale = monday.LocaleEnUS
)

// DefaultLocale is used when the configured locale is empty or unknown.
const DefaultLocale = LocalePtBR

var dayLabelPatterns = map[Locale]string{
	LocalePtBR: "Dia %02d de %s",
	LocaleEnUS: "Day %02d of %s",
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return ClockFunc(func() time.Time { return time.Now().In(loc) })
}

// ParseLocale maps a config value such as "pt_BR" or "pt-BR" to a supported Locale.
func ParseLocale(s string) Locale {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "-", "_")
	for loc := range dayLabelPatterns {
		if strings.EqualFold(string(loc), normalized) {
			return loc
		}
	}
	return DefaultLocale
}

// FormatTime renders t as "HH:MM" in 24-hour notation.
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// WeekdayName returns the full weekday name of t in locale.
func WeekdayName(t time.Time, locale Locale) string {
	return monday.Format(t, "Monday", locale)
}

// MonthName returns the full month name of t in locale.
func MonthName(t time.Time, locale Locale) string {
	return monday.Format(t, "January", locale)
}

// LongDateLabel renders t as "Dia 05 de março" (pt_BR) or the locale equivalent.
func LongDateLabel(t time.Time, locale Locale) string {
	pattern, ok := dayLabelPatterns[locale]
	if !ok {
		pattern = dayLabelPatterns[DefaultLocale]
		locale = DefaultLocale
	}
	return fmt.Sprintf(pattern, t.Day(), MonthName(t, locale))
}

// IsSameCalendarDay reports whether a falls on the same year, month and day as now,
// both evaluated in now's location.
func IsSameCalendarDay(a, now time.Time) bool {
	a = a.In(now.Location())
	ay, am, ad := a.Date()
	ny, nm, nd := now.Date()
	return ay == ny && am == nm && ad == nd
}

// IsStrictlyAfter reports whether instant a is later than instant b.
func IsStrictlyAfter(a, b time.Time) bool {
	return a.After(b)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
