package timefmt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in       time.Time
		expected string
	}{
		{time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), "09:00"},
		{time.Date(2024, 3, 10, 14, 30, 59, 0, time.UTC), "14:30"},
		{time.Date(2024, 3, 10, 0, 5, 0, 0, time.UTC), "00:05"},
		{time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), "23:59"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatTime(tt.in))
	}
}

func TestWeekdayName(t *testing.T) {
	// 2024-03-11 is a Monday.
	monday := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "segunda-feira", strings.ToLower(WeekdayName(monday, LocalePtBR)))
	assert.Equal(t, "domingo", strings.ToLower(WeekdayName(monday.AddDate(0, 0, 6), LocalePtBR)))
	assert.Equal(t, "Monday", WeekdayName(monday, LocaleEnUS))
}

func TestLongDateLabel(t *testing.T) {
	d := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "dia 05 de março", strings.ToLower(LongDateLabel(d, LocalePtBR)))
	assert.Equal(t, "Day 05 of March", LongDateLabel(d, LocaleEnUS))

	t.Run("UnknownLocaleFallsBack", func(t *testing.T) {
		assert.Equal(t, strings.ToLower(LongDateLabel(d, LocalePtBR)), strings.ToLower(LongDateLabel(d, Locale("xx_XX"))))
	})
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, LocalePtBR, ParseLocale("pt-BR"))
	assert.Equal(t, LocalePtBR, ParseLocale("pt_br"))
	assert.Equal(t, LocaleEnUS, ParseLocale("en_US"))
	assert.Equal(t, DefaultLocale, ParseLocale(""))
	assert.Equal(t, DefaultLocale, ParseLocale("klingon"))
}

func TestIsSameCalendarDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

	assert.True(t, IsSameCalendarDay(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, IsSameCalendarDay(time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), now))
	assert.False(t, IsSameCalendarDay(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsSameCalendarDay(time.Date(2023, 3, 10, 10, 0, 0, 0, time.UTC), now))

	t.Run("EvaluatedInNowLocation", func(t *testing.T) {
		saoPaulo := time.FixedZone("BRT", -3*60*60)
		localNow := time.Date(2024, 3, 10, 22, 0, 0, 0, saoPaulo)
		// 2024-03-11T01:00Z is still March 10th in BRT.
		assert.True(t, IsSameCalendarDay(time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC), localNow))
	})
}

func TestIsStrictlyAfter(t *testing.T) {
	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

	assert.True(t, IsStrictlyAfter(base.Add(time.Nanosecond), base))
	assert.False(t, IsStrictlyAfter(base, base))
	assert.False(t, IsStrictlyAfter(base.Add(-time.Minute), base))
}

func TestClockFunc(t *testing.T) {
	fixed := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	var c Clock = ClockFunc(func() time.Time { return fixed })
	assert.Equal(t, fixed, c.Now())

	loc := time.FixedZone("BRT", -3*60*60)
	assert.Equal(t, loc, SystemClock(loc).Now().Location())
}
