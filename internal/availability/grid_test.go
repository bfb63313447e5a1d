package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGrid(t *testing.T) {
	set := ComputeDisabledDates([]DayEntry{{Day: 5, Available: false}}, march2024(), WithLocation(time.UTC))
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	grid := BuildGrid(set, GridParams{Now: now, Selected: now, From: MonthOf(now)})

	// March 2024 starts on a Friday: 5 padding cells then 31 days -> 6 weeks.
	require.Len(t, grid.Weeks, 6)
	for _, w := range grid.Weeks {
		assert.Len(t, w, 7)
	}
	assert.False(t, grid.Weeks[0][4].InMonth)
	first := grid.Weeks[0][5]
	assert.True(t, first.InMonth)
	assert.Equal(t, 1, first.Date.Day())
	assert.True(t, first.Selectable)

	cells := map[int]DayCell{}
	for _, w := range grid.Weeks {
		for _, c := range w {
			if c.InMonth {
				cells[c.Date.Day()] = c
			}
		}
	}
	require.Len(t, cells, 31)

	assert.True(t, cells[4].Today)
	assert.True(t, cells[4].Selected)
	assert.True(t, cells[4].Selectable)

	assert.True(t, cells[5].Available)
	assert.True(t, cells[5].Disabled)
	assert.False(t, cells[5].Selectable)

	assert.False(t, cells[9].Available)
	assert.False(t, cells[9].Selectable)
}

func TestBuildGrid_BeforeWindow(t *testing.T) {
	set := ComputeDisabledDates(nil, march2024(), WithLocation(time.UTC))
	now := time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)

	grid := BuildGrid(set, GridParams{Now: now, From: MonthOf(now)})
	for _, w := range grid.Weeks {
		for _, c := range w {
			assert.False(t, c.Selectable)
			assert.False(t, c.Selected)
		}
	}
}
