package availability

import "time"

// DayCell is one slot of the month grid. Padding cells have InMonth=false.
type DayCell struct {
	Date     time.Time `json:"date"`
	InMonth  bool      `json:"in_month"`
	Today    bool      `json:"today"`
	Selected bool      `json:"selected"`
	// Available marks working days (Monday to Friday).
	Available bool `json:"available"`
	Disabled  bool `json:"disabled"`
	// Selectable is Available && !Disabled && not before the navigable window.
	Selectable bool `json:"selectable"`
}

// Grid is a Sunday-first month view.
type Grid struct {
	Month YearMonth   `json:"-"`
	Title string      `json:"title"`
	Weeks [][]DayCell `json:"weeks"`
}

// GridParams carries the values the grid needs besides the disabled set.
type GridParams struct {
	Now      time.Time
	Selected time.Time
	// From is the earliest month the calendar may navigate to.
	From YearMonth
}

// BuildGrid lays out the month of set as weeks of seven cells.
func BuildGrid(set DisabledSet, p GridParams) Grid {
	month := set.Month()
	loc := set.loc
	if loc == nil {
		loc = time.Local
	}
	first := month.First(loc)
	offset := int(first.Weekday())
	days := month.Days()

	grid := Grid{Month: month}
	week := make([]DayCell, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, DayCell{})
	}

	for day := 1; day <= days; day++ {
		date := time.Date(month.Year, month.Month, day, 0, 0, 0, 0, loc)
		cell := DayCell{
			Date:      date,
			InMonth:   true,
			Today:     sameDay(date, p.Now),
			Selected:  sameDay(date, p.Selected),
			Available: !IsWeekend(date),
			Disabled:  set.Contains(date),
		}
		cell.Selectable = cell.Available && !cell.Disabled && !month.Before(p.From)
		week = append(week, cell)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = make([]DayCell, 0, 7)
		}
	}

	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, DayCell{})
		}
		grid.Weeks = append(grid.Weeks, week)
	}

	return grid
}

func sameDay(a, b time.Time) bool {
	if b.IsZero() {
		return false
	}
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
