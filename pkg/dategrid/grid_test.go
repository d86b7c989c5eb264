package dategrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthGrid_Shape(t *testing.T) {
	months := []struct {
		year  int
		month time.Month
	}{
		{2024, time.January},
		{2024, time.February},
		{2024, time.December},
		{2023, time.February},
		{2025, time.June},
		{1999, time.December},
	}
	for _, m := range months {
		t.Run(m.month.String(), func(t *testing.T) {
			g := MonthGrid(m.year, m.month, time.Time{})

			// Every cell is a real date, rows are consecutive Monday-first weeks.
			assert.Equal(t, time.Monday, g[0][0].Date.Weekday())
			prev := g[0][0].Date.AddDate(0, 0, -1)
			for row := 0; row < GridRows; row++ {
				for col := 0; col < GridCols; col++ {
					cell := g[row][col]
					assert.Equal(t, prev.AddDate(0, 0, 1), cell.Date)
					prev = cell.Date
				}
			}

			// The first day of the month sits at its weekday offset in the grid.
			first := date(m.year, m.month, 1)
			offset := (int(first.Weekday()) + 6) % 7
			assert.Equal(t, first, g[0][offset].Date)
			assert.True(t, g[0][offset].InMonth)
		})
	}
}

func TestMonthGrid_LeapFebruary(t *testing.T) {
	contains := func(g Grid, d time.Time) bool {
		for row := 0; row < GridRows; row++ {
			for col := 0; col < GridCols; col++ {
				if g[row][col].Date.Equal(d) && g[row][col].InMonth {
					return true
				}
			}
		}
		return false
	}

	leap := MonthGrid(2024, time.February, time.Time{})
	assert.True(t, contains(leap, date(2024, time.February, 29)))

	nonLeap := MonthGrid(2023, time.February, time.Time{})
	assert.False(t, contains(nonLeap, date(2023, time.February, 29)))
	assert.True(t, contains(nonLeap, date(2023, time.February, 28)))
}

func TestMonthGrid_DecemberRollsIntoNextYear(t *testing.T) {
	g := MonthGrid(2024, time.December, time.Time{})

	last := g[GridRows-1][GridCols-1]
	require.Equal(t, 2025, last.Date.Year())
	assert.Equal(t, time.January, last.Date.Month())
	assert.False(t, last.InMonth)
}

func TestMonthGrid_TodayFlag(t *testing.T) {
	today := date(2024, time.March, 15)
	g := MonthGrid(2024, time.March, today)

	marked := 0
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			if g[row][col].Today {
				marked++
				assert.Equal(t, today, g[row][col].Date)
			}
		}
	}
	assert.Equal(t, 1, marked)

	// A today outside the grid marks nothing.
	g = MonthGrid(2024, time.March, date(2020, time.January, 1))
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			assert.False(t, g[row][col].Today)
		}
	}
}

func TestMonthGrid_Deterministic(t *testing.T) {
	a := MonthGrid(2024, time.July, date(2024, time.July, 4))
	b := MonthGrid(2024, time.July, date(2024, time.July, 4))
	assert.Equal(t, a, b)
}

func TestStartOfWeek(t *testing.T) {
	testCases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday stays", date(2024, time.January, 1), date(2024, time.January, 1)},
		{"sunday goes back six days", date(2024, time.January, 7), date(2024, time.January, 1)},
		{"midweek", date(2024, time.January, 4), date(2024, time.January, 1)},
		{"crosses month boundary", date(2024, time.February, 2), date(2024, time.January, 29)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StartOfWeek(tc.in))
		})
	}
}
