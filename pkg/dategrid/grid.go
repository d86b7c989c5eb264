package dategrid

import (
	"time"
)

const (
	// GridRows and GridCols describe the fixed month matrix: six weeks of
	// seven days always cover a full month including the partial leading
	// and trailing weeks.
	GridRows = 6
	GridCols = 7
)

// Day is a single calendar cell. Date is always a real calendar date at
// midnight UTC, even for the dimmed cells that belong to adjacent months.
type Day struct {
	Date    time.Time
	InMonth bool
	Today   bool
}

// Grid is the 6x7 month matrix, each row a Monday-first week.
type Grid [GridRows][GridCols]Day

// DateOf normalizes t to a pure calendar date (midnight UTC).
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the Monday on or before the given date.
func StartOfWeek(date time.Time) time.Time {
	d := DateOf(date)
	// time.Weekday is Sunday-first; shift so Monday == 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// MonthGrid builds the matrix for the given month. The first row starts on
// the Monday on or before the first day of the month, so cells before the
// 1st and after the last day hold real dates from the adjacent months with
// InMonth unset. today only drives the Today flag; passing a different value
// never changes which dates appear.
func MonthGrid(year int, month time.Month, today time.Time) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	cursor := StartOfWeek(first)
	todayDate := DateOf(today)

	var g Grid
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			g[row][col] = Day{
				Date:    cursor,
				InMonth: cursor.Month() == month && cursor.Year() == year,
				Today:   cursor.Equal(todayDate),
			}
			cursor = cursor.AddDate(0, 0, 1)
		}
	}
	return g
}
