package view

import (
	"context"
	"time"

	"github.com/nothowstorygoes/carlocalendar/internal/utils"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/dategrid"
	"github.com/nothowstorygoes/carlocalendar/pkg/event"
	"github.com/nothowstorygoes/carlocalendar/pkg/label"
)

// DayView is one grid cell: the date plus the visible occurrences on it.
type DayView struct {
	dategrid.Day
	Occurrences []Occurrence
}

type MonthView struct {
	Year  int
	Month time.Month
	Grid  [dategrid.GridRows][dategrid.GridCols]DayView
}

type YearView struct {
	Year   int
	Months [12]MonthView
}

// Service assembles display views: it loads the user's calendars, labels,
// and expanded occurrences, filters them through Visible, and distributes
// them over the date grids. Beyond the load everything is pure.
type Service struct {
	events    *event.Service
	labels    *label.Service
	calendars *calendar.Service
	clock     utils.Clock
}

func NewService(events *event.Service, labels *label.Service, calendars *calendar.Service, clock utils.Clock) *Service {
	return &Service{events: events, labels: labels, calendars: calendars, clock: clock}
}

// Month returns the 6x7 grid for the given month with per-cell occurrences.
// The window covers the full grid, so leading and trailing days of adjacent
// months carry their occurrences too.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (MonthView, error) {
	grid := dategrid.MonthGrid(year, month, s.clock.Now())
	from := grid[0][0].Date
	to := grid[dategrid.GridRows-1][dategrid.GridCols-1].Date

	occurrences, err := s.loadVisible(ctx, from, to)
	if err != nil {
		return MonthView{}, err
	}
	return monthView(year, month, grid, groupByDay(occurrences)), nil
}

// Week returns Monday through Sunday of the week containing date.
func (s *Service) Week(ctx context.Context, date time.Time) ([7]DayView, error) {
	week := dategrid.WeekOf(date, s.clock.Now())
	occurrences, err := s.loadVisible(ctx, week[0].Date, week[6].Date)
	if err != nil {
		return [7]DayView{}, err
	}

	byDay := groupByDay(occurrences)
	var out [7]DayView
	for i, d := range week {
		out[i] = DayView{Day: d, Occurrences: byDay[d.Date]}
	}
	return out, nil
}

// WorkWeek returns Monday through Friday of the week containing date.
func (s *Service) WorkWeek(ctx context.Context, date time.Time) ([5]DayView, error) {
	week := dategrid.WorkWeekOf(date, s.clock.Now())
	occurrences, err := s.loadVisible(ctx, week[0].Date, week[4].Date)
	if err != nil {
		return [5]DayView{}, err
	}

	byDay := groupByDay(occurrences)
	var out [5]DayView
	for i, d := range week {
		out[i] = DayView{Day: d, Occurrences: byDay[d.Date]}
	}
	return out, nil
}

// Day returns a single date's ordered occurrences.
func (s *Service) Day(ctx context.Context, date time.Time) (DayView, error) {
	date = dategrid.DateOf(date)
	occurrences, err := s.loadVisible(ctx, date, date)
	if err != nil {
		return DayView{}, err
	}

	today := dategrid.DateOf(s.clock.Now())
	return DayView{
		Day:         dategrid.Day{Date: date, InMonth: true, Today: date.Equal(today)},
		Occurrences: occurrences,
	}, nil
}

// Year returns twelve month grids. The load spans the widest window any of
// the grids shows, one query instead of twelve.
func (s *Service) Year(ctx context.Context, year int) (YearView, error) {
	grids := [12]dategrid.Grid{}
	now := s.clock.Now()
	for m := time.January; m <= time.December; m++ {
		grids[m-1] = dategrid.MonthGrid(year, m, now)
	}

	from := grids[0][0][0].Date
	to := grids[11][dategrid.GridRows-1][dategrid.GridCols-1].Date
	occurrences, err := s.loadVisible(ctx, from, to)
	if err != nil {
		return YearView{}, err
	}

	byDay := groupByDay(occurrences)
	out := YearView{Year: year}
	for m := time.January; m <= time.December; m++ {
		out.Months[m-1] = monthView(year, m, grids[m-1], byDay)
	}
	return out, nil
}

// loadVisible snapshots the user's calendars and labels, expands the events
// over the window, and applies the visibility filter.
func (s *Service) loadVisible(ctx context.Context, from, to time.Time) ([]Occurrence, error) {
	calendars, err := s.calendars.List(ctx)
	if err != nil {
		return nil, err
	}

	calendarIds := make([]string, 0, len(calendars))
	labels := make([]label.Label, 0, 16)
	for _, cal := range calendars {
		calendarIds = append(calendarIds, cal.ID)
		calLabels, err := s.labels.List(ctx, cal.ID)
		if err != nil {
			return nil, err
		}
		labels = append(labels, calLabels...)
	}

	occurrences, err := s.events.Occurrences(ctx, calendarIds, from, to)
	if err != nil {
		return nil, err
	}
	return Visible(occurrences, labels, calendars), nil
}

func groupByDay(occurrences []Occurrence) map[time.Time][]Occurrence {
	byDay := make(map[time.Time][]Occurrence)
	for _, occ := range occurrences {
		byDay[occ.Day] = append(byDay[occ.Day], occ)
	}
	return byDay
}

func monthView(year int, month time.Month, grid dategrid.Grid, byDay map[time.Time][]Occurrence) MonthView {
	mv := MonthView{Year: year, Month: month}
	for row := 0; row < dategrid.GridRows; row++ {
		for col := 0; col < dategrid.GridCols; col++ {
			cell := grid[row][col]
			mv.Grid[row][col] = DayView{Day: cell, Occurrences: byDay[cell.Date]}
		}
	}
	return mv
}
