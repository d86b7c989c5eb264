package view

import (
	"context"
	"testing"
	"time"

	"github.com/nothowstorygoes/carlocalendar/internal/event_bus"
	"github.com/nothowstorygoes/carlocalendar/internal/utils"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/event"
	"github.com/nothowstorygoes/carlocalendar/pkg/label"
	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	views     *Service
	events    *event.Service
	labels    *label.Service
	calendars *calendar.Service
	clock     *utils.FixedClock
	calID     string
}

func ownerCtx() context.Context {
	return user.WithUser(context.Background(), user.User{Uid: "alice", Email: "alice@example.com"})
}

func setup(t *testing.T) fixture {
	bus := event_bus.NewEventBus()
	calendars := calendar.NewService(calendar.NewRepositoryStub())
	labels := label.NewService(label.NewRepositoryStub(), calendars, bus)
	events := event.NewService(event.NewRepositoryStub(), calendars, bus)
	clock := &utils.FixedClock{FixedNow: time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)}

	cal, err := calendars.Create(ownerCtx(), calendar.Calendar{Name: "Personal"})
	require.NoError(t, err)

	return fixture{
		views:     NewService(events, labels, calendars, clock),
		events:    events,
		labels:    labels,
		calendars: calendars,
		clock:     clock,
		calID:     cal.ID,
	}
}

func TestService_MonthPlacesOccurrencesInCells(t *testing.T) {
	f := setup(t)
	_, err := f.events.Create(ownerCtx(), event.Event{
		CalendarID: f.calID, Title: "Dentist", Day: day(2024, time.March, 14),
	})
	require.NoError(t, err)

	mv, err := f.views.Month(ownerCtx(), 2024, time.March)
	require.NoError(t, err)

	var found *DayView
	for row := range mv.Grid {
		for col := range mv.Grid[row] {
			if mv.Grid[row][col].Date.Equal(day(2024, time.March, 14)) {
				found = &mv.Grid[row][col]
			}
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Occurrences, 1)
	assert.Equal(t, "Dentist", found.Occurrences[0].Title)
}

func TestService_MonthIncludesAdjacentMonthOccurrences(t *testing.T) {
	f := setup(t)
	// March 2024 starts on a Friday, so the grid's first cell is
	// Monday February 26.
	_, err := f.events.Create(ownerCtx(), event.Event{
		CalendarID: f.calID, Title: "Spillover", Day: day(2024, time.February, 26),
	})
	require.NoError(t, err)

	mv, err := f.views.Month(ownerCtx(), 2024, time.March)
	require.NoError(t, err)

	first := mv.Grid[0][0]
	assert.Equal(t, day(2024, time.February, 26), first.Date)
	assert.False(t, first.InMonth)
	require.Len(t, first.Occurrences, 1)
	assert.Equal(t, "Spillover", first.Occurrences[0].Title)
}

func TestService_MonthMarksToday(t *testing.T) {
	f := setup(t)

	mv, err := f.views.Month(ownerCtx(), 2024, time.March)
	require.NoError(t, err)

	todays := 0
	for row := range mv.Grid {
		for col := range mv.Grid[row] {
			if mv.Grid[row][col].Today {
				todays++
				assert.Equal(t, day(2024, time.March, 15), mv.Grid[row][col].Date)
			}
		}
	}
	assert.Equal(t, 1, todays)
}

func TestService_WeekOrdersDays(t *testing.T) {
	f := setup(t)
	_, err := f.events.Create(ownerCtx(), event.Event{
		CalendarID: f.calID, Title: "Standup", Day: day(2024, time.March, 11),
		Repeat: recurrence.Daily{Interval: 1, EndCond: recurrence.Times(3)},
	})
	require.NoError(t, err)

	week, err := f.views.Week(ownerCtx(), day(2024, time.March, 13))
	require.NoError(t, err)

	assert.Equal(t, day(2024, time.March, 11), week[0].Date)
	assert.Equal(t, day(2024, time.March, 17), week[6].Date)
	assert.Len(t, week[0].Occurrences, 1)
	assert.Len(t, week[1].Occurrences, 1)
	assert.Len(t, week[2].Occurrences, 1)
	assert.Empty(t, week[3].Occurrences)
}

func TestService_WorkWeekSkipsWeekend(t *testing.T) {
	f := setup(t)

	week, err := f.views.WorkWeek(ownerCtx(), day(2024, time.March, 13))
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 11), week[0].Date)
	assert.Equal(t, day(2024, time.March, 15), week[4].Date)
}

func TestService_DayReturnsFilteredOccurrences(t *testing.T) {
	f := setup(t)
	created, err := f.labels.Create(ownerCtx(), label.Label{
		CalendarID: f.calID, Name: "Hidden", Code: 2, Color: "#111111", Visible: false,
	})
	require.NoError(t, err)
	_, err = f.events.Create(ownerCtx(), event.Event{
		CalendarID: f.calID, Title: "Secret", Day: day(2024, time.March, 15), Label: created.Name,
	})
	require.NoError(t, err)
	_, err = f.events.Create(ownerCtx(), event.Event{
		CalendarID: f.calID, Title: "Plain", Day: day(2024, time.March, 15),
	})
	require.NoError(t, err)

	dv, err := f.views.Day(ownerCtx(), day(2024, time.March, 15))
	require.NoError(t, err)
	assert.True(t, dv.Today)
	require.Len(t, dv.Occurrences, 1)
	assert.Equal(t, "Plain", dv.Occurrences[0].Title)
}

func TestService_YearCollectsAllMonths(t *testing.T) {
	f := setup(t)
	_, err := f.events.Create(ownerCtx(), event.Event{
		CalendarID: f.calID, Title: "Monthly", Day: day(2024, time.January, 31),
		Repeat: recurrence.Monthly{Interval: 1, EndCond: recurrence.Never()},
	})
	require.NoError(t, err)

	yv, err := f.views.Year(ownerCtx(), 2024)
	require.NoError(t, err)
	require.Len(t, yv.Months, 12)
	assert.Equal(t, time.January, yv.Months[0].Month)
	assert.Equal(t, time.December, yv.Months[11].Month)

	// The clipped February occurrence lands on the 29th in 2024.
	var feb29 *DayView
	for row := range yv.Months[1].Grid {
		for col := range yv.Months[1].Grid[row] {
			if yv.Months[1].Grid[row][col].Date.Equal(day(2024, time.February, 29)) {
				feb29 = &yv.Months[1].Grid[row][col]
			}
		}
	}
	require.NotNil(t, feb29)
	assert.Len(t, feb29.Occurrences, 1)
}
