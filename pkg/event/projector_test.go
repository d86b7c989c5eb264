package event

import (
	"testing"
	"time"

	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProject_OneOffInsideWindow(t *testing.T) {
	events := []Event{
		{ID: "a", CalendarID: "cal", Title: "Dentist", Day: day(2024, time.March, 14)},
		{ID: "b", CalendarID: "cal", Title: "Outside", Day: day(2024, time.April, 2)},
	}

	occs, err := Project(events, day(2024, time.March, 1), day(2024, time.March, 31))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "a", occs[0].EventID)
	assert.Equal(t, day(2024, time.March, 14), occs[0].Day)
	assert.False(t, occs[0].Recurring)
}

func TestProject_RecurringExpansion(t *testing.T) {
	events := []Event{{
		ID: "standup", CalendarID: "cal", Title: "Standup",
		Day: day(2024, time.January, 1),
		Repeat: recurrence.Weekly{
			Interval: 1,
			Weekdays: []time.Weekday{time.Monday, time.Wednesday},
			EndCond:  recurrence.Never(),
		},
	}}

	occs, err := Project(events, day(2024, time.January, 1), day(2024, time.January, 14))
	require.NoError(t, err)
	require.Len(t, occs, 4)
	assert.Equal(t, day(2024, time.January, 1), occs[0].Day)
	assert.Equal(t, day(2024, time.January, 3), occs[1].Day)
	assert.Equal(t, day(2024, time.January, 8), occs[2].Day)
	assert.Equal(t, day(2024, time.January, 10), occs[3].Day)
	for _, o := range occs {
		assert.True(t, o.Recurring)
	}
}

func TestProject_SkipsExcludedDays(t *testing.T) {
	events := []Event{{
		ID: "daily", CalendarID: "cal", Title: "Workout",
		Day:      day(2024, time.January, 1),
		Repeat:   recurrence.Daily{Interval: 1, EndCond: recurrence.Never()},
		Excluded: []time.Time{day(2024, time.January, 2)},
	}}

	occs, err := Project(events, day(2024, time.January, 1), day(2024, time.January, 3))
	require.NoError(t, err)
	require.Len(t, occs, 2)
	assert.Equal(t, day(2024, time.January, 1), occs[0].Day)
	assert.Equal(t, day(2024, time.January, 3), occs[1].Day)
}

func TestProject_CheckedOnlyOnBaseDay(t *testing.T) {
	events := []Event{{
		ID: "daily", CalendarID: "cal", Title: "Workout",
		Day:     day(2024, time.January, 1),
		Checked: true,
		Repeat:  recurrence.Daily{Interval: 1, EndCond: recurrence.Never()},
	}}

	occs, err := Project(events, day(2024, time.January, 1), day(2024, time.January, 3))
	require.NoError(t, err)
	require.Len(t, occs, 3)
	assert.True(t, occs[0].Checked)
	assert.False(t, occs[1].Checked)
	assert.False(t, occs[2].Checked)
}

func TestProject_Ordering(t *testing.T) {
	d := day(2024, time.June, 10)
	events := []Event{
		{ID: "b-timed", CalendarID: "cal", Title: "Lunch", Day: d, Time: &TimeOfDay{Hours: 12}},
		{ID: "c-early", CalendarID: "cal", Title: "Standup", Day: d, Time: &TimeOfDay{Hours: 9, Minutes: 30}},
		{ID: "a-allday", CalendarID: "cal", Title: "Holiday", Day: d},
		{ID: "z-allday", CalendarID: "cal", Title: "Birthday", Day: d},
		{ID: "earlier-day", CalendarID: "cal", Title: "Prep", Day: day(2024, time.June, 9), Time: &TimeOfDay{Hours: 23}},
	}

	occs, err := Project(events, day(2024, time.June, 1), day(2024, time.June, 30))
	require.NoError(t, err)
	require.Len(t, occs, 5)

	got := make([]string, len(occs))
	for i, o := range occs {
		got[i] = o.EventID
	}
	// Earlier day first, then all-day entries by id, then timed by start.
	assert.Equal(t, []string{"earlier-day", "a-allday", "z-allday", "c-early", "b-timed"}, got)
}

func TestProject_Deterministic(t *testing.T) {
	events := []Event{
		{ID: "a", CalendarID: "cal", Title: "One", Day: day(2024, time.May, 2)},
		{
			ID: "b", CalendarID: "cal", Title: "Two",
			Day:    day(2024, time.May, 1),
			Repeat: recurrence.Daily{Interval: 3, EndCond: recurrence.Times(4)},
		},
	}

	first, err := Project(events, day(2024, time.May, 1), day(2024, time.May, 31))
	require.NoError(t, err)
	second, err := Project(events, day(2024, time.May, 1), day(2024, time.May, 31))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProject_InvalidRuleSurfacesError(t *testing.T) {
	events := []Event{{
		ID: "bad", CalendarID: "cal", Title: "Broken",
		Day:    day(2024, time.May, 1),
		Repeat: recurrence.Daily{Interval: 0, EndCond: recurrence.Never()},
	}}

	_, err := Project(events, day(2024, time.May, 1), day(2024, time.May, 31))
	assert.Error(t, err)
}

func TestProject_RejectsReversedWindow(t *testing.T) {
	// One-off events only: the window check must not depend on a recurring
	// event being present to trip the expander.
	events := []Event{
		{ID: "a", CalendarID: "cal", Title: "Dentist", Day: day(2024, time.January, 15)},
	}

	occs, err := Project(events, day(2024, time.February, 1), day(2024, time.January, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid window")
	assert.Nil(t, occs)
}
