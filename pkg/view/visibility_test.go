package view

import (
	"testing"
	"time"

	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/event"
	"github.com/nothowstorygoes/carlocalendar/pkg/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func visibleCalendar(id string) calendar.View {
	return calendar.View{
		Calendar: calendar.Calendar{ID: id, Name: id},
		Role:     calendar.RoleOwner,
		Visible:  true,
	}
}

func TestVisible_HiddenCalendarDropsOccurrences(t *testing.T) {
	occs := []event.Occurrence{
		{EventID: "a", CalendarID: "shown", Day: day(2024, time.March, 1)},
		{EventID: "b", CalendarID: "hidden", Day: day(2024, time.March, 1)},
	}
	hidden := visibleCalendar("hidden")
	hidden.Visible = false

	got := Visible(occs, nil, []calendar.View{visibleCalendar("shown"), hidden})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].EventID)
}

func TestVisible_UnknownCalendarDroppedQuietly(t *testing.T) {
	occs := []event.Occurrence{
		{EventID: "a", CalendarID: "revoked", Day: day(2024, time.March, 1)},
	}

	got := Visible(occs, nil, nil)
	assert.Empty(t, got)
}

func TestVisible_HiddenLabelDropsOccurrence(t *testing.T) {
	occs := []event.Occurrence{
		{EventID: "a", CalendarID: "cal", Label: "Work", Day: day(2024, time.March, 1)},
		{EventID: "b", CalendarID: "cal", Day: day(2024, time.March, 1)},
	}
	labels := []label.Label{
		{CalendarID: "cal", Name: "Work", Code: 1, Color: "#ff7043", Visible: false},
	}

	got := Visible(occs, labels, []calendar.View{visibleCalendar("cal")})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].EventID)
}

func TestVisible_ResolvesLabelColor(t *testing.T) {
	occs := []event.Occurrence{
		{EventID: "a", CalendarID: "cal", Label: "Work", Day: day(2024, time.March, 1)},
	}
	labels := []label.Label{
		{CalendarID: "cal", Name: "Work", Code: 1, Color: "#ff7043", Visible: true},
	}

	got := Visible(occs, labels, []calendar.View{visibleCalendar("cal")})
	require.Len(t, got, 1)
	assert.Equal(t, "#ff7043", got[0].LabelColor)
}

func TestVisible_DanglingLabelKeepsOccurrenceWithDefaultColor(t *testing.T) {
	occs := []event.Occurrence{
		{EventID: "a", CalendarID: "cal", Label: "Deleted", Day: day(2024, time.March, 1)},
	}

	got := Visible(occs, nil, []calendar.View{visibleCalendar("cal")})
	require.Len(t, got, 1)
	assert.Equal(t, DefaultLabelColor, got[0].LabelColor)
}

func TestVisible_LabelOnOtherCalendarDoesNotResolve(t *testing.T) {
	// Same label name on a different calendar must not lend its color.
	occs := []event.Occurrence{
		{EventID: "a", CalendarID: "cal", Label: "Work", Day: day(2024, time.March, 1)},
	}
	labels := []label.Label{
		{CalendarID: "other", Name: "Work", Code: 1, Color: "#ff7043", Visible: true},
	}

	got := Visible(occs, labels, []calendar.View{visibleCalendar("cal")})
	require.Len(t, got, 1)
	assert.Equal(t, DefaultLabelColor, got[0].LabelColor)
}
