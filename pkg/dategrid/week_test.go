package dategrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekOf(t *testing.T) {
	// Wednesday 2024-01-31: the week spans January and February.
	week := WeekOf(date(2024, time.January, 31), time.Time{})

	assert.Equal(t, date(2024, time.January, 29), week[0].Date)
	assert.Equal(t, time.Monday, week[0].Date.Weekday())
	assert.Equal(t, date(2024, time.February, 4), week[6].Date)

	for i, day := range week {
		if i > 0 {
			assert.Equal(t, week[i-1].Date.AddDate(0, 0, 1), day.Date)
		}
	}

	// Cells from February are flagged as outside the reference month.
	assert.True(t, week[2].InMonth)   // Jan 31
	assert.False(t, week[3].InMonth)  // Feb 1
}

func TestWeekOf_Restartable(t *testing.T) {
	first := WeekOf(date(2024, time.May, 15), time.Time{})
	WeekOf(date(2030, time.December, 25), time.Time{})
	second := WeekOf(date(2024, time.May, 15), time.Time{})
	assert.Equal(t, first, second)
}

func TestWorkWeekOf(t *testing.T) {
	week := WorkWeekOf(date(2024, time.January, 6), time.Time{}) // a Saturday

	assert.Len(t, week, 5)
	assert.Equal(t, date(2024, time.January, 1), week[0].Date)
	assert.Equal(t, date(2024, time.January, 5), week[4].Date)
	assert.Equal(t, time.Monday, week[0].Date.Weekday())
	assert.Equal(t, time.Friday, week[4].Date.Weekday())
}
