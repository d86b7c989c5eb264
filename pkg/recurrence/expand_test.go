package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dates(ds ...time.Time) []time.Time {
	return ds
}

func TestExpand_WeeklyTwoDays(t *testing.T) {
	// Base event on Monday 2024-01-01, repeating Mondays and Wednesdays
	// until the end of January.
	rule := Weekly{
		Interval: 1,
		Weekdays: []time.Weekday{time.Monday, time.Wednesday},
		EndCond:  Until(date(2024, time.January, 31)),
	}

	got, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.January, 31))
	require.NoError(t, err)

	want := dates(
		date(2024, time.January, 1),
		date(2024, time.January, 3),
		date(2024, time.January, 8),
		date(2024, time.January, 10),
		date(2024, time.January, 15),
		date(2024, time.January, 17),
		date(2024, time.January, 22),
		date(2024, time.January, 24),
		date(2024, time.January, 29),
		date(2024, time.January, 31),
	)
	assert.Equal(t, want, got)
}

func TestExpand_WeeklyCountPerWeek(t *testing.T) {
	// interval=1 over N full weeks emits N * |weekdays| occurrences.
	rule := Weekly{
		Interval: 1,
		Weekdays: []time.Weekday{time.Tuesday, time.Thursday, time.Saturday},
		EndCond:  Never(),
	}

	// Four full weeks starting on a Monday.
	got, err := Expand(rule, date(2024, time.April, 1), date(2024, time.April, 1), date(2024, time.April, 28))
	require.NoError(t, err)
	assert.Len(t, got, 4*3)

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].After(got[i-1]), "occurrences must be strictly ascending")
	}
}

func TestExpand_WeeklyInterval2(t *testing.T) {
	rule := Weekly{
		Interval: 2,
		Weekdays: []time.Weekday{time.Monday},
		EndCond:  Never(),
	}

	got, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.February, 29))
	require.NoError(t, err)

	want := dates(
		date(2024, time.January, 1),
		date(2024, time.January, 15),
		date(2024, time.January, 29),
		date(2024, time.February, 12),
		date(2024, time.February, 26),
	)
	assert.Equal(t, want, got)
}

func TestExpand_WeeklyAnchorMidweek(t *testing.T) {
	// Anchor on a Thursday with Monday in the set: the already-passed Monday
	// of the first week is not part of the series.
	rule := Weekly{
		Interval: 1,
		Weekdays: []time.Weekday{time.Monday, time.Thursday},
		EndCond:  Never(),
	}

	got, err := Expand(rule, date(2024, time.January, 4), date(2024, time.January, 1), date(2024, time.January, 14))
	require.NoError(t, err)

	want := dates(
		date(2024, time.January, 4),
		date(2024, time.January, 8),
		date(2024, time.January, 11),
	)
	assert.Equal(t, want, got)
}

func TestExpand_MonthlyClipsTo31st(t *testing.T) {
	rule := Monthly{Interval: 1, EndCond: Never()}

	got, err := Expand(rule, date(2024, time.January, 31), date(2024, time.January, 1), date(2024, time.April, 30))
	require.NoError(t, err)

	want := dates(
		date(2024, time.January, 31),
		date(2024, time.February, 29), // leap year
		date(2024, time.March, 31),
		date(2024, time.April, 30),
	)
	assert.Equal(t, want, got)
}

func TestExpand_MonthlyClipsInNonLeapYear(t *testing.T) {
	rule := Monthly{Interval: 1, EndCond: Never()}

	got, err := Expand(rule, date(2023, time.January, 31), date(2023, time.February, 1), date(2023, time.February, 28))
	require.NoError(t, err)
	assert.Equal(t, dates(date(2023, time.February, 28)), got)
}

func TestExpand_MonthlyOnDayInterval(t *testing.T) {
	// Fixed 15th every 2 months from a March anchor.
	rule := MonthlyOnDay{Interval: 2, Day: 15, EndCond: Never()}

	got, err := Expand(rule, date(2024, time.March, 1), date(2024, time.March, 1), date(2024, time.September, 30))
	require.NoError(t, err)

	want := dates(
		date(2024, time.March, 15),
		date(2024, time.May, 15),
		date(2024, time.July, 15),
		date(2024, time.September, 15),
	)
	assert.Equal(t, want, got)
}

func TestExpand_MonthlyOnDayBeforeAnchorSkipsFirstMonth(t *testing.T) {
	// Anchor on the 20th with a fixed day 10: the 10th of the anchor month
	// already passed, so the series starts the following month.
	rule := MonthlyOnDay{Interval: 1, Day: 10, EndCond: Never()}

	got, err := Expand(rule, date(2024, time.March, 20), date(2024, time.March, 1), date(2024, time.May, 31))
	require.NoError(t, err)

	want := dates(
		date(2024, time.April, 10),
		date(2024, time.May, 10),
	)
	assert.Equal(t, want, got)
}

func TestExpand_YearlyLeapAnchor(t *testing.T) {
	rule := Yearly{Interval: 1, EndCond: Never()}

	got, err := Expand(rule, date(2024, time.February, 29), date(2024, time.January, 1), date(2027, time.December, 31))
	require.NoError(t, err)

	want := dates(
		date(2024, time.February, 29),
		date(2025, time.February, 28),
		date(2026, time.February, 28),
		date(2027, time.February, 28),
	)
	assert.Equal(t, want, got)
}

func TestExpand_YearlyInterval(t *testing.T) {
	rule := Yearly{Interval: 3, EndCond: Never()}

	got, err := Expand(rule, date(2020, time.June, 10), date(2020, time.January, 1), date(2030, time.December, 31))
	require.NoError(t, err)

	want := dates(
		date(2020, time.June, 10),
		date(2023, time.June, 10),
		date(2026, time.June, 10),
		date(2029, time.June, 10),
	)
	assert.Equal(t, want, got)
}

func TestExpand_DailyInterval(t *testing.T) {
	rule := Daily{Interval: 3, EndCond: Never()}

	got, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.January, 10))
	require.NoError(t, err)

	want := dates(
		date(2024, time.January, 1),
		date(2024, time.January, 4),
		date(2024, time.January, 7),
		date(2024, time.January, 10),
	)
	assert.Equal(t, want, got)
}

func TestExpand_CountNeverEmitsExtraOccurrence(t *testing.T) {
	rule := Weekly{
		Interval: 1,
		Weekdays: []time.Weekday{time.Monday},
		EndCond:  Times(5),
	}

	// Effectively unbounded window.
	got, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2050, time.December, 31))
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, date(2024, time.January, 29), got[4])
}

func TestExpand_CountConsumedOutsideWindow(t *testing.T) {
	// Five Mondays from Jan 1; querying February alone must yield only the
	// fifth occurrence, because the first four already consumed the count
	// even though they fall before the window.
	rule := Daily{Interval: 7, EndCond: Times(5)}

	got, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 29), date(2024, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, dates(date(2024, time.January, 29)), got)
}

func TestExpand_EndDateStopsSeries(t *testing.T) {
	rule := Daily{Interval: 1, EndCond: Until(date(2024, time.January, 5))}

	got, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.December, 31))
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, date(2024, time.January, 5), got[4])
}

func TestExpand_WindowBeforeAnchor(t *testing.T) {
	rule := Daily{Interval: 1, EndCond: Never()}

	got, err := Expand(rule, date(2024, time.June, 1), date(2024, time.January, 1), date(2024, time.January, 31))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpand_InvalidWindow(t *testing.T) {
	rule := Daily{Interval: 1, EndCond: Never()}

	_, err := Expand(rule, date(2024, time.January, 1), date(2024, time.February, 1), date(2024, time.January, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid window")
}

func TestExpand_InvalidRules(t *testing.T) {
	testCases := []struct {
		name string
		rule Rule
	}{
		{"zero interval", Daily{Interval: 0, EndCond: Never()}},
		{"negative interval", Monthly{Interval: -2, EndCond: Never()}},
		{"weekly without weekdays", Weekly{Interval: 1, EndCond: Never()}},
		{"day of month out of range", MonthlyOnDay{Interval: 1, Day: 32, EndCond: Never()}},
		{"day of month zero", MonthlyOnDay{Interval: 1, Day: 0, EndCond: Never()}},
		{"count below one", Daily{Interval: 1, EndCond: Times(0)}},
		{"unknown end kind", Daily{Interval: 1, EndCond: EndCondition{Kind: "sometimes"}}},
		{"date end without date", Daily{Interval: 1, EndCond: EndCondition{Kind: EndOnDate}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Expand(tc.rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.December, 31))
			assert.Error(t, err)
		})
	}
}

func TestExpand_Idempotent(t *testing.T) {
	rule := Weekly{
		Interval: 2,
		Weekdays: []time.Weekday{time.Friday, time.Monday},
		EndCond:  Times(20),
	}

	first, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.December, 31))
	require.NoError(t, err)
	second, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIterator_Restartable(t *testing.T) {
	rule := Monthly{Interval: 1, EndCond: Never()}
	anchor := date(2024, time.January, 15)

	it := rule.Occurrences(anchor)
	first, ok := it.Next()
	require.True(t, ok)

	// A fresh iterator starts over at the anchor.
	it2 := rule.Occurrences(anchor)
	again, ok := it2.Next()
	require.True(t, ok)
	assert.Equal(t, first, again)
	assert.Equal(t, anchor, again)
}

func TestWeekly_DuplicateWeekdaysDeduplicated(t *testing.T) {
	rule := Weekly{
		Interval: 1,
		Weekdays: []time.Weekday{time.Monday, time.Monday},
		EndCond:  Never(),
	}

	got, err := Expand(rule, date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.January, 14))
	require.NoError(t, err)
	assert.Equal(t, dates(
		date(2024, time.January, 1),
		date(2024, time.January, 8),
	), got)
}
