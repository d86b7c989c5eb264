package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRule_Weekly(t *testing.T) {
	raw := `{"repeatType":"weekly","interval":1,"daysOfWeek":[0,2],"endCondition":{"kind":"date","endDate":"2024-01-31"}}`

	rule, err := DecodeRule([]byte(raw))
	require.NoError(t, err)

	weekly, ok := rule.(Weekly)
	require.True(t, ok)
	assert.Equal(t, 1, weekly.Interval)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, weekly.Weekdays)
	assert.Equal(t, EndOnDate, weekly.EndCond.Kind)
	assert.Equal(t, date(2024, time.January, 31), weekly.EndCond.Date)
}

func TestDecodeRule_CustomVariants(t *testing.T) {
	t.Run("custom with weekday set is weekly", func(t *testing.T) {
		raw := `{"repeatType":"custom","interval":2,"daysOfWeek":[6],"endCondition":{"kind":"never"}}`
		rule, err := DecodeRule([]byte(raw))
		require.NoError(t, err)

		weekly, ok := rule.(Weekly)
		require.True(t, ok)
		assert.Equal(t, []time.Weekday{time.Sunday}, weekly.Weekdays)
	})

	t.Run("custom with day of month is monthly", func(t *testing.T) {
		raw := `{"repeatType":"custom","interval":3,"dayOfMonth":31,"endCondition":{"kind":"occurrences","count":10}}`
		rule, err := DecodeRule([]byte(raw))
		require.NoError(t, err)

		monthly, ok := rule.(MonthlyOnDay)
		require.True(t, ok)
		assert.Equal(t, 31, monthly.Day)
		assert.Equal(t, 10, monthly.EndCond.Count)
	})
}

func TestDecodeRule_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"unknown repeat type", `{"repeatType":"fortnightly","interval":1,"endCondition":{"kind":"never"}}`},
		{"unknown end kind", `{"repeatType":"daily","interval":1,"endCondition":{"kind":"eventually"}}`},
		{"weekday index out of range", `{"repeatType":"weekly","interval":1,"daysOfWeek":[7],"endCondition":{"kind":"never"}}`},
		{"zero interval", `{"repeatType":"daily","interval":0,"endCondition":{"kind":"never"}}`},
		{"malformed end date", `{"repeatType":"daily","interval":1,"endCondition":{"kind":"date","endDate":"31/01/2024"}}`},
		{"not json", `repeat weekly please`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRule([]byte(tc.raw))
			assert.Error(t, err)
		})
	}
}

func TestEncodeDecodeRule_RoundTrip(t *testing.T) {
	rules := []Rule{
		Daily{Interval: 2, EndCond: Never()},
		Weekly{Interval: 1, Weekdays: []time.Weekday{time.Monday, time.Friday}, EndCond: Times(12)},
		Monthly{Interval: 6, EndCond: Until(date(2030, time.December, 31))},
		MonthlyOnDay{Interval: 1, Day: 28, EndCond: Never()},
		Yearly{Interval: 1, EndCond: Times(3)},
	}
	for _, rule := range rules {
		data, err := EncodeRule(rule)
		require.NoError(t, err)

		decoded, err := DecodeRule(data)
		require.NoError(t, err)
		assert.Equal(t, rule, decoded)
	}
}

func TestEncodeRule_RejectsInvalid(t *testing.T) {
	_, err := EncodeRule(Weekly{Interval: 1, EndCond: Never()})
	assert.Error(t, err)

	_, err = EncodeRule(nil)
	assert.Error(t, err)
}
