package event

import (
	"fmt"
	"sort"
	"time"

	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
)

// Project expands the given events into the occurrences falling inside the
// inclusive day window [from, to]. One-off events contribute their base day
// when it lies in the window; recurring events contribute every expanded date
// minus the exclusions. The result is ordered by day, then start time with
// all-day occurrences first, then event id for a stable total order.
//
// Project is pure: it reads nothing but its arguments and is safe to call
// concurrently. A window whose end precedes its start is an error, never an
// empty result.
func Project(events []Event, from, to time.Time) ([]Occurrence, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid window: end %s is before start %s",
			to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	occurrences := make([]Occurrence, 0, len(events))

	for _, e := range events {
		if e.Repeat == nil {
			if e.Day.Before(from) || e.Day.After(to) {
				continue
			}
			occurrences = append(occurrences, occurrenceOn(e, e.Day))
			continue
		}

		days, err := recurrence.Expand(e.Repeat, e.Day, from, to)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
		for _, day := range days {
			if e.IsExcluded(day) {
				continue
			}
			occurrences = append(occurrences, occurrenceOn(e, day))
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.Day.Equal(b.Day) {
			return a.Day.Before(b.Day)
		}
		if am, bm := startMinutes(a), startMinutes(b); am != bm {
			return am < bm
		}
		return a.EventID < b.EventID
	})
	return occurrences, nil
}

// occurrenceOn materializes the event on one day. The checkmark is a property
// of the stored entry, not of the series, so it shows only on the base day.
func occurrenceOn(e Event, day time.Time) Occurrence {
	return Occurrence{
		EventID:     e.ID,
		CalendarID:  e.CalendarID,
		Title:       e.Title,
		Description: e.Description,
		Day:         day,
		Time:        e.Time,
		Label:       e.Label,
		Checked:     e.Checked && day.Equal(e.Day),
		Recurring:   e.Repeat != nil,
	}
}

// startMinutes sorts all-day occurrences ahead of timed ones.
func startMinutes(o Occurrence) int {
	if o.Time == nil {
		return -1
	}
	return o.Time.minutesOfDay()
}
