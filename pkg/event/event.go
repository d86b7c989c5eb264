package event

import (
	"fmt"
	"time"

	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
)

// TimeOfDay is a wall-clock start time. Events without one are all-day.
type TimeOfDay struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (t TimeOfDay) Validate() error {
	if t.Hours < 0 || t.Hours > 23 {
		return fmt.Errorf("hours must be between 0 and 23, got %d", t.Hours)
	}
	if t.Minutes < 0 || t.Minutes > 59 {
		return fmt.Errorf("minutes must be between 0 and 59, got %d", t.Minutes)
	}
	return nil
}

// minutesOfDay orders occurrences within a day.
func (t TimeOfDay) minutesOfDay() int {
	return t.Hours*60 + t.Minutes
}

// Event is a stored calendar entry. Day is the base date at midnight UTC; for
// recurring events it doubles as the recurrence anchor. Excluded lists the
// occurrence days removed individually from a series; an excluded day still
// counts toward an occurrence-count end condition.
type Event struct {
	ID          string
	CalendarID  string
	Title       string
	Description string
	Day         time.Time
	Time        *TimeOfDay
	Label       string
	Checked     bool
	Repeat      recurrence.Rule
	Excluded    []time.Time
}

func (e Event) Validate() error {
	if e.CalendarID == "" {
		return fmt.Errorf("event calendar is required")
	}
	if e.Title == "" {
		return fmt.Errorf("event title is required")
	}
	if e.Day.IsZero() {
		return fmt.Errorf("event day is required")
	}
	if e.Time != nil {
		if err := e.Time.Validate(); err != nil {
			return err
		}
	}
	if e.Repeat != nil {
		if err := e.Repeat.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsExcluded reports whether the given occurrence day was removed from the
// series.
func (e Event) IsExcluded(day time.Time) bool {
	for _, ex := range e.Excluded {
		if ex.Equal(day) {
			return true
		}
	}
	return false
}

// Occurrence is one concrete appearance of an event on a day, produced by
// Project. Recurring events yield one occurrence per expanded date; Checked
// carries over only on the base day itself.
type Occurrence struct {
	EventID     string
	CalendarID  string
	Title       string
	Description string
	Day         time.Time
	Time        *TimeOfDay
	Label       string
	Checked     bool
	Recurring   bool
}
