// Package recurrence expands repeat rules of calendar events into concrete
// occurrence dates. Rules are tagged variants (one type per frequency) sharing
// a common end condition, so invalid field combinations are unrepresentable.
// All dates are pure calendar dates at midnight UTC.
package recurrence

import (
	"fmt"
	"time"
)

// EndKind tags the three ways a recurring series can terminate.
type EndKind string

const (
	EndNever      EndKind = "never"
	EndOnDate     EndKind = "date"
	EndAfterCount EndKind = "occurrences"
)

// EndCondition terminates a series either never, on an inclusive last date,
// or after a fixed number of occurrences counted from the rule's start.
type EndCondition struct {
	Kind  EndKind
	Date  time.Time // inclusive, EndOnDate only
	Count int       // EndAfterCount only
}

func Never() EndCondition {
	return EndCondition{Kind: EndNever}
}

func Until(date time.Time) EndCondition {
	return EndCondition{Kind: EndOnDate, Date: dateOf(date)}
}

func Times(count int) EndCondition {
	return EndCondition{Kind: EndAfterCount, Count: count}
}

func (e EndCondition) Validate() error {
	switch e.Kind {
	case EndNever:
		return nil
	case EndOnDate:
		if e.Date.IsZero() {
			return fmt.Errorf("end condition %q requires an end date", EndOnDate)
		}
		return nil
	case EndAfterCount:
		if e.Count < 1 {
			return fmt.Errorf("end condition %q requires a count of at least 1, got %d", EndAfterCount, e.Count)
		}
		return nil
	default:
		return fmt.Errorf("unknown end condition kind %q", e.Kind)
	}
}

// reached reports whether a candidate date d, which would be occurrence
// number produced+1, lies beyond the end of the series. This is the single
// termination predicate shared by every rule kind.
func (e EndCondition) reached(produced int, d time.Time) bool {
	switch e.Kind {
	case EndAfterCount:
		return produced >= e.Count
	case EndOnDate:
		return d.After(e.Date)
	default:
		return false
	}
}

// Rule is one recurrence frequency. Occurrences returns a lazy, restartable
// iterator over the dates implied by the rule, starting at the anchor date
// (the base event's day). Callers must Validate before iterating; Expand
// does both.
type Rule interface {
	Validate() error
	End() EndCondition
	Occurrences(anchor time.Time) *Iterator
}

// Daily repeats every Interval days from the anchor.
type Daily struct {
	Interval int
	EndCond  EndCondition
}

// Weekly repeats on the given weekdays of every Interval-th week. Week
// boundaries are Monday-first and counted from the week containing the
// anchor.
type Weekly struct {
	Interval int
	Weekdays []time.Weekday
	EndCond  EndCondition
}

// Monthly repeats on the anchor's day-of-month every Interval months. When a
// target month is shorter than the anchor day, the occurrence clips to the
// month's last day instead of skipping the month.
type Monthly struct {
	Interval int
	EndCond  EndCondition
}

// MonthlyOnDay repeats on an explicit day-of-month (1-31) every Interval
// months, with the same clipping policy as Monthly.
type MonthlyOnDay struct {
	Interval int
	Day      int
	EndCond  EndCondition
}

// Yearly repeats on the anchor's month and day every Interval years. A
// February 29 anchor clips to February 28 in non-leap years.
type Yearly struct {
	Interval int
	EndCond  EndCondition
}

func (r Daily) End() EndCondition        { return r.EndCond }
func (r Weekly) End() EndCondition       { return r.EndCond }
func (r Monthly) End() EndCondition      { return r.EndCond }
func (r MonthlyOnDay) End() EndCondition { return r.EndCond }
func (r Yearly) End() EndCondition       { return r.EndCond }

func (r Daily) Validate() error {
	if r.Interval < 1 {
		return fmt.Errorf("daily rule: interval must be at least 1, got %d", r.Interval)
	}
	return r.EndCond.Validate()
}

func (r Weekly) Validate() error {
	if r.Interval < 1 {
		return fmt.Errorf("weekly rule: interval must be at least 1, got %d", r.Interval)
	}
	if len(r.Weekdays) == 0 {
		return fmt.Errorf("weekly rule: at least one weekday is required")
	}
	for _, wd := range r.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("weekly rule: invalid weekday %d", wd)
		}
	}
	return r.EndCond.Validate()
}

func (r Monthly) Validate() error {
	if r.Interval < 1 {
		return fmt.Errorf("monthly rule: interval must be at least 1, got %d", r.Interval)
	}
	return r.EndCond.Validate()
}

func (r MonthlyOnDay) Validate() error {
	if r.Interval < 1 {
		return fmt.Errorf("monthly rule: interval must be at least 1, got %d", r.Interval)
	}
	if r.Day < 1 || r.Day > 31 {
		return fmt.Errorf("monthly rule: day of month must be within 1-31, got %d", r.Day)
	}
	return r.EndCond.Validate()
}

func (r Yearly) Validate() error {
	if r.Interval < 1 {
		return fmt.Errorf("yearly rule: interval must be at least 1, got %d", r.Interval)
	}
	return r.EndCond.Validate()
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// daysIn returns the number of days in the given month; day 0 of the next
// month normalizes to its last day.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
