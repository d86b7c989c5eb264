package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/event"
	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
	"github.com/teambition/rrule-go"
)

// BuildICS renders a calendar and its events as an iCalendar document.
// Recurring events carry an RRULE plus EXDATE lines for the excluded days.
//
// Interop note: RRULE has no clip-to-last-day semantics, so a monthly rule
// anchored past a short month's length skips that month in consumers that
// follow RFC 5545 strictly. The export is best effort there.
func BuildICS(cal calendar.Calendar, events []event.Event) (string, error) {
	doc := ical.NewCalendar()
	doc.SetMethod(ical.MethodPublish)
	doc.SetProductId("-//CarloCalendar//EN")
	doc.SetXWRCalName(cal.Name)

	for _, e := range events {
		ve := doc.AddEvent(e.ID + "@carlocalendar")
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Label != "" {
			ve.AddProperty(ical.ComponentProperty(ical.PropertyCategories), e.Label)
		}

		if e.Time != nil {
			start := time.Date(e.Day.Year(), e.Day.Month(), e.Day.Day(),
				e.Time.Hours, e.Time.Minutes, 0, 0, time.UTC)
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(time.Hour))
		} else {
			ve.SetAllDayStartAt(e.Day)
			ve.SetAllDayEndAt(e.Day.AddDate(0, 0, 1))
		}

		if e.Repeat != nil {
			rule, err := toRRule(e.Repeat, e.Day)
			if err != nil {
				return "", fmt.Errorf("event %s: %w", e.ID, err)
			}
			ve.AddRrule(rule)
		}
		for _, ex := range e.Excluded {
			ve.AddProperty(ical.ComponentProperty(ical.PropertyExdate),
				ex.Format("20060102T000000Z"))
		}
	}
	return doc.Serialize(), nil
}

// toRRule translates a recurrence rule into RFC 5545 RRULE text.
func toRRule(r recurrence.Rule, anchor time.Time) (string, error) {
	opt := rrule.ROption{Dtstart: anchor}

	switch rule := r.(type) {
	case recurrence.Daily:
		opt.Freq = rrule.DAILY
		opt.Interval = rule.Interval
	case recurrence.Weekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = rule.Interval
		for _, wd := range rule.Weekdays {
			opt.Byweekday = append(opt.Byweekday, toRRuleWeekday(wd))
		}
	case recurrence.Monthly:
		opt.Freq = rrule.MONTHLY
		opt.Interval = rule.Interval
		opt.Bymonthday = []int{anchor.Day()}
	case recurrence.MonthlyOnDay:
		opt.Freq = rrule.MONTHLY
		opt.Interval = rule.Interval
		opt.Bymonthday = []int{rule.Day}
	case recurrence.Yearly:
		opt.Freq = rrule.YEARLY
		opt.Interval = rule.Interval
	default:
		return "", fmt.Errorf("unsupported rule type %T", r)
	}

	switch end := r.End(); end.Kind {
	case recurrence.EndOnDate:
		// End of the inclusive last day.
		opt.Until = end.Date.AddDate(0, 0, 1).Add(-time.Second)
	case recurrence.EndAfterCount:
		opt.Count = end.Count
	}

	rr, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("could not build RRULE: %w", err)
	}
	// RRuleString leaves DTSTART out; the VEVENT carries it separately.
	return rr.OrigOptions.RRuleString(), nil
}

func toRRuleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
