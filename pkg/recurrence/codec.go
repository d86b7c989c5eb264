package recurrence

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire format shared by the HTTP API and the repeat_rule storage column. It
// mirrors the shape the original web client persisted: repeatType selects the
// frequency, daysOfWeek uses Monday-first indices (0=Monday..6=Sunday), and
// "custom" covers both the weekday-set and fixed day-of-month variants.
type ruleJSON struct {
	RepeatType string  `json:"repeatType"`
	Interval   int     `json:"interval"`
	DaysOfWeek []int   `json:"daysOfWeek,omitempty"`
	DayOfMonth int     `json:"dayOfMonth,omitempty"`
	End        endJSON `json:"endCondition"`
}

type endJSON struct {
	Kind    string `json:"kind"`
	EndDate string `json:"endDate,omitempty"`
	Count   int    `json:"count,omitempty"`
}

const (
	typeDaily   = "daily"
	typeWeekly  = "weekly"
	typeMonthly = "monthly"
	typeCustom  = "custom"
	typeYearly  = "yearly"
)

// EncodeRule serializes a validated rule into its wire form.
func EncodeRule(r Rule) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("recurrence rule is nil")
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recurrence rule: %w", err)
	}

	var rj ruleJSON
	switch rule := r.(type) {
	case Daily:
		rj = ruleJSON{RepeatType: typeDaily, Interval: rule.Interval}
	case Weekly:
		days := make([]int, 0, len(rule.Weekdays))
		for _, wd := range rule.Weekdays {
			days = append(days, (int(wd)+6)%7)
		}
		rj = ruleJSON{RepeatType: typeWeekly, Interval: rule.Interval, DaysOfWeek: days}
	case Monthly:
		rj = ruleJSON{RepeatType: typeMonthly, Interval: rule.Interval}
	case MonthlyOnDay:
		rj = ruleJSON{RepeatType: typeCustom, Interval: rule.Interval, DayOfMonth: rule.Day}
	case Yearly:
		rj = ruleJSON{RepeatType: typeYearly, Interval: rule.Interval}
	default:
		return nil, fmt.Errorf("unknown rule type %T", r)
	}
	rj.End = encodeEnd(r.End())

	return json.Marshal(rj)
}

// DecodeRule parses the wire form back into a validated rule.
func DecodeRule(data []byte) (Rule, error) {
	var rj ruleJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return nil, fmt.Errorf("failed to parse recurrence rule: %w", err)
	}

	end, err := decodeEnd(rj.End)
	if err != nil {
		return nil, err
	}

	var rule Rule
	switch rj.RepeatType {
	case typeDaily:
		rule = Daily{Interval: rj.Interval, EndCond: end}
	case typeWeekly:
		weekdays, err := decodeWeekdays(rj.DaysOfWeek)
		if err != nil {
			return nil, err
		}
		rule = Weekly{Interval: rj.Interval, Weekdays: weekdays, EndCond: end}
	case typeMonthly:
		rule = Monthly{Interval: rj.Interval, EndCond: end}
	case typeCustom:
		// The original client used "custom" for both weekly-by-weekday-set
		// and monthly-by-fixed-day; the populated field decides.
		if len(rj.DaysOfWeek) > 0 {
			weekdays, err := decodeWeekdays(rj.DaysOfWeek)
			if err != nil {
				return nil, err
			}
			rule = Weekly{Interval: rj.Interval, Weekdays: weekdays, EndCond: end}
		} else {
			rule = MonthlyOnDay{Interval: rj.Interval, Day: rj.DayOfMonth, EndCond: end}
		}
	case typeYearly:
		rule = Yearly{Interval: rj.Interval, EndCond: end}
	default:
		return nil, fmt.Errorf("unknown repeat type %q", rj.RepeatType)
	}

	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recurrence rule: %w", err)
	}
	return rule, nil
}

func decodeWeekdays(days []int) ([]time.Weekday, error) {
	weekdays := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday index %d: must be within 0-6 (0=Monday)", d)
		}
		// Wire is Monday-first; time.Weekday is Sunday-first.
		weekdays = append(weekdays, time.Weekday((d+1)%7))
	}
	return weekdays, nil
}

func encodeEnd(e EndCondition) endJSON {
	ej := endJSON{Kind: string(e.Kind)}
	switch e.Kind {
	case EndOnDate:
		ej.EndDate = e.Date.Format(time.DateOnly)
	case EndAfterCount:
		ej.Count = e.Count
	}
	return ej
}

func decodeEnd(ej endJSON) (EndCondition, error) {
	switch EndKind(ej.Kind) {
	case EndNever:
		return Never(), nil
	case EndOnDate:
		date, err := time.Parse(time.DateOnly, ej.EndDate)
		if err != nil {
			return EndCondition{}, fmt.Errorf("invalid end date %q: %w", ej.EndDate, err)
		}
		return Until(date), nil
	case EndAfterCount:
		return Times(ej.Count), nil
	default:
		return EndCondition{}, fmt.Errorf("unknown end condition kind %q", ej.Kind)
	}
}
