package recurrence

import (
	"fmt"
	"time"
)

// Expand returns every occurrence of the rule anchored at the base event's
// day that falls within the inclusive [from, to] window, in strictly
// ascending order. Occurrences before the window still consume the rule's
// occurrence count, so a count-terminated series produces identical dates no
// matter which window a view asks for.
func Expand(r Rule, anchor, from, to time.Time) ([]time.Time, error) {
	if r == nil {
		return nil, fmt.Errorf("recurrence rule is nil")
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recurrence rule: %w", err)
	}

	fromDate := dateOf(from)
	toDate := dateOf(to)
	if toDate.Before(fromDate) {
		return nil, fmt.Errorf("invalid window: end %s is before start %s",
			toDate.Format(time.DateOnly), fromDate.Format(time.DateOnly))
	}

	it := r.Occurrences(anchor)
	var out []time.Time
	for {
		d, ok := it.Next()
		if !ok || d.After(toDate) {
			break
		}
		if d.Before(fromDate) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
