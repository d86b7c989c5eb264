package recurrence

import (
	"sort"
	"time"
)

// Iterator lazily produces the strictly ascending occurrence dates of one
// rule. It holds no shared state: every call to Rule.Occurrences starts an
// independent iteration from the anchor, so a series with an occurrence
// count always counts from its true start regardless of any query window.
type Iterator struct {
	end      EndCondition
	produced int
	step     func() time.Time
}

// Next returns the next occurrence date, or false once the rule's end
// condition is reached. It never returns the same date twice.
func (it *Iterator) Next() (time.Time, bool) {
	d := it.step()
	if it.end.reached(it.produced, d) {
		return time.Time{}, false
	}
	it.produced++
	return d, true
}

func (r Daily) Occurrences(anchor time.Time) *Iterator {
	start := dateOf(anchor)
	k := 0
	return &Iterator{end: r.EndCond, step: func() time.Time {
		d := start.AddDate(0, 0, k*r.Interval)
		k++
		return d
	}}
}

func (r Weekly) Occurrences(anchor time.Time) *Iterator {
	start := dateOf(anchor)
	weekStart := startOfWeek(start)

	// Monday-first offsets of the weekday set, deduplicated and sorted so
	// candidates within a week come out in calendar order.
	seen := make(map[int]bool, len(r.Weekdays))
	offsets := make([]int, 0, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		off := (int(wd) + 6) % 7
		if !seen[off] {
			seen[off] = true
			offsets = append(offsets, off)
		}
	}
	sort.Ints(offsets)

	pos := 0
	return &Iterator{end: r.EndCond, step: func() time.Time {
		for {
			if pos == len(offsets) {
				weekStart = weekStart.AddDate(0, 0, 7*r.Interval)
				pos = 0
			}
			d := weekStart.AddDate(0, 0, offsets[pos])
			pos++
			// Weekdays of the first week that fall before the anchor are
			// not part of the series.
			if d.Before(start) {
				continue
			}
			return d
		}
	}}
}

func (r Monthly) Occurrences(anchor time.Time) *Iterator {
	start := dateOf(anchor)
	return monthlyIterator(r.EndCond, start, start.Day(), r.Interval)
}

func (r MonthlyOnDay) Occurrences(anchor time.Time) *Iterator {
	start := dateOf(anchor)
	return monthlyIterator(r.EndCond, start, r.Day, r.Interval)
}

// monthlyIterator steps interval months at a time from the anchor's month,
// clipping the target day to each month's actual length. Candidates before
// the anchor date (possible only in the anchor's own month) are skipped.
func monthlyIterator(end EndCondition, anchor time.Time, day int, interval int) *Iterator {
	year, month := anchor.Year(), anchor.Month()
	k := 0
	return &Iterator{end: end, step: func() time.Time {
		for {
			// time.Date normalizes month overflow into the following years.
			first := time.Date(year, month+time.Month(k*interval), 1, 0, 0, 0, 0, time.UTC)
			k++
			clipped := day
			if max := daysIn(first.Year(), first.Month()); clipped > max {
				clipped = max
			}
			d := first.AddDate(0, 0, clipped-1)
			if d.Before(anchor) {
				continue
			}
			return d
		}
	}}
}

func (r Yearly) Occurrences(anchor time.Time) *Iterator {
	start := dateOf(anchor)
	year, month, day := start.Year(), start.Month(), start.Day()
	k := 0
	return &Iterator{end: r.EndCond, step: func() time.Time {
		y := year + k*r.Interval
		k++
		clipped := day
		if max := daysIn(y, month); clipped > max {
			clipped = max
		}
		return time.Date(y, month, clipped, 0, 0, 0, 0, time.UTC)
	}}
}
