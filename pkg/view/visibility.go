package view

import (
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/event"
	"github.com/nothowstorygoes/carlocalendar/pkg/label"
)

// DefaultLabelColor is rendered for occurrences whose label name no longer
// resolves to a label row. A dangling reference hides color, not the event.
const DefaultLabelColor = "#9e9e9e"

// Occurrence is an event occurrence enriched with its resolved label color,
// ready for display.
type Occurrence struct {
	event.Occurrence
	LabelColor string `json:"labelColor,omitempty"`
}

// Visible filters occurrences down to what the current user's display
// settings show: the calendar must be visible and a referenced label must be
// either resolvable and visible or missing entirely. Occurrences of
// calendars absent from the given list are dropped quietly; that happens
// when a share was revoked between load and render.
func Visible(occurrences []event.Occurrence, labels []label.Label, calendars []calendar.View) []Occurrence {
	calendarVisible := make(map[string]bool, len(calendars))
	for _, cal := range calendars {
		calendarVisible[cal.ID] = cal.Visible
	}

	type labelKey struct{ calendarId, name string }
	labelsByName := make(map[labelKey]label.Label, len(labels))
	for _, l := range labels {
		labelsByName[labelKey{l.CalendarID, l.Name}] = l
	}

	visible := make([]Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		calVisible, known := calendarVisible[occ.CalendarID]
		if !known || !calVisible {
			continue
		}

		color := ""
		if occ.Label != "" {
			if l, ok := labelsByName[labelKey{occ.CalendarID, occ.Label}]; ok {
				if !l.Visible {
					continue
				}
				color = l.Color
			} else {
				color = DefaultLabelColor
			}
		}
		visible = append(visible, Occurrence{Occurrence: occ, LabelColor: color})
	}
	return visible
}
