package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/nothowstorygoes/carlocalendar/internal/utils"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/event"
	"github.com/nothowstorygoes/carlocalendar/pkg/label"
	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
)

const dateLayout = "2006-01-02"

type Service struct {
	calendars *calendar.Service
	labels    *label.Service
	events    *event.Service
	clock     utils.Clock
}

func NewService(calendars *calendar.Service, labels *label.Service, events *event.Service, clock utils.Clock) *Service {
	return &Service{calendars: calendars, labels: labels, events: events, clock: clock}
}

// Export snapshots the current user's owned calendars. Shared calendars
// belong to their owner's backup, not the invitee's.
func (s *Service) Export(ctx context.Context) (Snapshot, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get current user: %w", err)
	}

	views, err := s.calendars.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: s.clock.Now().UTC().Format(time.RFC3339),
		OwnerUid:  uid,
	}
	for _, view := range views {
		if view.Role != calendar.RoleOwner {
			continue
		}
		cb, err := s.exportCalendar(ctx, view.Calendar)
		if err != nil {
			return Snapshot{}, err
		}
		snapshot.Calendars = append(snapshot.Calendars, cb)
	}
	return snapshot, nil
}

func (s *Service) exportCalendar(ctx context.Context, cal calendar.Calendar) (CalendarBackup, error) {
	cb := CalendarBackup{Name: cal.Name, Prioritized: cal.Prioritized}

	labels, err := s.labels.List(ctx, cal.ID)
	if err != nil {
		return CalendarBackup{}, err
	}
	for _, l := range labels {
		cb.Labels = append(cb.Labels, LabelBackup{Name: l.Name, Code: l.Code, Color: l.Color, Visible: l.Visible})
	}

	events, err := s.events.ListByCalendar(ctx, cal.ID)
	if err != nil {
		return CalendarBackup{}, err
	}
	for _, e := range events {
		eb, err := exportEvent(e)
		if err != nil {
			return CalendarBackup{}, fmt.Errorf("calendar %s: %w", cal.ID, err)
		}
		cb.Events = append(cb.Events, eb)
	}
	return cb, nil
}

func exportEvent(e event.Event) (EventBackup, error) {
	eb := EventBackup{
		Title:       e.Title,
		Description: e.Description,
		Day:         e.Day.Format(dateLayout),
		Label:       e.Label,
		Checked:     e.Checked,
	}
	if e.Time != nil {
		minutes := e.Time.Hours*60 + e.Time.Minutes
		eb.TimeMinutes = &minutes
	}
	if e.Repeat != nil {
		encoded, err := recurrence.EncodeRule(e.Repeat)
		if err != nil {
			return EventBackup{}, fmt.Errorf("could not encode rule for event %s: %w", e.ID, err)
		}
		eb.Repeat = encoded
	}
	for _, d := range e.Excluded {
		eb.ExcludedDates = append(eb.ExcludedDates, d.Format(dateLayout))
	}
	return eb, nil
}

// Import recreates a snapshot's calendars under the current user with fresh
// identifiers. Existing data is left untouched; restoring twice yields two
// copies.
func (s *Service) Import(ctx context.Context, snapshot Snapshot) error {
	if snapshot.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}

	for _, cb := range snapshot.Calendars {
		cal, err := s.calendars.Create(ctx, calendar.Calendar{Name: cb.Name, Prioritized: cb.Prioritized})
		if err != nil {
			return fmt.Errorf("failed to restore calendar %q: %w", cb.Name, err)
		}
		for _, lb := range cb.Labels {
			_, err := s.labels.Create(ctx, label.Label{
				CalendarID: cal.ID,
				Name:       lb.Name,
				Code:       lb.Code,
				Color:      lb.Color,
				Visible:    lb.Visible,
			})
			if err != nil {
				return fmt.Errorf("failed to restore label %q: %w", lb.Name, err)
			}
		}
		for _, eb := range cb.Events {
			e, err := importEvent(cal.ID, eb)
			if err != nil {
				return err
			}
			if _, err := s.events.Restore(ctx, e); err != nil {
				return fmt.Errorf("failed to restore event %q: %w", eb.Title, err)
			}
		}
	}
	return nil
}

func importEvent(calendarId string, eb EventBackup) (event.Event, error) {
	day, err := time.Parse(dateLayout, eb.Day)
	if err != nil {
		return event.Event{}, fmt.Errorf("invalid day in snapshot event %q: %w", eb.Title, err)
	}
	e := event.Event{
		CalendarID:  calendarId,
		Title:       eb.Title,
		Description: eb.Description,
		Day:         day,
		Label:       eb.Label,
		Checked:     eb.Checked,
	}
	if eb.TimeMinutes != nil {
		e.Time = &event.TimeOfDay{Hours: *eb.TimeMinutes / 60, Minutes: *eb.TimeMinutes % 60}
	}
	if len(eb.Repeat) > 0 {
		rule, err := recurrence.DecodeRule(eb.Repeat)
		if err != nil {
			return event.Event{}, fmt.Errorf("invalid rule in snapshot event %q: %w", eb.Title, err)
		}
		e.Repeat = rule
	}
	for _, ds := range eb.ExcludedDates {
		d, err := time.Parse(dateLayout, ds)
		if err != nil {
			return event.Event{}, fmt.Errorf("invalid excluded date in snapshot event %q: %w", eb.Title, err)
		}
		e.Excluded = append(e.Excluded, d)
	}
	return e, nil
}
