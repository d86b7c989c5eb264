package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nothowstorygoes/carlocalendar/internal/event_bus"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repo      Repository
	calendars *calendar.Service
}

func NewService(repo Repository, calendars *calendar.Service, eventBus *event_bus.EventBus) *Service {
	s := &Service{repo: repo, calendars: calendars}
	eventBus.Subscribe(event_bus.LabelDeletedEvent, s.onLabelDeleted)
	return s
}

// onLabelDeleted cascades a label deletion onto the events carrying it.
func (s *Service) onLabelDeleted(e event_bus.Event) error {
	data, ok := e.Data.(event_bus.LabelDeleted)
	if !ok {
		return fmt.Errorf("unexpected payload for %s event", e.Type)
	}
	log.Infof("label %q deleted on calendar %s, removing its events", data.LabelName, data.CalendarID)
	return s.repo.DeleteByLabel(e.Context(), data.CalendarID, data.LabelName)
}

func (s *Service) Create(ctx context.Context, e Event) (Event, error) {
	if _, err := s.calendars.RequireRole(ctx, e.CalendarID, calendar.RoleEditor); err != nil {
		return Event{}, err
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}

	e.ID = uuid.New().String()
	e.Excluded = nil
	if err := s.repo.Store(ctx, e); err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	return e, nil
}

// Restore inserts a full event row including its exclusion list, for backup
// import. Create intentionally drops exclusions; a restored series keeps
// them.
func (s *Service) Restore(ctx context.Context, e Event) (Event, error) {
	if _, err := s.calendars.RequireRole(ctx, e.CalendarID, calendar.RoleEditor); err != nil {
		return Event{}, err
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}

	e.ID = uuid.New().String()
	if err := s.repo.Store(ctx, e); err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, eventId string) (Event, error) {
	e, err := s.repo.GetByID(ctx, eventId)
	if err != nil {
		return Event{}, err
	}
	if _, err := s.calendars.RequireRole(ctx, e.CalendarID, calendar.RoleViewer); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Update replaces the stored entry. Changing the base day or the recurrence
// rule resets the exclusion list, since the old exclusions no longer name
// dates of the new series.
func (s *Service) Update(ctx context.Context, e Event) (Event, error) {
	existing, err := s.repo.GetByID(ctx, e.ID)
	if err != nil {
		return Event{}, err
	}
	if _, err := s.calendars.RequireRole(ctx, existing.CalendarID, calendar.RoleEditor); err != nil {
		return Event{}, err
	}
	e.CalendarID = existing.CalendarID
	if err := e.Validate(); err != nil {
		return Event{}, err
	}

	if existing.Day.Equal(e.Day) && sameRule(existing.Repeat, e.Repeat) {
		e.Excluded = existing.Excluded
	} else {
		e.Excluded = nil
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, fmt.Errorf("failed to update event: %w", err)
	}
	return e, nil
}

// Delete removes the event and, for recurring events, its whole series.
func (s *Service) Delete(ctx context.Context, eventId string) error {
	existing, err := s.repo.GetByID(ctx, eventId)
	if err != nil {
		return err
	}
	if _, err := s.calendars.RequireRole(ctx, existing.CalendarID, calendar.RoleEditor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, eventId)
}

// DeleteOccurrence removes one day from a recurring series by recording an
// exclusion. The excluded day keeps consuming an occurrence-count slot, so
// the rest of the series does not shift. Deleting the only occurrence of a
// one-off event deletes the event.
func (s *Service) DeleteOccurrence(ctx context.Context, eventId string, day time.Time) error {
	existing, err := s.repo.GetByID(ctx, eventId)
	if err != nil {
		return err
	}
	if _, err := s.calendars.RequireRole(ctx, existing.CalendarID, calendar.RoleEditor); err != nil {
		return err
	}

	if existing.Repeat == nil {
		if !existing.Day.Equal(day) {
			return ErrEventNotFound
		}
		return s.repo.Delete(ctx, eventId)
	}
	if existing.IsExcluded(day) {
		return nil
	}
	existing.Excluded = append(existing.Excluded, day)
	return s.repo.Update(ctx, existing)
}

// DeleteFuture ends a recurring series before the given day by truncating the
// rule's end condition to the previous day. The event keeps its identity and
// its past occurrences. Cutting at or before the base day deletes the event
// entirely.
func (s *Service) DeleteFuture(ctx context.Context, eventId string, day time.Time) error {
	existing, err := s.repo.GetByID(ctx, eventId)
	if err != nil {
		return err
	}
	if _, err := s.calendars.RequireRole(ctx, existing.CalendarID, calendar.RoleEditor); err != nil {
		return err
	}

	if existing.Repeat == nil || !day.After(existing.Day) {
		return s.repo.Delete(ctx, eventId)
	}
	existing.Repeat = truncateEnd(existing.Repeat, day.AddDate(0, 0, -1))
	return s.repo.Update(ctx, existing)
}

func (s *Service) SetChecked(ctx context.Context, eventId string, checked bool) error {
	existing, err := s.repo.GetByID(ctx, eventId)
	if err != nil {
		return err
	}
	if _, err := s.calendars.RequireRole(ctx, existing.CalendarID, calendar.RoleEditor); err != nil {
		return err
	}
	existing.Checked = checked
	return s.repo.Update(ctx, existing)
}

// Occurrences expands the given calendars' events over [from, to]. The caller
// needs viewer access to every requested calendar.
func (s *Service) Occurrences(ctx context.Context, calendarIds []string, from, to time.Time) ([]Occurrence, error) {
	for _, id := range calendarIds {
		if _, err := s.calendars.RequireRole(ctx, id, calendar.RoleViewer); err != nil {
			return nil, err
		}
	}

	events, err := s.repo.ListForWindow(ctx, calendarIds, from, to)
	if err != nil {
		return nil, err
	}
	return Project(events, from, to)
}

// ListByCalendar returns the calendar's raw stored events, for export and
// backup.
func (s *Service) ListByCalendar(ctx context.Context, calendarId string) ([]Event, error) {
	if _, err := s.calendars.RequireRole(ctx, calendarId, calendar.RoleViewer); err != nil {
		return nil, err
	}
	return s.repo.ListByCalendar(ctx, calendarId)
}

// truncateEnd rewrites the rule to end on the given inclusive date.
func truncateEnd(r recurrence.Rule, last time.Time) recurrence.Rule {
	end := recurrence.Until(last)
	switch rule := r.(type) {
	case recurrence.Daily:
		rule.EndCond = end
		return rule
	case recurrence.Weekly:
		rule.EndCond = end
		return rule
	case recurrence.Monthly:
		rule.EndCond = end
		return rule
	case recurrence.MonthlyOnDay:
		rule.EndCond = end
		return rule
	case recurrence.Yearly:
		rule.EndCond = end
		return rule
	default:
		return r
	}
}

// sameRule compares rules through their wire encoding. Rules are small value
// types, so the round-trip is cheap and avoids a per-kind comparison.
func sameRule(a, b recurrence.Rule) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ea, errA := recurrence.EncodeRule(a)
	eb, errB := recurrence.EncodeRule(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ea) == string(eb)
}
