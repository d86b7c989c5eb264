package label

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nothowstorygoes/carlocalendar/internal/event_bus"
	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
)

type Service struct {
	repo      Repository
	calendars *calendar.Service
	eventBus  *event_bus.EventBus
}

func NewService(repo Repository, calendars *calendar.Service, eventBus *event_bus.EventBus) *Service {
	return &Service{repo: repo, calendars: calendars, eventBus: eventBus}
}

func (s *Service) List(ctx context.Context, calendarId string) ([]Label, error) {
	if _, err := s.calendars.RequireRole(ctx, calendarId, calendar.RoleViewer); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, calendarId)
}

func (s *Service) Create(ctx context.Context, label Label) (Label, error) {
	if _, err := s.calendars.RequireRole(ctx, label.CalendarID, calendar.RoleEditor); err != nil {
		return Label{}, err
	}
	if err := s.validate(ctx, label, ""); err != nil {
		return Label{}, err
	}

	label.ID = uuid.New().String()
	if err := s.repo.Store(ctx, label); err != nil {
		return Label{}, fmt.Errorf("failed to store label: %w", err)
	}
	return label, nil
}

func (s *Service) Update(ctx context.Context, label Label) (Label, error) {
	existing, err := s.repo.GetByID(ctx, label.ID)
	if err != nil {
		return Label{}, err
	}
	if _, err := s.calendars.RequireRole(ctx, existing.CalendarID, calendar.RoleEditor); err != nil {
		return Label{}, err
	}
	label.CalendarID = existing.CalendarID
	if err := s.validate(ctx, label, label.ID); err != nil {
		return Label{}, err
	}

	if err := s.repo.Update(ctx, label); err != nil {
		return Label{}, fmt.Errorf("failed to update label: %w", err)
	}
	return label, nil
}

// Delete removes the label and publishes LabelDeletedEvent so the event
// service can cascade removal of events carrying it.
func (s *Service) Delete(ctx context.Context, labelId string) error {
	label, err := s.repo.GetByID(ctx, labelId)
	if err != nil {
		return err
	}
	if _, err := s.calendars.RequireRole(ctx, label.CalendarID, calendar.RoleEditor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, labelId); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.LabelDeletedEvent, event_bus.LabelDeleted{
		CalendarID: label.CalendarID,
		LabelName:  label.Name,
	}))
}

// validate enforces the per-calendar constraints on both create and update:
// name and code must each be unique among the calendar's labels, and code
// must fall in the palette range. excludeId skips the label's own row when
// updating.
func (s *Service) validate(ctx context.Context, label Label, excludeId string) error {
	if label.Name == "" {
		return fmt.Errorf("label name is required")
	}
	if label.Code < MinCode || label.Code > MaxCode {
		return fmt.Errorf("label code must be between %d and %d", MinCode, MaxCode)
	}

	existing, err := s.repo.List(ctx, label.CalendarID)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID == excludeId {
			continue
		}
		if other.Name == label.Name {
			return fmt.Errorf("label name %q is already used in this calendar", label.Name)
		}
		if other.Code == label.Code {
			return fmt.Errorf("label code %d is already used in this calendar", label.Code)
		}
	}
	return nil
}
