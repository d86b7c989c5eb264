package event

import (
	"context"
	"sync"
	"time"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu     sync.RWMutex
	events map[string]Event
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{events: make(map[string]Event)}
}

func (r *RepositoryStub) Store(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.ID] = e
	return nil
}

func (r *RepositoryStub) GetByID(ctx context.Context, id string) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return e, nil
}

func (r *RepositoryStub) Update(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return ErrEventNotFound
	}
	r.events[e.ID] = e
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *RepositoryStub) ListForWindow(ctx context.Context, calendarIds []string, from, to time.Time) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[string]bool, len(calendarIds))
	for _, id := range calendarIds {
		wanted[id] = true
	}

	var out []Event
	for _, e := range r.events {
		if !wanted[e.CalendarID] {
			continue
		}
		if e.Repeat == nil && (e.Day.Before(from) || e.Day.After(to)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *RepositoryStub) ListByCalendar(ctx context.Context, calendarId string) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Event
	for _, e := range r.events {
		if e.CalendarID == calendarId {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *RepositoryStub) DeleteByLabel(ctx context.Context, calendarId, labelName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.events {
		if e.CalendarID == calendarId && e.Label == labelName {
			delete(r.events, id)
		}
	}
	return nil
}
