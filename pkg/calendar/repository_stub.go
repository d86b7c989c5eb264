package calendar

import (
	"context"
	"sync"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu        sync.RWMutex
	calendars map[string]Calendar
	shares    map[string]Share // calendarId + "|" + userUid
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		calendars: make(map[string]Calendar),
		shares:    make(map[string]Share),
	}
}

func shareKey(calendarId, userUid string) string {
	return calendarId + "|" + userUid
}

func (r *RepositoryStub) Store(ctx context.Context, cal Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calendars[cal.ID] = cal
	return nil
}

func (r *RepositoryStub) GetByID(ctx context.Context, id string) (Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, ok := r.calendars[id]
	if !ok {
		return Calendar{}, ErrCalendarNotFound
	}
	return cal, nil
}

func (r *RepositoryStub) ListOwned(ctx context.Context, ownerUid string) ([]Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Calendar
	for _, cal := range r.calendars {
		if cal.OwnerUid == ownerUid {
			out = append(out, cal)
		}
	}
	return out, nil
}

func (r *RepositoryStub) Update(ctx context.Context, cal Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calendars[cal.ID]; !ok {
		return ErrCalendarNotFound
	}
	r.calendars[cal.ID] = cal
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calendars, id)
	for key, share := range r.shares {
		if share.CalendarID == id {
			delete(r.shares, key)
		}
	}
	return nil
}

func (r *RepositoryStub) StoreShare(ctx context.Context, share Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shares[shareKey(share.CalendarID, share.UserUid)] = share
	return nil
}

func (r *RepositoryStub) GetShare(ctx context.Context, calendarId, userUid string) (Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	share, ok := r.shares[shareKey(calendarId, userUid)]
	if !ok {
		return Share{}, ErrCalendarNotFound
	}
	return share, nil
}

func (r *RepositoryStub) UpdateShare(ctx context.Context, share Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := shareKey(share.CalendarID, share.UserUid)
	if _, ok := r.shares[key]; !ok {
		return ErrCalendarNotFound
	}
	r.shares[key] = share
	return nil
}

func (r *RepositoryStub) DeleteShare(ctx context.Context, calendarId, userUid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shares, shareKey(calendarId, userUid))
	return nil
}

func (r *RepositoryStub) ListSharedWith(ctx context.Context, userUid string) ([]Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Share
	for _, share := range r.shares {
		if share.UserUid == userUid {
			out = append(out, share)
		}
	}
	return out, nil
}

func (r *RepositoryStub) ListShares(ctx context.Context, calendarId string) ([]Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Share
	for _, share := range r.shares {
		if share.CalendarID == calendarId {
			out = append(out, share)
		}
	}
	return out, nil
}
