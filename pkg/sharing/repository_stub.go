package sharing

import (
	"context"
	"strings"
	"sync"
	"time"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu          sync.RWMutex
	invitations map[string]Invitation
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{invitations: make(map[string]Invitation)}
}

func (r *RepositoryStub) Store(ctx context.Context, inv Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invitations[inv.ID] = inv
	return nil
}

func (r *RepositoryStub) GetByID(ctx context.Context, id string) (Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invitations[id]
	if !ok {
		return Invitation{}, ErrInvitationNotFound
	}
	return inv, nil
}

func (r *RepositoryStub) Update(ctx context.Context, inv Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invitations[inv.ID]; !ok {
		return ErrInvitationNotFound
	}
	r.invitations[inv.ID] = inv
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invitations, id)
	return nil
}

func (r *RepositoryStub) ListByCalendar(ctx context.Context, calendarId string) ([]Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Invitation
	for _, inv := range r.invitations {
		if inv.CalendarID == calendarId {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *RepositoryStub) ListPendingByEmail(ctx context.Context, email string) ([]Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Invitation
	for _, inv := range r.invitations {
		if inv.Status == StatusPending && strings.EqualFold(inv.TargetEmail, email) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *RepositoryStub) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, inv := range r.invitations {
		if inv.Status == StatusPending && inv.CreatedAt.Before(cutoff) {
			delete(r.invitations, id)
			purged++
		}
	}
	return purged, nil
}
