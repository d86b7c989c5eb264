package label

import (
	"context"
	"sync"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu     sync.RWMutex
	labels map[string]Label
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{labels: make(map[string]Label)}
}

func (r *RepositoryStub) Store(ctx context.Context, label Label) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels[label.ID] = label
	return nil
}

func (r *RepositoryStub) GetByID(ctx context.Context, id string) (Label, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	label, ok := r.labels[id]
	if !ok {
		return Label{}, ErrLabelNotFound
	}
	return label, nil
}

func (r *RepositoryStub) List(ctx context.Context, calendarId string) ([]Label, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Label
	for _, label := range r.labels {
		if label.CalendarID == calendarId {
			out = append(out, label)
		}
	}
	return out, nil
}

func (r *RepositoryStub) Update(ctx context.Context, label Label) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.labels[label.ID]; !ok {
		return ErrLabelNotFound
	}
	r.labels[label.ID] = label
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.labels, id)
	return nil
}
