package user

import (
	"context"
	"sync"
)

// StubRepo is an in-memory Repo for tests.
type StubRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewStubRepo() *StubRepo {
	return &StubRepo{users: make(map[string]User)}
}

func (r *StubRepo) Upsert(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[u.Uid]; ok {
		existing.Email = u.Email
		existing.DisplayName = u.DisplayName
		existing.PhotoUrl = u.PhotoUrl
		r.users[u.Uid] = existing
		return existing, nil
	}
	r.users[u.Uid] = u
	return u, nil
}

func (r *StubRepo) GetByUid(ctx context.Context, uid string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[uid]
	if !ok {
		return User{}, ErrNoUser
	}
	return u, nil
}

func (r *StubRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNoUser
}

func (r *StubRepo) GetAll(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *StubRepo) Update(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Uid]; !ok {
		return User{}, ErrNoUser
	}
	r.users[u.Uid] = u
	return u, nil
}

func (r *StubRepo) Delete(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, uid)
	return nil
}
