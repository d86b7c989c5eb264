package user

import (
	"context"
	"fmt"
)

type Service interface {
	SignIn(ctx context.Context, user User) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetCurrentUser(ctx context.Context) (User, error)
	UpdateCurrentUser(ctx context.Context, user User) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

// SignIn upserts the profile delivered by the identity provider.
func (s *ServiceImpl) SignIn(ctx context.Context, user User) (User, error) {
	if user.Uid == "" || user.Email == "" {
		return User{}, fmt.Errorf("sign-in requires a uid and a verified email")
	}
	return s.repo.Upsert(ctx, user)
}

func (s *ServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return s.repo.GetByUid(ctx, uid)
}

func (s *ServiceImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *ServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	uid, err := CurrentUid(ctx)
	if err != nil {
		return User{}, err
	}
	return s.repo.GetByUid(ctx, uid)
}

func (s *ServiceImpl) UpdateCurrentUser(ctx context.Context, user User) (User, error) {
	uid, err := CurrentUid(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	user.Uid = uid
	return s.repo.Update(ctx, user)
}

func (s *ServiceImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	return s.repo.GetAll(ctx)
}
