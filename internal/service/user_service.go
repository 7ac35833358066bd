package service

import (
	"context"

	"blog-cms/internal/domain"
	"blog-cms/internal/repository"
)

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, email, login string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, email, login string) (*domain.User, error)
	// DeleteUser removes the user and all of its posts, returning the number
	// of posts removed.
	DeleteUser(ctx context.Context, id int64) (int, error)
}

type userService struct {
	users     repository.UserRepository
	committer *Committer
}

func NewUserService(users repository.UserRepository, committer *Committer) UserService {
	return &userService{
		users:     users,
		committer: committer,
	}
}

func (s *userService) Register(ctx context.Context, email, login string) (*domain.User, error) {
	email, login, err := normalizeUser(email, login)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: email, Login: login}
	err = s.committer.Do(ctx, func() error {
		if err := checkUnique(ctx, s.users, email, login, 0); err != nil {
			return err
		}
		_, err := s.users.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, id int64, email, login string) (*domain.User, error) {
	user := &domain.User{ID: id}
	err := s.committer.Do(ctx, func() error {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return err
		}
		var err error
		if user.Email, user.Login, err = normalizeUser(email, login); err != nil {
			return err
		}
		if err := checkUnique(ctx, s.users, user.Email, user.Login, id); err != nil {
			return err
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) (int, error) {
	var removed int
	err := s.committer.Do(ctx, func() error {
		var err error
		removed, err = s.users.Delete(ctx, id)
		return err
	})
	return removed, err
}
