package memory

import (
	"context"

	"blog-cms/internal/domain"
	"blog-cms/internal/repository"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	s.nextUserID++
	return user.ID, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Login == login })
}

func (r *UserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", 0)
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedUsers(), nil
}

// Update replaces email and login. CreatedAt is kept from the stored record.
func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return domain.NewNotFoundError("User", user.ID)
	}
	existing.Email = user.Email
	existing.Login = user.Login
	existing.UpdatedAt = s.now()
	s.users[user.ID] = existing
	*user = existing
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return 0, domain.NewNotFoundError("User", id)
	}
	removed := 0
	for pid, p := range s.posts {
		if p.AuthorID == id {
			delete(s.posts, pid)
			removed++
		}
	}
	delete(s.users, id)
	return removed, nil
}
