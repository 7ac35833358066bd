package memory

import (
	"context"

	"blog-cms/internal/domain"
	"blog-cms/internal/repository"
)

type PostRepository struct {
	store *Store
}

func NewPostRepository(store *Store) repository.PostRepository {
	return &PostRepository{store: store}
}

// Create stores the post under the next post id. The author must exist.
func (r *PostRepository) Create(_ context.Context, post *domain.Post) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return 0, domain.NewNotFoundError("Author", post.AuthorID)
	}

	now := s.now()
	post.ID = s.nextPostID
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID] = *post
	s.nextPostID++
	return post.ID, nil
}

func (r *PostRepository) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, domain.NewNotFoundError("Post", id)
	}
	return &post, nil
}

func (r *PostRepository) List(_ context.Context) ([]domain.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedPosts(nil), nil
}

func (r *PostRepository) ListByAuthor(_ context.Context, authorID int64) ([]domain.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedPosts(func(p domain.Post) bool { return p.AuthorID == authorID }), nil
}

// Update replaces title and content. AuthorID and CreatedAt never change.
func (r *PostRepository) Update(_ context.Context, post *domain.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return domain.NewNotFoundError("Post", post.ID)
	}
	existing.Title = post.Title
	existing.Content = post.Content
	existing.UpdatedAt = s.now()
	s.posts[post.ID] = existing
	*post = existing
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return domain.NewNotFoundError("Post", id)
	}
	delete(s.posts, id)
	return nil
}
