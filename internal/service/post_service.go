package service

import (
	"context"

	"blog-cms/internal/domain"
	"blog-cms/internal/repository"
)

// PostService coordinates post level operations backed by repositories.
type PostService interface {
	CreatePost(ctx context.Context, authorID int64, title, content string) (*domain.Post, error)
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error)
	UpdatePost(ctx context.Context, id int64, title, content string) (*domain.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

type postService struct {
	posts     repository.PostRepository
	users     repository.UserRepository
	committer *Committer
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, committer *Committer) PostService {
	return &postService{
		posts:     posts,
		users:     users,
		committer: committer,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID int64, title, content string) (*domain.Post, error) {
	post := &domain.Post{AuthorID: authorID}
	err := s.committer.Do(ctx, func() error {
		if _, err := s.users.GetByID(ctx, authorID); err != nil {
			if ignoreNotFound(err) == nil {
				return domain.NewNotFoundError("Author", authorID)
			}
			return err
		}
		var err error
		if post.Title, post.Content, err = normalizePost(title, content); err != nil {
			return err
		}
		_, err = s.posts.Create(ctx, post)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *postService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

func (s *postService) UpdatePost(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
	post := &domain.Post{ID: id}
	err := s.committer.Do(ctx, func() error {
		if _, err := s.posts.GetByID(ctx, id); err != nil {
			return err
		}
		var err error
		if post.Title, post.Content, err = normalizePost(title, content); err != nil {
			return err
		}
		return s.posts.Update(ctx, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, id int64) error {
	return s.committer.Do(ctx, func() error {
		return s.posts.Delete(ctx, id)
	})
}
