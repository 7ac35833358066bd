package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"blog-cms/internal/domain"
	"blog-cms/internal/persistence"
	"blog-cms/internal/repository/memory"
	"blog-cms/internal/service"
)

type recordingSaver struct {
	saves []domain.Snapshot
	err   error
}

func (r *recordingSaver) Save(_ context.Context, snap domain.Snapshot) error {
	r.saves = append(r.saves, snap)
	return r.err
}

type fixture struct {
	users service.UserService
	posts service.PostService
	saver *recordingSaver
	logs  *test.Hook
}

func newFixture(saveErr error) fixture {
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	postRepo := memory.NewPostRepository(store)
	saver := &recordingSaver{err: saveErr}
	logger, hook := test.NewNullLogger()
	committer := service.NewCommitter(store, saver, logger)
	return fixture{
		users: service.NewUserService(userRepo, committer),
		posts: service.NewPostService(postRepo, userRepo, committer),
		saver: saver,
		logs:  hook,
	}
}

func TestRegisterUser(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(nil)

	user, err := f.users.Register(ctx, " alice@example.com ", " alice ")
	c.Assert(err, qt.IsNil)
	c.Assert(user.ID, qt.Equals, int64(1))
	c.Assert(user.Email, qt.Equals, "alice@example.com")
	c.Assert(user.Login, qt.Equals, "alice")

	got, err := f.users.GetUser(ctx, user.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, user)
	c.Assert(f.saver.saves, qt.HasLen, 1)
	c.Assert(f.saver.saves[0].Users, qt.HasLen, 1)
}

func TestRegisterUserRejects(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		login   string
		kind    any
		message string
	}{
		{name: "email without at sign", email: "alice.example.com", login: "new", kind: &domain.ValidationError{}, message: "Invalid email format"},
		{name: "blank login", email: "new@example.com", login: "  ", kind: &domain.ValidationError{}, message: "Login cannot be empty"},
		{name: "duplicate email", email: "alice@example.com", login: "other", kind: &domain.ConflictError{}, message: "Email already exists"},
		{name: "duplicate login", email: "other@example.com", login: "alice", kind: &domain.ConflictError{}, message: "Login already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			ctx := context.Background()
			f := newFixture(nil)
			_, err := f.users.Register(ctx, "alice@example.com", "alice")
			c.Assert(err, qt.IsNil)

			_, err = f.users.Register(ctx, tt.email, tt.login)
			c.Assert(err, qt.ErrorMatches, tt.message)
			switch tt.kind.(type) {
			case *domain.ValidationError:
				var target *domain.ValidationError
				c.Assert(err, qt.ErrorAs, &target)
			case *domain.ConflictError:
				var target *domain.ConflictError
				c.Assert(err, qt.ErrorAs, &target)
			}

			users, err := f.users.ListUsers(ctx)
			c.Assert(err, qt.IsNil)
			c.Assert(users, qt.HasLen, 1)
			c.Assert(f.saver.saves, qt.HasLen, 1)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(nil)

	alice, err := f.users.Register(ctx, "alice@example.com", "alice")
	c.Assert(err, qt.IsNil)
	_, err = f.users.Register(ctx, "bob@example.com", "bob")
	c.Assert(err, qt.IsNil)

	// keeping its own email is not a conflict
	updated, err := f.users.UpdateUser(ctx, alice.ID, "alice@example.com", "alice2")
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Login, qt.Equals, "alice2")
	c.Assert(updated.CreatedAt, qt.Equals, alice.CreatedAt)

	_, err = f.users.UpdateUser(ctx, alice.ID, "bob@example.com", "alice2")
	var conflict *domain.ConflictError
	c.Assert(err, qt.ErrorAs, &conflict)

	_, err = f.users.UpdateUser(ctx, 99, "x@example.com", "x")
	var nf *domain.NotFoundError
	c.Assert(err, qt.ErrorAs, &nf)
}

func TestDeleteUserRemovesPosts(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(nil)

	alice, _ := f.users.Register(ctx, "alice@example.com", "alice")
	bob, _ := f.users.Register(ctx, "bob@example.com", "bob")
	_, err := f.posts.CreatePost(ctx, alice.ID, "one", "body")
	c.Assert(err, qt.IsNil)
	_, err = f.posts.CreatePost(ctx, alice.ID, "two", "body")
	c.Assert(err, qt.IsNil)
	kept, err := f.posts.CreatePost(ctx, bob.ID, "three", "body")
	c.Assert(err, qt.IsNil)

	removed, err := f.users.DeleteUser(ctx, alice.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(removed, qt.Equals, 2)

	posts, err := f.posts.ListPosts(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(posts, qt.DeepEquals, []domain.Post{*kept})

	byAlice, err := f.posts.ListByAuthor(ctx, alice.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(byAlice, qt.HasLen, 0)

	last := f.saver.saves[len(f.saver.saves)-1]
	c.Assert(last.Users, qt.HasLen, 1)
	c.Assert(last.Posts, qt.HasLen, 1)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	c := qt.New(t)
	f := newFixture(nil)

	_, err := f.posts.CreatePost(context.Background(), 7, "title", "content")
	var nf *domain.NotFoundError
	c.Assert(err, qt.ErrorAs, &nf)
	c.Assert(err, qt.ErrorMatches, "Author not found")
	c.Assert(f.saver.saves, qt.HasLen, 0)
}

func TestCreatePostValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		message string
	}{
		{name: "blank title", title: " \t ", content: "body", message: "Title cannot be empty"},
		{name: "blank content", title: "title", content: "\n  ", message: "Content cannot be empty"},
		{name: "long title", title: strings.Repeat("x", 101), content: "body", message: "Title too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			ctx := context.Background()
			f := newFixture(nil)
			author, err := f.users.Register(ctx, "a@example.com", "a")
			c.Assert(err, qt.IsNil)

			_, err = f.posts.CreatePost(ctx, author.ID, tt.title, tt.content)
			var verr *domain.ValidationError
			c.Assert(err, qt.ErrorAs, &verr)
			c.Assert(err, qt.ErrorMatches, tt.message)
		})
	}
}

func TestCreatePostTrimsAndAcceptsMaxTitle(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(nil)
	author, _ := f.users.Register(ctx, "a@example.com", "a")

	title := strings.Repeat("ж", service.MaxTitleLength)
	post, err := f.posts.CreatePost(ctx, author.ID, "  "+title+"  ", "  body  ")
	c.Assert(err, qt.IsNil)
	c.Assert(post.Title, qt.Equals, title)
	c.Assert(post.Content, qt.Equals, "body")
	c.Assert(post.AuthorID, qt.Equals, author.ID)
}

func TestUpdatePostKeepsAuthorAndCreatedAt(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(nil)
	author, _ := f.users.Register(ctx, "a@example.com", "a")
	post, err := f.posts.CreatePost(ctx, author.ID, "title", "content")
	c.Assert(err, qt.IsNil)

	updated, err := f.posts.UpdatePost(ctx, post.ID, "new title", "new content")
	c.Assert(err, qt.IsNil)
	c.Assert(updated.AuthorID, qt.Equals, post.AuthorID)
	c.Assert(updated.CreatedAt, qt.Equals, post.CreatedAt)
	c.Assert(updated.Title, qt.Equals, "new title")
	c.Assert(updated.Content, qt.Equals, "new content")
	c.Assert(updated.UpdatedAt.Before(post.UpdatedAt), qt.IsFalse)

	_, err = f.posts.UpdatePost(ctx, post.ID, "", "x")
	var verr *domain.ValidationError
	c.Assert(err, qt.ErrorAs, &verr)

	_, err = f.posts.UpdatePost(ctx, 99, "t", "c")
	var nf *domain.NotFoundError
	c.Assert(err, qt.ErrorAs, &nf)
}

func TestDeletePost(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(nil)
	author, _ := f.users.Register(ctx, "a@example.com", "a")
	post, _ := f.posts.CreatePost(ctx, author.ID, "title", "content")

	c.Assert(f.posts.DeletePost(ctx, post.ID), qt.IsNil)
	_, err := f.posts.GetPost(ctx, post.ID)
	c.Assert(err, qt.ErrorMatches, "Post not found")
	c.Assert(f.posts.DeletePost(ctx, post.ID), qt.ErrorMatches, "Post not found")
}

func TestSaveFailureIsLoggedNotReturned(t *testing.T) {
	c := qt.New(t)
	f := newFixture(errors.New("disk full"))

	user, err := f.users.Register(context.Background(), "a@example.com", "a")
	c.Assert(err, qt.IsNil)
	c.Assert(user.ID, qt.Equals, int64(1))

	entry := f.logs.LastEntry()
	c.Assert(entry, qt.IsNotNil)
	c.Assert(entry.Level, qt.Equals, logrus.ErrorLevel)
	c.Assert(entry.Message, qt.Equals, "persist snapshot")
	c.Assert(entry.Data[logrus.ErrorKey], qt.ErrorMatches, "disk full")
}

func TestSaveOutlivesCancelledRequest(t *testing.T) {
	c := qt.New(t)
	db, err := persistence.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "blog.db"))
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { db.Close() })

	store := memory.NewStore()
	logger, hook := test.NewNullLogger()
	users := service.NewUserService(memory.NewUserRepository(store), service.NewCommitter(store, db, logger))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	user, err := users.Register(ctx, "a@example.com", "a")
	c.Assert(err, qt.IsNil)
	c.Assert(hook.AllEntries(), qt.HasLen, 0)

	snap, err := db.Load(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(snap.Users, qt.HasLen, 1)
	c.Assert(snap.Users[0].ID, qt.Equals, user.ID)
	c.Assert(snap.NextUserID, qt.Equals, int64(2))
}
