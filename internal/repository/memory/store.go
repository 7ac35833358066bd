package memory

import (
	"sort"
	"sync"
	"time"

	"blog-cms/internal/domain"
)

// Store owns the in-memory user and post collections together with the id
// counters. Repositories created from the same Store share its state.
type Store struct {
	mu         sync.RWMutex
	users      map[int64]domain.User
	posts      map[int64]domain.Post
	nextUserID int64
	nextPostID int64
	now        func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		users:      make(map[int64]domain.User),
		posts:      make(map[int64]domain.Post),
		nextUserID: 1,
		nextPostID: 1,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the full store state ordered by id.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Snapshot{
		Users:      s.sortedUsers(),
		Posts:      s.sortedPosts(nil),
		NextUserID: s.nextUserID,
		NextPostID: s.nextPostID,
	}
}

// RestoreResult counts the records Restore refused to load.
type RestoreResult struct {
	DuplicateUsers int
	OrphanPosts    int
}

// Restore replaces the store state with the snapshot. Counters are raised
// past the highest stored id so that ids are never handed out twice. A user
// whose email or login is already held by a lower id is dropped, and so is
// every post whose author is not loaded.
func (s *Store) Restore(snap domain.Snapshot) RestoreResult {
	var res RestoreResult

	ordered := make([]domain.User, len(snap.Users))
	copy(ordered, snap.Users)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	users := make(map[int64]domain.User, len(ordered))
	emails := make(map[string]struct{}, len(ordered))
	logins := make(map[string]struct{}, len(ordered))
	nextUserID := max(snap.NextUserID, 1)
	for _, u := range ordered {
		nextUserID = max(nextUserID, u.ID+1)
		_, emailTaken := emails[u.Email]
		_, loginTaken := logins[u.Login]
		if _, idTaken := users[u.ID]; idTaken || emailTaken || loginTaken {
			res.DuplicateUsers++
			continue
		}
		users[u.ID] = u
		emails[u.Email] = struct{}{}
		logins[u.Login] = struct{}{}
	}

	posts := make(map[int64]domain.Post, len(snap.Posts))
	nextPostID := max(snap.NextPostID, 1)
	for _, p := range snap.Posts {
		nextPostID = max(nextPostID, p.ID+1)
		if _, ok := users[p.AuthorID]; !ok {
			res.OrphanPosts++
			continue
		}
		posts[p.ID] = p
	}

	s.mu.Lock()
	s.users = users
	s.posts = posts
	s.nextUserID = nextUserID
	s.nextPostID = nextPostID
	s.mu.Unlock()
	return res
}

// ids only grow, so ascending id order is insertion order.
func (s *Store) sortedUsers() []domain.User {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) sortedPosts(keep func(domain.Post) bool) []domain.Post {
	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if keep != nil && !keep(p) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
