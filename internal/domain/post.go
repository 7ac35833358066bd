package domain

import "time"

// Post is a blog entry written by a User.
type Post struct {
	ID        int64
	AuthorID  int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot captures the complete state of the blog: every user, every post and
// the next ids the store will hand out.
type Snapshot struct {
	Users      []User
	Posts      []Post
	NextUserID int64
	NextPostID int64
}
