package domain

import "time"

// User represents a registered blog author.
type User struct {
	ID        int64
	Email     string
	Login     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
