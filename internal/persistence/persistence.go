// Package persistence saves and restores the full blog state.
//
// Every backend stores the complete snapshot on each Save; there is no
// incremental write path.
package persistence

import (
	"context"
	"errors"

	"blog-cms/internal/domain"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot")

// Persister is a full-state snapshot backend.
type Persister interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap domain.Snapshot) error
	Close() error
}
