package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"blog-cms/internal/domain"
)

// saveTimeout bounds a snapshot save once it is detached from the request.
const saveTimeout = 30 * time.Second

// SnapshotSource yields the current full state of the blog.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// SnapshotSaver persists a full snapshot.
type SnapshotSaver interface {
	Save(ctx context.Context, snap domain.Snapshot) error
}

// Committer serializes mutations: validation, the store write and the
// snapshot save of one operation never interleave with another operation.
type Committer struct {
	mu     sync.Mutex
	source SnapshotSource
	saver  SnapshotSaver
	logger logrus.FieldLogger
}

func NewCommitter(source SnapshotSource, saver SnapshotSaver, logger logrus.FieldLogger) *Committer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Committer{
		source: source,
		saver:  saver,
		logger: logger,
	}
}

// Do runs fn under the write lock and persists the store when fn succeeds.
// The save outlives cancellation of ctx, since the store already changed.
// Save failures are logged and not returned to the caller.
func (c *Committer) Do(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	if c.saver == nil {
		return nil
	}
	snap := c.source.Snapshot()
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := c.saver.Save(saveCtx, snap); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"users": len(snap.Users),
			"posts": len(snap.Posts),
		}).Error("persist snapshot")
	}
	return nil
}
