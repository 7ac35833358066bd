package persistence

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"blog-cms/internal/domain"
	"blog-cms/internal/storage"
)

const (
	mirrorObjectName = "snapshot.json"
	mirrorTimeout    = 30 * time.Second
)

// Mirror copies every successfully saved snapshot to object storage and
// falls back to that copy when the local backend has nothing to load.
type Mirror struct {
	local  Persister
	remote storage.Service
	bucket string
	key    string
	logger logrus.FieldLogger
}

func NewMirror(local Persister, remote storage.Service, bucket, keyPrefix string, logger logrus.FieldLogger) *Mirror {
	if logger == nil {
		logger = logrus.New()
	}
	return &Mirror{
		local:  local,
		remote: remote,
		bucket: bucket,
		key:    MirrorKey(keyPrefix),
		logger: logger,
	}
}

// MirrorKey is the object key the snapshot copy is stored under.
func MirrorKey(keyPrefix string) string {
	prefix := strings.Trim(keyPrefix, "/")
	if prefix == "" {
		return mirrorObjectName
	}
	return path.Join(prefix, mirrorObjectName)
}

func (m *Mirror) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := m.local.Load(ctx)
	if !errors.Is(err, ErrNoSnapshot) {
		return snap, err
	}

	data, err := m.remote.GetObject(ctx, m.bucket, m.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("fetch mirror copy: %w", err)
	}
	snap, err = DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	m.logger.WithFields(logrus.Fields{
		"bucket": m.bucket,
		"key":    m.key,
	}).Info("restored snapshot from mirror")
	return snap, nil
}

// Save stores the snapshot locally first. The remote copy is best effort:
// upload failures are logged and do not fail the save.
func (m *Mirror) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := m.local.Save(ctx, snap); err != nil {
		return err
	}

	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	uploadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorTimeout)
	defer cancel()
	if err := m.remote.PutObject(uploadCtx, m.bucket, m.key, data, "application/json"); err != nil {
		m.logger.WithError(err).WithField("key", m.key).Warn("mirror snapshot")
	}
	return nil
}

func (m *Mirror) Close() error {
	return m.local.Close()
}

var _ Persister = (*Mirror)(nil)
