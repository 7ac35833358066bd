// Package bootstrap assembles the storage and persistence components shared
// by the server and the blogctl tool.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"blog-cms/internal/config"
	"blog-cms/internal/persistence"
	"blog-cms/internal/repository/memory"
	"blog-cms/internal/storage"
)

// BuildStorage returns the S3 service for the configured bucket, or nil when
// mirroring is disabled.
func BuildStorage(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (storage.Service, error) {
	if !cfg.MirrorEnabled() {
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("mirroring snapshots to s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}

// OpenPersister opens the configured backend, wrapped in a Mirror when
// objects is non-nil.
func OpenPersister(ctx context.Context, cfg config.Config, objects storage.Service, logger logrus.FieldLogger) (persistence.Persister, error) {
	var local persistence.Persister
	switch cfg.Persistence.Driver {
	case config.DriverSQLite:
		db, err := persistence.OpenSQLite(ctx, cfg.Persistence.SQLitePath)
		if err != nil {
			return nil, err
		}
		local = db
	case config.DriverJSON, "":
		local = persistence.NewFileStore(afero.NewOsFs(), cfg.Persistence.File)
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}

	if objects == nil {
		return local, nil
	}
	return persistence.NewMirror(local, objects, cfg.Storage.Bucket, cfg.Storage.KeyPrefix, logger), nil
}

// Restore fills the store from the persister. A missing snapshot leaves the
// store empty; any other load failure is logged and the store starts empty.
func Restore(ctx context.Context, store *memory.Store, p persistence.Persister, logger logrus.FieldLogger) {
	snap, err := p.Load(ctx)
	if errors.Is(err, persistence.ErrNoSnapshot) {
		logger.Info("no saved data, starting empty")
		return
	}
	if err != nil {
		logger.WithError(err).Error("load saved data, starting empty")
		return
	}

	res := store.Restore(*snap)
	fields := logrus.Fields{
		"users": len(snap.Users) - res.DuplicateUsers,
		"posts": len(snap.Posts) - res.OrphanPosts,
	}
	if res.DuplicateUsers > 0 {
		logger.WithFields(fields).Warnf("dropped %d users with a duplicate email or login", res.DuplicateUsers)
	}
	if res.OrphanPosts > 0 {
		logger.WithFields(fields).Warnf("dropped %d posts without an author", res.OrphanPosts)
	}
	logger.WithFields(fields).Info("restored saved data")
}
