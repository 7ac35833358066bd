// Package cli implements the blogctl operator commands.
package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"blog-cms/internal/bootstrap"
	"blog-cms/internal/config"
	"blog-cms/internal/logging"
	"blog-cms/internal/persistence"
)

// NewRootCommand builds the blogctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "blogctl",
		Short: "Inspect and move blog data between persistence backends",
		Long: `blogctl works on the same persistence backend the server is configured with
(BLOG_PERSISTENCE_DRIVER, BLOG_PERSISTENCE_FILE, BLOG_PERSISTENCE_SQLITEPATH, ...).

Examples:
  blogctl stats
  blogctl export --out backup.json
  BLOG_PERSISTENCE_DRIVER=sqlite blogctl import --in backup.json`,
		SilenceUsage: true,
	}

	root.AddCommand(newStatsCommand())
	root.AddCommand(newExportCommand())
	root.AddCommand(newImportCommand())
	return root
}

// openBackend loads config and opens the configured persister.
func openBackend(ctx context.Context) (persistence.Persister, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	objects, err := bootstrap.BuildStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup storage: %w", err)
	}
	p, err := bootstrap.OpenPersister(ctx, cfg, objects, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open persistence: %w", err)
	}
	return p, logger, nil
}
