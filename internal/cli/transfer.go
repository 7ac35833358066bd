package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"blog-cms/internal/persistence"
	"blog-cms/internal/repository/memory"
)

const (
	outFlag = "out"
	inFlag  = "in"
)

var exportFlags = map[string]cobraflags.Flag{
	outFlag: &cobraflags.StringFlag{
		Name:  outFlag,
		Value: "export.json",
		Usage: "File to write the JSON document to",
	},
}

var importFlags = map[string]cobraflags.Flag{
	inFlag: &cobraflags.StringFlag{
		Name:  inFlag,
		Value: "",
		Usage: "JSON document to load into the configured backend (required)",
	},
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved data as a JSON document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, logger, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			out := exportFlags[outFlag].GetString()
			if err := exportSnapshot(cmd.Context(), p, afero.NewOsFs(), out); err != nil {
				return err
			}
			logger.WithField("file", out).Info("export done")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, exportFlags)
	return cmd
}

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the saved data with a JSON document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := importFlags[inFlag].GetString()
			if in == "" {
				return fmt.Errorf("--%s is required", inFlag)
			}

			p, logger, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			return importSnapshot(cmd.Context(), p, afero.NewOsFs(), in, logger)
		},
	}
	cobraflags.RegisterMap(cmd, importFlags)
	return cmd
}

func exportSnapshot(ctx context.Context, p persistence.Persister, fs afero.Fs, out string) error {
	snap, err := p.Load(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrNoSnapshot) {
			return errors.New("nothing to export: no saved data")
		}
		return err
	}
	return persistence.NewFileStore(fs, out).Save(ctx, *snap)
}

// importSnapshot passes the document through a Store so the saved state keeps
// the store invariants: unique emails and logins, no orphan posts and counters
// past every id.
func importSnapshot(ctx context.Context, p persistence.Persister, fs afero.Fs, in string, logger logrus.FieldLogger) error {
	snap, err := persistence.NewFileStore(fs, in).Load(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrNoSnapshot) {
			return fmt.Errorf("%s does not exist", in)
		}
		return err
	}

	store := memory.NewStore()
	res := store.Restore(*snap)
	if res.DuplicateUsers > 0 {
		logger.Warnf("dropped %d users with a duplicate email or login", res.DuplicateUsers)
	}
	if res.OrphanPosts > 0 {
		logger.Warnf("dropped %d posts without an author", res.OrphanPosts)
	}
	clean := store.Snapshot()
	if err := p.Save(ctx, clean); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"users": len(clean.Users),
		"posts": len(clean.Posts),
	}).Info("import done")
	return nil
}
