package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"blog-cms/internal/persistence"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print user and post counts of the saved data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()
			return writeStats(cmd.Context(), cmd.OutOrStdout(), p)
		},
	}
}

func writeStats(ctx context.Context, w io.Writer, p persistence.Persister) error {
	snap, err := p.Load(ctx)
	if errors.Is(err, persistence.ErrNoSnapshot) {
		_, err = fmt.Fprintln(w, "no saved data")
		return err
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "users: %d\nposts: %d\nnext user id: %d\nnext post id: %d\n",
		len(snap.Users), len(snap.Posts), snap.NextUserID, snap.NextPostID)
	return err
}
