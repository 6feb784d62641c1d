package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/agile-notes/internal/app"
	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/usecase"
)

// newSyncCommand creates the sync command.
func newSyncCommand(c *app.Container) *cobra.Command {
	var dryRun, verbose bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull assigned issues into notes and rebuild the board",
		Long: `Fetch the issues assigned to the configured users, write one note per
active task into the target folder and regenerate the Kanban board.

Notes for tasks that have left the active set are moved to the Completed
subfolder when notes.archive_inactive is set. With git.commit set, the vault
is committed after a successful run.

With --dry-run, issues are fetched and filtered but nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				c.MirrorSyncLog(cmd.ErrOrStderr())
			}

			res := c.SyncTasksUseCase().Execute(cmd.Context(), usecase.SyncTasksInput{DryRun: dryRun})
			if !res.OK() {
				return fmt.Errorf("sync failed during %s (%s): %w", res.Stage, res.Kind, res.Err)
			}

			printSyncResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch and filter only; write nothing")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Also print the sync log to stderr")

	return cmd
}

// printSyncResult writes a summary of a successful run.
func printSyncResult(w io.Writer, res *domain.SyncResult) {
	if res.DryRun {
		_, _ = fmt.Fprintf(w, "Dry run: %d active tasks (%d fetched)\n", len(res.Tasks), res.Fetched)
		if len(res.Tasks) == 0 {
			return
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, t := range res.Tasks {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\n", t.ID, t.State, t.Title)
		}
		_ = tw.Flush()
		return
	}

	_, _ = fmt.Fprintf(w, "Synced %d active tasks (%d fetched): %d written, %d unchanged, %d moved, %d archived\n",
		len(res.Tasks), res.Fetched, res.Written, res.Unchanged, res.Moved, res.Archived)
	if res.BoardChanged {
		_, _ = fmt.Fprintln(w, "Board updated")
	} else {
		_, _ = fmt.Fprintln(w, "Board unchanged")
	}
	if res.Committed {
		_, _ = fmt.Fprintln(w, "Committed vault snapshot")
	}
}
