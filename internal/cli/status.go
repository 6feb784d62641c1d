package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/agile-notes/internal/app"
	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/usecase"
)

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent sync runs",
		Long: `Show the most recent sync runs of this vault, newest first.

Use --limit -1 to show the whole stored history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowStatusUseCase().Execute(cmd.Context(), usecase.ShowStatusInput{Limit: limit})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Runs) == 0 {
				_, _ = fmt.Fprintln(w, "No sync runs recorded")
				return nil
			}
			printRuns(w, out.Runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of runs to show")

	return cmd
}

// printRuns writes runs as a table.
func printRuns(w io.Writer, runs []domain.SyncRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "STARTED\tDURATION\tRESULT\tACTIVE\tWRITTEN\tUNCHANGED\tMOVED\tARCHIVED")

	// Rows
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Started.Local().Format(time.DateTime),
			r.Duration().Round(time.Millisecond),
			runResult(r),
			r.Active,
			r.Written,
			r.Unchanged,
			r.Moved,
			r.Archived,
		)
	}
}

// runResult summarizes how a run ended.
func runResult(r domain.SyncRecord) string {
	if r.Error == "" {
		if r.Committed {
			return "ok (committed)"
		}
		return "ok"
	}
	return fmt.Sprintf("failed at %s (%s): %s", r.Stage, r.Kind, r.Error)
}
