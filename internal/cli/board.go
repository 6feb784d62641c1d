package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/agile-notes/internal/app"
	boardtui "github.com/runoshun/agile-notes/internal/tui/board"
	"github.com/runoshun/agile-notes/internal/usecase"
)

// defaultPrintWidth is the terminal width assumed by board --print.
const defaultPrintWidth = 120

// runBoardTUIFunc is a function variable for launching the board viewer, allowing it to be mocked in tests.
var runBoardTUIFunc = runBoardTUI

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	var printOnly bool
	var width int

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse the task board",
		Long: `Show the task notes of the target folder grouped into lanes by state.

Opens an interactive viewer by default:
  h/l or arrows  move between lanes
  j/k            move within a lane
  enter          toggle the detail pane
  r              reload from the vault
  q              quit

With --print, the board is written to stdout once instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowBoardUseCase()
			if !printOnly {
				return runBoardTUIFunc(uc)
			}

			out, err := uc.Execute(cmd.Context(), usecase.ShowBoardInput{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), boardtui.Render(out, width))
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the board and exit")
	cmd.Flags().IntVar(&width, "width", defaultPrintWidth, "Output width for --print (0 puts all lanes on one row)")

	return cmd
}

// runBoardTUI runs the interactive board viewer until the user quits.
func runBoardTUI(loader boardtui.Loader) error {
	p := tea.NewProgram(boardtui.New(loader), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board viewer: %w", err)
	}
	return nil
}
