// Package cli provides the command-line interface for agile-notes.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/agile-notes/internal/app"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupSync  = "sync"
)

// EnvVault names the environment variable holding the default vault directory.
const EnvVault = "AGILE_NOTES_VAULT"

// NewRootCommand creates the root command for agile-notes.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var vault string

	root := &cobra.Command{
		Use:   "agile-notes",
		Short: "Sync Jira issues into an Obsidian vault",
		Long: `agile-notes mirrors the Jira issues assigned to you as Markdown notes
in an Obsidian vault and keeps a Kanban board of them up to date.

Run it from the vault directory or pass --vault.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "template" {
				return nil
			}

			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				// Reported by the command itself
				return nil
			}

			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Read by main before the container is built; registered so cobra accepts it
	root.PersistentFlags().StringVar(&vault, "vault", "", "Vault directory (default: $"+EnvVault+" or current directory)")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupSync, Title: "Sync Commands:"},
	)

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	syncCmd := newSyncCommand(c)
	syncCmd.GroupID = groupSync

	boardCmd := newBoardCommand(c)
	boardCmd.GroupID = groupSync

	statusCmd := newStatusCommand(c)
	statusCmd.GroupID = groupSync

	root.AddCommand(
		configCmd,
		syncCmd,
		boardCmd,
		statusCmd,
	)

	return root
}

// VaultFromArgs returns the vault directory named by a --vault flag in args,
// falling back to the environment and then to the current directory (".").
func VaultFromArgs(args []string, getenv func(string) string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "--vault" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--vault="); ok {
			return v
		}
	}
	if v := getenv(EnvVault); v != "" {
		return v
	}
	return "."
}
