package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bibmerge",
		Short: "Merge two BibTeX files into a single deduplicated file",
		Long: `Bibmerge merges two existing BibTeX files (.bib) into a single file.

Not only entries with identical keys or identical fields are merged but also
similar ones, using a configurable text-similarity threshold. Which side wins
field conflicts, whether similarity matching is used at all, and whether
anything is written to disk are all controlled by flags.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newMergeCmd())
	cmd.AddCommand(newInspectCmd())

	return cmd
}
