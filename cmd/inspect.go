package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibmerge/internal/bibio"
)

func newInspectCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect <bib_file>",
		Short: "Inspect parsed entries of a BibTeX file",
		Long: `Inspect entries from a BibTeX file as bibmerge sees them after parsing.

Useful for checking what the merge will compare: citation keys, entry
types, and normalized field names and values.`,
		Example: `  # Inspect the first 10 entries
  bibmerge inspect refs.bib

  # Inspect all entries (no limit)
  bibmerge inspect --limit 0 refs.bib`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := bibio.Load(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d entries\n", args[0], len(collection))

			for i, entry := range collection {
				if limit > 0 && i >= limit {
					fmt.Printf("... and %d more (use --limit 0 to show all)\n", len(collection)-limit)
					break
				}

				fmt.Printf("\n[%d] @%s{%s}\n", i+1, entry.Type, entry.Key)

				names := make([]string, 0, len(entry.Fields))
				for name := range entry.Fields {
					names = append(names, name)
				}
				sort.Strings(names)

				for _, name := range names {
					fmt.Printf("  %s: %s\n", name, entry.Fields[name])
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries to show (0 for all)")

	return cmd
}
