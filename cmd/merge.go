package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibmerge/internal/bibio"
	"github.com/lehigh-university-libraries/bibmerge/internal/match"
	"github.com/lehigh-university-libraries/bibmerge/internal/merge"
	"github.com/lehigh-university-libraries/bibmerge/internal/report"
)

func newMergeCmd() *cobra.Command {
	var output string
	var overwrite bool
	var preferSecond bool
	var onlyIdentical bool
	var dryRun bool
	var threshold float64
	var summaryPath string

	cmd := &cobra.Command{
		Use:   "merge <bib_file_1> <bib_file_2>",
		Short: "Merge two BibTeX files, deduplicating matching entries",
		Long: `Merge two BibTeX files into a single deduplicated output file.

Entries with identical citation keys or identical field sets are always
merged. Unless --only-identical is set, entries whose combined key and
field-value similarity reaches the threshold are merged as well. Each
entry is merged with at most one counterpart; everything unmatched is
carried through unchanged.`,
		Example: `  # Merge with defaults (similarity matching, first file preferred)
  bibmerge merge refs_a.bib refs_b.bib

  # Only merge entries that are identical by key or by all fields
  bibmerge merge --only-identical refs_a.bib refs_b.bib

  # Prefer the second file's values and show what would happen
  bibmerge merge --prefer-second --dry-run refs_a.bib refs_b.bib`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Env default for the threshold when the flag is untouched
			if !cmd.Flags().Changed("threshold") {
				if v := os.Getenv("BIBMERGE_THRESHOLD"); v != "" {
					parsed, err := strconv.ParseFloat(v, 64)
					if err != nil {
						return fmt.Errorf("invalid BIBMERGE_THRESHOLD %q: %w", v, err)
					}
					threshold = parsed
				}
			}
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("threshold must be in [0,1], got %g", threshold)
			}

			return executeMerge(args[0], args[1], output, summaryPath,
				overwrite, preferSecond, onlyIdentical, dryRun, threshold)
		},
	}

	cmd.Flags().StringVar(&output, "output", "merged.bib", "Name of the merged output file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite the output file if it exists")
	cmd.Flags().BoolVar(&preferSecond, "prefer-second", false, "Prefer the second file's entry in case of conflicts (default: first)")
	cmd.Flags().BoolVar(&onlyIdentical, "only-identical", false, "Only merge identical entries (identical keys or identical fields)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only print actions, do not write anything")
	cmd.Flags().Float64Var(&threshold, "threshold", match.DefaultThreshold, "Similarity threshold for non-identical matches")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "Write a YAML summary of the run to this path")

	return cmd
}

func executeMerge(path1, path2, output, summaryPath string,
	overwrite, preferSecond, onlyIdentical, dryRun bool, threshold float64) error {

	if dryRun {
		slog.Info("Starting dry-run: no files will be written")
	}

	// Refuse a clobbered output before doing any work
	if _, err := os.Stat(output); err == nil && !overwrite {
		return fmt.Errorf("%w: %s", bibio.ErrOutputExists, output)
	}

	first, err := bibio.Load(path1)
	if err != nil {
		return err
	}
	second, err := bibio.Load(path2)
	if err != nil {
		return err
	}
	slog.Info("Loaded both bib files", "first", len(first), "second", len(second))

	if err := first.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path1, err)
	}
	if err := second.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path2, err)
	}

	mode := match.ModeSimilarity
	if onlyIdentical {
		mode = match.ModeIdenticalOnly
	}
	prefer := merge.PreferFirst
	if preferSecond {
		prefer = merge.PreferSecond
	}

	slog.Info("Resolving matches", "mode", string(mode), "threshold", threshold)
	decisions := match.Resolve(first, second, match.Options{Mode: mode, Threshold: threshold})
	merged := merge.Merge(decisions, prefer)

	for _, line := range report.Describe(decisions, merged, dryRun) {
		fmt.Println(line)
	}

	if summaryPath != "" {
		summary := report.BuildSummary(report.RunConfig{
			FirstFile:  path1,
			SecondFile: path2,
			Mode:       string(mode),
			Preference: string(prefer),
			Threshold:  threshold,
			DryRun:     dryRun,
		}, decisions, merged)
		if err := summary.SaveYAML(summaryPath); err != nil {
			return err
		}
		slog.Info("Summary written", "path", summaryPath)
	}

	if dryRun {
		slog.Info("Dry-run complete", "entries", len(merged))
		return nil
	}

	if err := bibio.Write(output, merged, overwrite); err != nil {
		return err
	}
	slog.Info("Merged file written", "output", output, "entries", len(merged))

	return nil
}
