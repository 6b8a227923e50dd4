// Package report renders human-readable descriptions of a merge run.
package report

import (
	"fmt"

	"github.com/lehigh-university-libraries/bibmerge/internal/bib"
	"github.com/lehigh-university-libraries/bibmerge/internal/match"
)

// Describe renders one action line per decision. The merged collection
// must be the output of merging the same decisions, so the two run in
// parallel: merged[i] is the entry decision[i] produced. Pure
// formatting, no decision logic.
func Describe(decisions []match.Decision, merged bib.Collection, dryRun bool) []string {
	lines := make([]string, 0, len(decisions))
	for i, d := range decisions {
		var line string
		if d.Matched() {
			line = fmt.Sprintf("merged %q with %q -> kept %q (%s, score %.2f)",
				d.First.Key, d.Second.Key, merged[i].Key, d.Reason, d.Score)
		} else {
			line = fmt.Sprintf("kept %q from %s file unchanged", d.Entry().Key, d.Origin)
		}
		if dryRun {
			line += " [dry-run: nothing written]"
		}
		lines = append(lines, line)
	}
	return lines
}
