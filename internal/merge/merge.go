// Package merge materializes the final collection from match
// decisions.
package merge

import (
	"github.com/lehigh-university-libraries/bibmerge/internal/bib"
	"github.com/lehigh-university-libraries/bibmerge/internal/match"
)

// Preference selects which input collection wins field-value conflicts
// for matched pairs.
type Preference string

const (
	PreferFirst  Preference = "first"
	PreferSecond Preference = "second"
)

// Merge produces the output collection, one entry per decision.
//
// A matched pair becomes a single new entry: the preferred side's key
// and type, with the field union of both sides. Where a field name
// exists on both sides with differing values the preferred side wins;
// fields only the non-preferred side carries are still included.
// Input entries are never mutated. Unmatched entries pass through
// unchanged, so every input entry contributes to exactly one output
// entry.
func Merge(decisions []match.Decision, prefer Preference) bib.Collection {
	out := make(bib.Collection, 0, len(decisions))
	for _, d := range decisions {
		if !d.Matched() {
			out = append(out, *d.Entry())
			continue
		}
		out = append(out, mergePair(*d.First, *d.Second, prefer))
	}
	return out
}

func mergePair(first, second bib.Entry, prefer Preference) bib.Entry {
	preferred, other := first, second
	if prefer == PreferSecond {
		preferred, other = second, first
	}

	fields := make(map[string]string, len(preferred.Fields)+len(other.Fields))
	for name, value := range other.Fields {
		fields[name] = value
	}
	for name, value := range preferred.Fields {
		fields[name] = value
	}

	return bib.Entry{
		Key:    preferred.Key,
		Type:   preferred.Type,
		Fields: fields,
	}
}
