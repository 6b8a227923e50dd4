// Package match pairs up entries from two collections that describe
// the same publication.
package match

import (
	"runtime"
	"sort"
	"sync"

	"github.com/lehigh-university-libraries/bibmerge/internal/bib"
	"github.com/lehigh-university-libraries/bibmerge/internal/similarity"
)

// Mode selects how aggressively entries are paired.
type Mode string

const (
	// ModeIdenticalOnly pairs entries only when they are identical by
	// key or by full field equality.
	ModeIdenticalOnly Mode = "identical_only"
	// ModeSimilarity additionally pairs entries whose combined
	// similarity reaches the configured threshold.
	ModeSimilarity Mode = "similarity"
)

// DefaultThreshold is the minimum combined similarity for a
// non-identical pair to be treated as the same publication.
const DefaultThreshold = 0.85

// Origin tags which input collection an unmatched entry came from.
type Origin string

const (
	OriginFirst  Origin = "first"
	OriginSecond Origin = "second"
)

// Options configures a resolution run.
type Options struct {
	Mode      Mode
	Threshold float64
}

// Decision is one pairing outcome. For a matched pair both First and
// Second are set. For an unmatched entry exactly one side is set,
// indicated by Origin.
type Decision struct {
	First  *bib.Entry
	Second *bib.Entry
	Score  float64
	Reason similarity.Reason
	Origin Origin // empty for matched pairs
}

// Matched reports whether the decision pairs two entries.
func (d Decision) Matched() bool {
	return d.First != nil && d.Second != nil
}

// Entry returns the single entry of an unmatched decision.
func (d Decision) Entry() *bib.Entry {
	if d.First != nil {
		return d.First
	}
	return d.Second
}

// candidate is an eligible pair awaiting the uniqueness pass.
type candidate struct {
	i, j int
	res  similarity.Result
}

// Resolve computes all pairwise scores between the two collections and
// partitions the entries into matched pairs and unmatched singletons.
//
// Each entry matches at most one counterpart. When several eligible
// pairs compete for the same entry, identical pairs win over
// similarity-only pairs, higher scores win among those, and remaining
// ties fall to the earlier entry in collection order. This is a greedy
// approximation of maximum-weight matching; an optimal assignment is
// not worth the complexity at the collection sizes this tool sees.
//
// Decisions come back in output order: one per first-collection entry
// (matched or unmatched) in original order, then the unmatched
// second-collection entries in their original order. Identical inputs
// always produce identical decisions.
func Resolve(first, second bib.Collection, opts Options) []Decision {
	scores := scoreAll(first, second)

	var candidates []candidate
	for i := range first {
		for j := range second {
			res := scores[i][j]
			switch {
			case res.Identical:
				candidates = append(candidates, candidate{i, j, res})
			case opts.Mode == ModeSimilarity && res.Value >= opts.Threshold:
				candidates = append(candidates, candidate{i, j, res})
			}
		}
	}

	sort.SliceStable(candidates, func(x, y int) bool {
		cx, cy := candidates[x], candidates[y]
		if cx.res.Identical != cy.res.Identical {
			return cx.res.Identical
		}
		if cx.res.Value != cy.res.Value {
			return cx.res.Value > cy.res.Value
		}
		if cx.i != cy.i {
			return cx.i < cy.i
		}
		return cx.j < cy.j
	})

	// Claimed-index tracking is local to this call so resolution stays
	// a pure function of its inputs.
	claimedFirst := make([]bool, len(first))
	claimedSecond := make([]bool, len(second))
	matchedBy := make(map[int]candidate, len(candidates))

	for _, c := range candidates {
		if claimedFirst[c.i] || claimedSecond[c.j] {
			continue
		}
		claimedFirst[c.i] = true
		claimedSecond[c.j] = true
		matchedBy[c.i] = c
	}

	decisions := make([]Decision, 0, len(first)+len(second))
	for i := range first {
		c, ok := matchedBy[i]
		if !ok {
			decisions = append(decisions, Decision{First: &first[i], Origin: OriginFirst})
			continue
		}
		reason := c.res.Reason
		if !c.res.Identical {
			reason = similarity.ReasonSimilarity
		}
		decisions = append(decisions, Decision{
			First:  &first[i],
			Second: &second[c.j],
			Score:  c.res.Value,
			Reason: reason,
		})
	}
	for j := range second {
		if !claimedSecond[j] {
			decisions = append(decisions, Decision{Second: &second[j], Origin: OriginSecond})
		}
	}

	return decisions
}

// scoreAll computes the full pairwise score matrix. Rows are scored
// concurrently; each pair is independent, and collecting into an
// indexed matrix keeps the result order-independent.
func scoreAll(first, second bib.Collection) [][]similarity.Result {
	scores := make([][]similarity.Result, len(first))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, runtime.NumCPU())

	for i := range first {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			row := make([]similarity.Result, len(second))
			for j := range second {
				row[j] = similarity.Score(first[i], second[j])
			}
			scores[i] = row
		}(i)
	}

	wg.Wait()
	return scores
}
