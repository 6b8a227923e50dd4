// Package similarity scores how likely two bibliographic entries are
// to describe the same publication.
package similarity

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/lehigh-university-libraries/bibmerge/internal/bib"
)

// Weights for combining the key similarity with the averaged
// field-value similarity.
const (
	KeyWeight   = 0.5
	FieldWeight = 0.5
)

// Reason describes why two entries were considered the same
// publication.
type Reason string

const (
	ReasonIdenticalKey    Reason = "identical_key"
	ReasonIdenticalFields Reason = "identical_fields"
	ReasonSimilarity      Reason = "similarity_threshold"
)

// Result is the outcome of scoring one unordered pair of entries.
type Result struct {
	Identical bool
	Reason    Reason  // set when Identical
	Value     float64 // combined similarity in [0,1]
}

// Score compares two entries. A pair is identical when the citation
// keys match exactly (case-sensitive) or when every field present in
// the union of both field sets has an equal value on both sides. A
// field missing on one side breaks identity even against an empty
// string on the other.
//
// The similarity value combines the key similarity and the averaged
// field-value similarity. Fields present on only one side contribute
// zero and still count in the denominator, penalizing low overlap.
// Score is pure, deterministic, and symmetric.
func Score(a, b bib.Entry) Result {
	if a.Key == b.Key {
		return Result{Identical: true, Reason: ReasonIdenticalKey, Value: 1.0}
	}
	if identicalFields(a, b) {
		return Result{Identical: true, Reason: ReasonIdenticalFields, Value: 1.0}
	}

	keySim := Ratio(a.Key, b.Key)

	union := make(map[string]struct{}, len(a.Fields)+len(b.Fields))
	for name := range a.Fields {
		union[name] = struct{}{}
	}
	for name := range b.Fields {
		union[name] = struct{}{}
	}

	// Sum in sorted name order: float addition is order-sensitive, and
	// map iteration order would make the score vary between calls.
	names := make([]string, 0, len(union))
	for name := range union {
		names = append(names, name)
	}
	sort.Strings(names)

	var total float64
	for _, name := range names {
		va, oka := a.Fields[name]
		vb, okb := b.Fields[name]
		if oka && okb {
			total += Ratio(va, vb)
		}
		// one-sided fields stay at zero but widen the denominator
	}

	var avgFieldSim float64
	if len(names) > 0 {
		avgFieldSim = total / float64(len(names))
	}

	return Result{Value: KeyWeight*keySim + FieldWeight*avgFieldSim}
}

// identicalFields reports whether both entries carry exactly the same
// field names with exactly the same values.
func identicalFields(a, b bib.Entry) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for name, va := range a.Fields {
		vb, ok := b.Fields[name]
		if !ok || va != vb {
			return false
		}
	}
	return true
}

// Ratio is the normalized Levenshtein similarity of two strings,
// case-insensitive and whitespace-trimmed. 1.0 means identical, 0.0
// means nothing in common.
func Ratio(s1, s2 string) float64 {
	s1 = strings.ToLower(strings.TrimSpace(s1))
	s2 = strings.ToLower(strings.TrimSpace(s2))

	if s1 == s2 {
		return 1.0
	}

	maxLen := utf8.RuneCountInString(s1)
	if l := utf8.RuneCountInString(s2); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)
	return 1.0 - float64(distance)/float64(maxLen)
}
