package similarity

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bibmerge/internal/bib"
)

func TestScoreIdentical(t *testing.T) {
	tests := []struct {
		name       string
		a, b       bib.Entry
		wantReason Reason
	}{
		{
			name:       "identical keys, different fields",
			a:          bib.NewEntry("smit54", "article", map[string]string{"title": "A Theory"}),
			b:          bib.NewEntry("smit54", "article", map[string]string{"title": "Another Theory"}),
			wantReason: ReasonIdenticalKey,
		},
		{
			name: "different keys, identical fields",
			a: bib.NewEntry("smit54", "article", map[string]string{
				"title": "A Theory", "year": "1954",
			}),
			b: bib.NewEntry("smith1954", "article", map[string]string{
				"title": "A Theory", "year": "1954",
			}),
			wantReason: ReasonIdenticalFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.a, tt.b)
			if !result.Identical {
				t.Fatal("Expected identical result")
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Expected reason %q, got %q", tt.wantReason, result.Reason)
			}
			if result.Value != 1.0 {
				t.Errorf("Identical pairs should score 1.0, got %.2f", result.Value)
			}
		})
	}
}

func TestScoreMissingFieldBreaksIdentity(t *testing.T) {
	// A field missing on one side is distinct from an empty string on
	// the other, so these are not identical.
	a := bib.NewEntry("a1", "article", map[string]string{"title": "A Theory", "note": ""})
	b := bib.NewEntry("a2", "article", map[string]string{"title": "A Theory"})

	result := Score(a, b)
	if result.Identical {
		t.Error("Missing field should break full-field identity against empty string")
	}
}

func TestScoreCombinesKeyAndFieldSimilarity(t *testing.T) {
	// Key sim: "a1" vs "a2" = 0.5. Fields: title 1.0, year 0.75,
	// average 0.875. Combined: 0.5*0.5 + 0.5*0.875 = 0.6875.
	a := bib.NewEntry("a1", "article", map[string]string{
		"title": "Deep Learning", "year": "2015",
	})
	b := bib.NewEntry("a2", "article", map[string]string{
		"title": "Deep Learning", "year": "2016",
	})

	result := Score(a, b)
	if result.Identical {
		t.Fatal("Entries differ, should not be identical")
	}
	if result.Value < 0.68 || result.Value > 0.70 {
		t.Errorf("Expected combined score near 0.6875, got %.4f", result.Value)
	}
}

func TestScoreOneSidedFieldsWidenDenominator(t *testing.T) {
	a := bib.NewEntry("x1", "article", map[string]string{"title": "Same Title"})
	b := bib.NewEntry("y1", "article", map[string]string{
		"title": "Same Title", "year": "2000", "publisher": "ACM",
	})

	// Field sim: title 1.0 over a union of 3 names = 1/3.
	result := Score(a, b)
	fieldPart := result.Value - KeyWeight*Ratio("x1", "y1")
	want := FieldWeight * (1.0 / 3.0)
	if fieldPart < want-0.001 || fieldPart > want+0.001 {
		t.Errorf("Expected field contribution %.4f, got %.4f", want, fieldPart)
	}
}

func TestScoreDeterministicAcrossCalls(t *testing.T) {
	// Many fields whose per-field ratios are not exact binary
	// fractions (1 - 1/n), so any variation in summation order shows
	// up in the final float. The score must be bit-identical on every
	// call.
	fieldsA := make(map[string]string)
	fieldsB := make(map[string]string)
	for n := 3; n <= 17; n++ {
		name := fmt.Sprintf("field%02d", n)
		fieldsA[name] = strings.Repeat("a", n)
		// one substitution in n characters: ratio 1 - 1/n
		fieldsB[name] = strings.Repeat("a", n-1) + "b"
	}

	a := bib.NewEntry("key1", "article", fieldsA)
	b := bib.NewEntry("key2", "article", fieldsB)

	baseline := Score(a, b)
	for i := 0; i < 100; i++ {
		if got := Score(a, b); got.Value != baseline.Value {
			t.Fatalf("Score varied between calls: %.17f vs %.17f on iteration %d",
				got.Value, baseline.Value, i)
		}
	}
}

func TestScoreSymmetry(t *testing.T) {
	entries := []bib.Entry{
		bib.NewEntry("smit54", "article", map[string]string{"title": "A Theory", "year": "1954"}),
		bib.NewEntry("colu92", "book", map[string]string{"title": "Discovering America"}),
		bib.NewEntry("gree00", "inproceedings", map[string]string{"author": "Greenwade, G."}),
		bib.NewEntry("smit55", "article", map[string]string{"title": "A Theory ", "note": ""}),
	}

	for i, a := range entries {
		for j, b := range entries {
			ab := Score(a, b)
			ba := Score(b, a)
			if ab != ba {
				t.Errorf("Score(%d,%d)=%+v differs from Score(%d,%d)=%+v", i, j, ab, j, i, ba)
			}
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		s1, s2   string
		want     float64
		tolerant bool
	}{
		{name: "identical", s1: "deep learning", s2: "deep learning", want: 1.0},
		{name: "case-insensitive", s1: "Deep Learning", s2: "deep learning", want: 1.0},
		{name: "whitespace-trimmed", s1: "  deep learning ", s2: "deep learning", want: 1.0},
		{name: "both empty", s1: "", s2: "", want: 1.0},
		{name: "one empty", s1: "abcd", s2: "", want: 0.0},
		{name: "one edit in four", s1: "2015", s2: "2016", want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.s1, tt.s2)
			if got != tt.want {
				t.Errorf("Ratio(%q, %q) = %.4f, want %.4f", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"completely different", "nothing alike at all"},
		{"a", "zzzzzzzzzz"},
		{"Ünïcode", "unicode"},
	}

	for _, p := range pairs {
		got := Ratio(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Ratio(%q, %q) = %.4f outside [0,1]", p[0], p[1], got)
		}
	}
}
