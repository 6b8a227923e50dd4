// Package bibio reads and writes BibTeX files at the boundary of the
// merge core.
package bibio

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/lehigh-university-libraries/bibmerge/internal/bib"
)

// Load parses a BibTeX file into a collection. Percent-comment lines
// are dropped first, so files carrying generated banners or
// commented-out entries load cleanly. Field names are lowercased and
// values whitespace-trimmed. Duplicate citation keys within one file
// keep the last occurrence, matching how BibTeX processors resolve
// repeats, so a loaded collection is always key-unique.
func Load(path string) (bib.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bib file: %w", err)
	}

	parsed, err := bibtex.Parse(strings.NewReader(stripComments(string(data))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	seen := make(map[string]int)
	var collection bib.Collection
	for _, e := range parsed.Entries {
		fields := make(map[string]string, len(e.Fields))
		for name, value := range e.Fields {
			fields[strings.ToLower(name)] = strings.TrimSpace(value.String())
		}
		entry := bib.Entry{
			Key:    e.CiteName,
			Type:   strings.ToLower(e.Type),
			Fields: fields,
		}
		if idx, ok := seen[entry.Key]; ok {
			collection[idx] = entry
			continue
		}
		seen[entry.Key] = len(collection)
		collection = append(collection, entry)
	}

	slog.Debug("Parsed bib file", "path", path, "entries", len(collection))

	return collection, nil
}

// stripComments removes lines whose first non-blank character is '%'.
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
