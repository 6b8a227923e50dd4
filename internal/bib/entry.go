// Package bib defines the in-memory model for bibliographic records.
package bib

import (
	"fmt"
	"strings"
)

// Entry represents one bibliographic record: a citation key, an entry
// type (article, book, inproceedings, ...) and a set of named fields.
// Field names are case-insensitive and stored lowercased.
type Entry struct {
	Key    string
	Type   string
	Fields map[string]string
}

// NewEntry creates an entry with normalized field names.
func NewEntry(key, entryType string, fields map[string]string) Entry {
	normalized := make(map[string]string, len(fields))
	for name, value := range fields {
		normalized[strings.ToLower(name)] = value
	}
	return Entry{
		Key:    key,
		Type:   strings.ToLower(entryType),
		Fields: normalized,
	}
}

// Field returns the value of a field by its case-insensitive name.
func (e Entry) Field(name string) (string, bool) {
	value, ok := e.Fields[strings.ToLower(name)]
	return value, ok
}

// Collection is an ordered sequence of entries from one source file.
// Insertion order is preserved; it is meaningful for deterministic
// output and for order-based tie-breaks during matching.
type Collection []Entry

// Keys returns the citation keys in collection order.
func (c Collection) Keys() []string {
	keys := make([]string, 0, len(c))
	for _, e := range c {
		keys = append(keys, e.Key)
	}
	return keys
}

// MalformedEntryError reports an entry that is missing its citation
// key or entry type. Position is the zero-based index within the
// collection.
type MalformedEntryError struct {
	Position int
	Key      string
	Type     string
}

func (e *MalformedEntryError) Error() string {
	switch {
	case e.Key == "" && e.Type == "":
		return fmt.Sprintf("entry at position %d has no citation key and no entry type", e.Position)
	case e.Key == "":
		return fmt.Sprintf("entry at position %d (@%s) has no citation key", e.Position, e.Type)
	default:
		return fmt.Sprintf("entry %q at position %d has no entry type", e.Key, e.Position)
	}
}

// Validate checks that every entry carries a citation key and an entry
// type. Entries failing the check are rejected before matching.
func (c Collection) Validate() error {
	for i, e := range c {
		if e.Key == "" || e.Type == "" {
			return &MalformedEntryError{Position: i, Key: e.Key, Type: e.Type}
		}
	}
	return nil
}
