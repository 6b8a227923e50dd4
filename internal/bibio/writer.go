package bibio

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/bibmerge/internal/bib"
)

// ErrOutputExists is returned by Write when the output path already
// exists and overwriting was not requested.
var ErrOutputExists = errors.New("output file already exists")

const banner = "%% Generated by bibmerge\n\n"

// Render serializes a collection to BibTeX text. Entries keep their
// collection order and field names are sorted, so identical
// collections always render byte-identically.
func Render(c bib.Collection) string {
	var sb strings.Builder
	sb.WriteString(banner)

	for _, e := range c {
		sb.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, e.Key))

		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		for i, name := range names {
			sb.WriteString(fmt.Sprintf("  %s = {%s}", name, e.Fields[name]))
			if i < len(names)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("}\n\n")
	}

	return sb.String()
}

// Write renders the collection to the given path. An existing file is
// only replaced when overwrite is set; otherwise the write is refused
// with ErrOutputExists and nothing is touched.
func Write(path string, c bib.Collection, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}

	if err := os.WriteFile(path, []byte(Render(c)), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}
