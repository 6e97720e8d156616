// core/tsv/schema.go
package tsv

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Tab   = "\t"
	Space = " "
	// NA marks missing or inapplicable values.
	NA = "NA"
)

var ErrMissingColumn = errors.New("tsv: missing column")

// Split splits line on delim and drops trailing empty fields, so a header
// written with a trailing delimiter has the same width as its rows.
func Split(line, delim string) []string {
	f := strings.Split(line, delim)
	n := len(f)
	for n > 0 && f[n-1] == "" {
		n--
	}
	return f[:n]
}

// Schema resolves column names to indexes. Consumers never assume fixed
// offsets beyond the leading coordinate columns.
type Schema struct {
	Names []string
	Delim string
	index map[string]int
}

// ParseHeader builds a Schema from a header line. When a name repeats the
// first occurrence wins.
func ParseHeader(line, delim string) Schema {
	return NewSchema(Split(line, delim), delim)
}

func NewSchema(names []string, delim string) Schema {
	s := Schema{Names: names, Delim: delim, index: make(map[string]int, len(names))}
	for i, n := range names {
		if _, dup := s.index[n]; !dup {
			s.index[n] = i
		}
	}
	return s
}

func (s Schema) Width() int { return len(s.Names) }

func (s Schema) Empty() bool { return len(s.Names) == 0 }

func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Require resolves every name or fails with ErrMissingColumn listing all
// absent columns.
func (s Schema) Require(names ...string) ([]int, error) {
	out := make([]int, len(names))
	var missing []string
	for i, n := range names {
		idx, ok := s.index[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		out[i] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return out, nil
}

// Line renders the header with the schema delimiter.
func (s Schema) Line() string { return strings.Join(s.Names, s.Delim) }

// Field returns fields[idx] or "" when the row is short.
func Field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}
