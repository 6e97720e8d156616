// internal/phenome/matrix.go
package phenome

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"guidance/core/tsv"
	"guidance/internal/artifact"
)

// Key columns every matrix artifact starts with.
const (
	ColChr      = "chr"
	ColPosition = "position"
)

// matrix is an in-memory phenotype matrix keyed by "chr_position". Row
// values include the two key columns.
type matrix struct {
	header []string
	rows   map[string][]string
}

func newMatrix(header []string) *matrix {
	return &matrix{header: header, rows: map[string][]string{}}
}

func rowKey(chr, pos string) string { return chr + "_" + pos }

func (m *matrix) keys() []string {
	keys := make([]string, 0, len(m.rows))
	for k := range m.rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// readKeyed loads a tab-delimited file that has chr and position columns and
// calls fn for each row with its key columns.
func readKeyed(ctx context.Context, path string, header func(tsv.Schema) error, fn func(chr, pos string, fields []string) error) error {
	var chr, pos int
	return tsv.ReadTable(ctx, path, tsv.Tab, func(s tsv.Schema) error {
		if s.Empty() {
			return nil
		}
		idx, err := s.Require(ColChr, ColPosition)
		if err != nil {
			return &tsv.ParseError{Path: path, Line: 1, Err: err}
		}
		chr, pos = idx[0], idx[1]
		if header != nil {
			return header(s)
		}
		return nil
	}, func(_ int, f []string) error {
		return fn(tsv.Field(f, chr), tsv.Field(f, pos), f)
	})
}

// readMatrix loads a matrix artifact.
func readMatrix(ctx context.Context, path string) (*matrix, error) {
	m := newMatrix([]string{ColChr, ColPosition})
	err := readKeyed(ctx, path, func(s tsv.Schema) error {
		if s.Names[0] != ColChr || s.Names[1] != ColPosition {
			return &tsv.ParseError{Path: path, Line: 1, Err: fmt.Errorf("matrix must start with %s, %s", ColChr, ColPosition)}
		}
		m.header = slices.Clone(s.Names)
		return nil
	}, func(chr, pos string, f []string) error {
		m.rows[rowKey(chr, pos)] = padTo(slices.Clone(f), len(m.header))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// padTo extends f with NA up to width.
func padTo(f []string, width int) []string {
	for len(f) < width {
		f = append(f, tsv.NA)
	}
	return f
}

func nas(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = tsv.NA
	}
	return out
}

// write persists m in key order and fails if any row is not as wide as the
// header.
func (m *matrix) write(store *artifact.Store, out string) (int, error) {
	w, err := store.Create(out)
	if err != nil {
		return 0, err
	}
	if err := w.WriteLine(strings.Join(m.header, tsv.Tab)); err != nil {
		w.Abort()
		return 0, err
	}
	keys := m.keys()
	for _, k := range keys {
		r := m.rows[k]
		if len(r) != len(m.header) {
			w.Abort()
			return 0, fmt.Errorf("phenome %s: row %s has %d fields, header has %d", out, k, len(r), len(m.header))
		}
		if err := w.WriteLine(strings.Join(r, tsv.Tab)); err != nil {
			w.Abort()
			return 0, err
		}
	}
	return len(keys), w.Commit()
}
