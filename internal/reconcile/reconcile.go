// internal/reconcile/reconcile.go
package reconcile

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"guidance/core/tsv"
	"guidance/core/variant"
	"guidance/internal/artifact"
)

// EmptyHeader is written when neither input carries a usable header; an
// input whose header equals it is treated as having no rows.
const EmptyHeader = "chr\tposition\trs_id_all\tinfo_all\tcertainty_all\t"

// Columns every non-empty input must have.
var Columns = []string{"chr", "position", "alleleA", "alleleB", "info_all"}

var emptyNames = tsv.Split(EmptyHeader, tsv.Tab)

// Stats counts where each output row came from.
type Stats struct {
	KeptA   int
	KeptB   int
	OnlyA   int
	OnlyB   int
	Matches map[variant.Match]int
}

func (s Stats) Rows() int { return s.KeptA + s.KeptB + s.OnlyA + s.OnlyB }

// Reconciler merges the results of two reference panels for one window.
type Reconciler struct {
	store *artifact.Store
}

func New(store *artifact.Store) *Reconciler { return &Reconciler{store: store} }

type row struct {
	key   variant.Key
	line  string
	info  string
	lineN int
}

type side struct {
	path   string
	header string
	rows   map[string]row
}

// Combine writes to out the union of a and b keyed by
// position_alleleA_alleleB_chromosome. A row of a is matched against b by
// its exact, reversed, complemented and complement-reversed key, in that
// order; the matched pair keeps the row with the higher info_all, a on ties.
// Rows are written in ascending key order.
func (r *Reconciler) Combine(ctx context.Context, a, b, out string) (Stats, error) {
	st := Stats{Matches: map[variant.Match]int{}}
	dir := filepath.Dir(out)
	sa, err := r.load(ctx, a, dir)
	if err != nil {
		return st, err
	}
	sb, err := r.load(ctx, b, dir)
	if err != nil {
		return st, err
	}

	header := EmptyHeader
	switch {
	case sb.header != "":
		header = sb.header
	case sa.header != "":
		header = sa.header
	}

	merged := make(map[string]string, len(sa.rows)+len(sb.rows))
	for _, ka := range sortedKeys(sa.rows) {
		ra := sa.rows[ka]
		kb, rb, m := variant.Lookup(sb.rows, ra.key)
		if m == variant.NoMatch {
			merged[ka] = ra.line
			st.OnlyA++
			continue
		}
		st.Matches[m]++
		delete(sb.rows, kb)
		infoA, err := tsv.Float(sa.path, ra.lineN, "info_all", ra.info)
		if err != nil {
			return st, err
		}
		infoB, err := tsv.Float(sb.path, rb.lineN, "info_all", rb.info)
		if err != nil {
			return st, err
		}
		if infoA >= infoB {
			merged[ka] = ra.line
			st.KeptA++
		} else {
			merged[kb] = rb.line
			st.KeptB++
		}
	}
	for kb, rb := range sb.rows {
		merged[kb] = rb.line
		st.OnlyB++
	}

	w, err := r.store.Create(out)
	if err != nil {
		return st, err
	}
	if err := w.WriteLine(header); err != nil {
		w.Abort()
		return st, err
	}
	for _, k := range sortedKeys(merged) {
		if err := w.WriteLine(merged[k]); err != nil {
			w.Abort()
			return st, err
		}
	}
	return st, w.Commit()
}

// load decompresses path to a scratch copy next to the output and indexes
// its rows. The scratch copy is removed before returning. Inputs whose
// header is empty or canonical are not copied at all.
func (r *Reconciler) load(ctx context.Context, path, dir string) (side, error) {
	s := side{path: path, rows: map[string]row{}}
	sch, err := r.store.Header(ctx, path, tsv.Tab)
	if err != nil {
		return s, fmt.Errorf("reconcile %s: %w", path, err)
	}
	if sch.Empty() || slices.Equal(sch.Names, emptyNames) {
		return s, nil
	}
	idx, err := sch.Require(Columns...)
	if err != nil {
		return s, &tsv.ParseError{Path: path, Line: 1, Err: err}
	}

	scratch, cleanup, err := r.store.Scratch(path, dir)
	if err != nil {
		return s, fmt.Errorf("reconcile %s: %w", path, err)
	}
	defer cleanup()

	err = tsv.ScanLines(ctx, scratch, func(n int, line string) error {
		if n == 1 {
			s.header = line
			return nil
		}
		if line == "" {
			return nil
		}
		f := tsv.Split(line, tsv.Tab)
		k := variant.Key{
			Chromosome: tsv.Field(f, idx[0]),
			Position:   tsv.Field(f, idx[1]),
			AlleleA:    tsv.Field(f, idx[2]),
			AlleleB:    tsv.Field(f, idx[3]),
		}
		s.rows[k.String()] = row{key: k, line: line, info: tsv.Field(f, idx[4]), lineN: n}
		return nil
	})
	return s, err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
