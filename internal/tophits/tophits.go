// internal/tophits/tophits.go
package tophits

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"guidance/core/tsv"
	"guidance/internal/artifact"
)

// Header of every top-hits artifact.
const Header = "chr\tposition\trsid\tMAF\ta1\ta2\tpval_add"

// Result columns a top hit is projected from, in output order.
var Columns = []string{"chr", "position", "rs_id_all", "all_maf", "alleleA", "alleleB", "frequentist_add_pvalue"}

const pvalueCol = 6

// Generator selects significant variants from filtered results.
type Generator struct {
	store *artifact.Store
}

func New(store *artifact.Store) *Generator { return &Generator{store: store} }

// Generate writes the variants of autosomes and x whose additive p-value p
// satisfies 0 < p <= threshold. Each input is sorted by position_rsid and
// autosome hits come first. When both inputs are the same artifact it is
// read once. NA p-values are skipped.
func (g *Generator) Generate(ctx context.Context, autosomes, x, out string, threshold float64) (int, error) {
	inputs := []string{autosomes}
	if x != "" && x != autosomes {
		inputs = append(inputs, x)
	}
	w, err := g.store.Create(out)
	if err != nil {
		return 0, err
	}
	if err := w.WriteLine(Header); err != nil {
		w.Abort()
		return 0, err
	}
	hits := 0
	for _, in := range inputs {
		rows, err := collect(ctx, in, threshold)
		if err != nil {
			w.Abort()
			return 0, fmt.Errorf("top hits %s: %w", in, err)
		}
		keys := make([]string, 0, len(rows))
		for k := range rows {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := w.WriteLine(rows[k]); err != nil {
				w.Abort()
				return 0, err
			}
		}
		hits += len(keys)
	}
	return hits, w.Commit()
}

func collect(ctx context.Context, path string, threshold float64) (map[string]string, error) {
	out := map[string]string{}
	var idx []int
	err := tsv.ReadTable(ctx, path, tsv.Tab, func(s tsv.Schema) error {
		if s.Empty() {
			return nil
		}
		var err error
		if idx, err = s.Require(Columns...); err != nil {
			return &tsv.ParseError{Path: path, Line: 1, Err: err}
		}
		return nil
	}, func(n int, f []string) error {
		pvaS := tsv.Field(f, idx[pvalueCol])
		if pvaS == tsv.NA {
			return nil
		}
		pva, err := tsv.Float(path, n, Columns[pvalueCol], pvaS)
		if err != nil {
			return err
		}
		if pva <= 0 || pva > threshold {
			return nil
		}
		vals := make([]string, len(idx))
		for i, j := range idx {
			vals[i] = tsv.Field(f, j)
		}
		out[vals[1]+"_"+vals[2]] = strings.Join(vals, tsv.Tab)
		return nil
	})
	return out, err
}
