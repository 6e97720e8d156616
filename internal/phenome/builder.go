// internal/phenome/builder.go
package phenome

import (
	"context"
	"slices"

	"guidance/core/genome"
	"guidance/core/tsv"
	"guidance/internal/artifact"
)

// Pair is one (test type, panel) combination contributing a column group.
type Pair struct {
	TestType string
	Panel    string
}

func (p Pair) prefix() string { return p.TestType + ":" + p.Panel + ":" }

// ValueColumns is the column group FILLOUT appends for each pair, in order.
var ValueColumns = []string{
	"rs_id_all",
	"alleleA",
	"alleleB",
	"all_maf",
	"frequentist_add_pvalue",
	"frequentist_add_beta_1",
	"frequentist_add_se_1",
	"frequentist_add_beta_1:genotype/sex=1",
	"frequentist_add_beta_2:genotype/sex=2",
	"frequentist_add_se_1:genotype/sex=1",
	"frequentist_add_se_2:genotype/sex=2",
}

// Autosome rows carry the first seven value columns; X rows carry the first
// five plus the four sex-stratified ones.
var (
	autosomeColumns = ValueColumns[:7]
	xColumns        = append(slices.Clone(ValueColumns[:5]), ValueColumns[7:]...)
)

// Columns returns the prefixed header names of p's column group.
func Columns(p Pair) []string {
	out := make([]string, len(ValueColumns))
	for i, c := range ValueColumns {
		out[i] = p.prefix() + c
	}
	return out
}

// Builder runs the four matrix phases. Each phase reads artifacts and writes
// a new one; nothing is kept between calls.
type Builder struct {
	store *artifact.Store
}

func New(store *artifact.Store) *Builder { return &Builder{store: store} }

// Init seeds a key-only matrix from the top hits of the first pair.
func (b *Builder) Init(ctx context.Context, topHits, out string) (int, error) {
	m := newMatrix([]string{ColChr, ColPosition})
	if err := m.addKeys(ctx, topHits); err != nil {
		return 0, err
	}
	return m.write(b.store, out)
}

// Add unions the top-hit keys of another pair into matrix.
func (b *Builder) Add(ctx context.Context, matrix, topHits, out string) (int, error) {
	m, err := readMatrix(ctx, matrix)
	if err != nil {
		return 0, err
	}
	// Only the keys survive ADD; values are attached by FILLOUT.
	m.header = m.header[:2]
	for k, r := range m.rows {
		m.rows[k] = r[:2]
	}
	if err := m.addKeys(ctx, topHits); err != nil {
		return 0, err
	}
	return m.write(b.store, out)
}

func (m *matrix) addKeys(ctx context.Context, topHits string) error {
	return readKeyed(ctx, topHits, nil, func(chr, pos string, _ []string) error {
		if _, ok := m.rows[rowKey(chr, pos)]; !ok {
			m.rows[rowKey(chr, pos)] = []string{chr, pos}
		}
		return nil
	})
}

// Fillout appends p's column group to every row of matrix. Values come from
// filtered, or from filteredX for chromosome X rows. Either path may be empty
// when the run has no autosomes or no X. Keys with no result get NA.
func (b *Builder) Fillout(ctx context.Context, matrix, filtered, filteredX string, p Pair, out string) (int, error) {
	m, err := readMatrix(ctx, matrix)
	if err != nil {
		return 0, err
	}
	auto, x := map[string][]string{}, map[string][]string{}
	if filtered != "" {
		if auto, err = loadValues(ctx, filtered, autosomeColumns); err != nil {
			return 0, err
		}
	}
	if filteredX != "" {
		if x, err = loadValues(ctx, filteredX, xColumns); err != nil {
			return 0, err
		}
	}

	m.header = append(m.header, Columns(p)...)
	for k, r := range m.rows {
		var vals []string
		if isX(r[0]) {
			if v, ok := x[k]; ok {
				vals = append(append(slices.Clone(v[:5]), tsv.NA, tsv.NA), v[5:]...)
			}
		} else if v, ok := auto[k]; ok {
			vals = append(slices.Clone(v), tsv.NA, tsv.NA, tsv.NA, tsv.NA)
		}
		if vals == nil {
			vals = nas(len(ValueColumns))
		}
		m.rows[k] = append(r, vals...)
	}
	return m.write(b.store, out)
}

func isX(chr string) bool {
	c, err := genome.ParseChromosome(chr)
	return err == nil && c.IsX()
}

// loadValues maps chr_position to the named columns of a filtered result.
// An empty artifact has no values.
func loadValues(ctx context.Context, path string, cols []string) (map[string][]string, error) {
	out := map[string][]string{}
	var idx []int
	err := readKeyed(ctx, path, func(s tsv.Schema) error {
		var err error
		if idx, err = s.Require(cols...); err != nil {
			return &tsv.ParseError{Path: path, Line: 1, Err: err}
		}
		return nil
	}, func(chr, pos string, f []string) error {
		vals := make([]string, len(idx))
		for i, j := range idx {
			vals[i] = tsv.Field(f, j)
		}
		out[rowKey(chr, pos)] = vals
		return nil
	})
	return out, err
}

// Finalize appends the value columns of increment onto acc. The key set of
// acc is authoritative: increment keys missing from acc are dropped, and acc
// keys missing from increment get NA.
func (b *Builder) Finalize(ctx context.Context, acc, increment, out string) (int, error) {
	m, err := readMatrix(ctx, acc)
	if err != nil {
		return 0, err
	}
	inc, err := readMatrix(ctx, increment)
	if err != nil {
		return 0, err
	}
	extra := len(inc.header) - 2
	m.header = append(m.header, inc.header[2:]...)
	for k, r := range m.rows {
		if v, ok := inc.rows[k]; ok {
			m.rows[k] = append(r, v[2:]...)
		} else {
			m.rows[k] = append(r, nas(extra)...)
		}
	}
	return m.write(b.store, out)
}
