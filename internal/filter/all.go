// internal/filter/all.go
package filter

import (
	"context"
	"fmt"
	"strings"

	"guidance/core/genome"
	"guidance/core/tsv"
)

// CondensedHeader is the header of every condensed artifact.
const CondensedHeader = "chr\tposition\talleleA\talleleB\tpvalue\tinfo_all"

// Thresholds gate a summary row into the filtered result.
type Thresholds struct {
	MAF         float64 `mapstructure:"maf_threshold" yaml:"maf_threshold"`
	Info        float64 `mapstructure:"info_threshold" yaml:"info_threshold"`
	HWECohort   float64 `mapstructure:"hwe_cohort_threshold" yaml:"hwe_cohort_threshold"`
	HWECases    float64 `mapstructure:"hwe_cases_threshold" yaml:"hwe_cases_threshold"`
	HWEControls float64 `mapstructure:"hwe_controls_threshold" yaml:"hwe_controls_threshold"`
}

// Summary columns read by ByAll.
var (
	summaryColumns = []string{"chr", "position", "alleleA", "alleleB", "info_all", "cases_maf", "controls_maf", "frequentist_add_pvalue"}
	hweColumns     = []string{"cohort_1_hwe", "cases_hwe", "controls_hwe"}
)

// AllResult counts what ByAll read and kept.
type AllResult struct {
	Rows int
	Kept int
}

// ByAll writes the rows of a summary that pass t to filtered (with a
// trailing refpanel column naming panel) and their condensed form to
// condensed. A row with an NA in any value it is tested on is dropped.
// Chromosome X rows are not tested on Hardy-Weinberg values.
func (f *Filter) ByAll(ctx context.Context, summary, filtered, condensed, panel string, t Thresholds) (AllResult, error) {
	var res AllResult
	wf, err := f.store.Create(filtered)
	if err != nil {
		return res, err
	}
	wc, err := f.store.Create(condensed)
	if err != nil {
		wf.Abort()
		return res, err
	}
	abort := func(err error) (AllResult, error) {
		wf.Abort()
		wc.Abort()
		return res, fmt.Errorf("filter by all %s: %w", summary, err)
	}

	var (
		idx    []int
		hwe    []int
		hweErr error
	)
	header := false
	err = tsv.ReadTable(ctx, summary, tsv.Tab, func(s tsv.Schema) error {
		if s.Empty() {
			return nil
		}
		header = true
		var rerr error
		if idx, rerr = s.Require(summaryColumns...); rerr != nil {
			return &tsv.ParseError{Path: summary, Line: 1, Err: rerr}
		}
		// X-only summaries carry no HWE columns; they are required once an
		// autosome row shows up.
		hwe, hweErr = s.Require(hweColumns...)
		if err := wf.WriteLine(s.Line() + tsv.Tab + "refpanel"); err != nil {
			return err
		}
		return wc.WriteLine(CondensedHeader)
	}, func(n int, fields []string) error {
		res.Rows++
		v := func(i int) string { return tsv.Field(fields, i) }
		chr, pos, a, b := v(idx[0]), v(idx[1]), v(idx[2]), v(idx[3])
		infoS, casesS, controlsS, pvaS := v(idx[4]), v(idx[5]), v(idx[6]), v(idx[7])

		isX := false
		if c, err := genome.ParseChromosome(chr); err == nil {
			isX = c.IsX()
		}
		hweS := []string{"1.0", "1.0", "1.0"}
		if !isX {
			if hweErr != nil {
				return &tsv.ParseError{Path: summary, Line: n, Err: hweErr}
			}
			hweS = []string{v(hwe[0]), v(hwe[1]), v(hwe[2])}
		}
		for _, s := range append([]string{infoS, casesS, controlsS, pvaS}, hweS...) {
			if s == tsv.NA || s == "" {
				return nil
			}
		}

		checks := []struct {
			name string
			val  string
			min  float64
		}{
			{"cases_maf", casesS, t.MAF},
			{"controls_maf", controlsS, t.MAF},
			{"info_all", infoS, t.Info},
			{hweColumns[0], hweS[0], t.HWECohort},
			{hweColumns[1], hweS[1], t.HWECases},
			{hweColumns[2], hweS[2], t.HWEControls},
		}
		for _, c := range checks {
			x, err := tsv.Float(summary, n, c.name, c.val)
			if err != nil {
				return err
			}
			if x < c.min {
				return nil
			}
		}

		res.Kept++
		if err := wf.WriteLine(strings.Join(fields, tsv.Tab) + tsv.Tab + panel); err != nil {
			return err
		}
		return wc.WriteLine(strings.Join([]string{chr, pos, a, b, pvaS, infoS}, tsv.Tab))
	})
	if err != nil {
		return abort(err)
	}
	if !header {
		// An empty summary still yields header-bearing outputs.
		if err := wc.WriteLine(CondensedHeader); err != nil {
			return abort(err)
		}
	}
	if err := wf.Commit(); err != nil {
		wc.Abort()
		return res, err
	}
	return res, wc.Commit()
}
