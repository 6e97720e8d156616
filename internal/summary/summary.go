// internal/summary/summary.go
package summary

import (
	"context"
	"slices"
	"strings"

	"guidance/core/tsv"
	"guidance/internal/artifact"
	"guidance/internal/filter"
)

// LeadColumns open every summary header; the association columns follow.
var LeadColumns = []string{"chr", "position", "rs_id_all", "info_all", "certainty_all"}

// AssociationHeaderTag starts the snptest header line.
const AssociationHeaderTag = "alternate_ids"

// associationSkip is the number of leading snptest columns dropped from the
// header (alternate_ids, rsid, chromosome, position); their values are
// already carried by the info side.
const associationSkip = 4

// DefaultAssociationColumns is used when the association output has no
// header, so an all-NA summary still names its columns.
var DefaultAssociationColumns = []string{
	"alleleA", "alleleB", "index", "average_maximum_posterior_call", "info",
	"cohort_1_AA", "cohort_1_AB", "cohort_1_BB", "cohort_1_NULL",
	"all_AA", "all_AB", "all_BB", "all_NULL", "all_total",
	"cases_AA", "cases_AB", "cases_BB", "cases_NULL", "cases_total",
	"controls_AA", "controls_AB", "controls_BB", "controls_NULL", "controls_total",
	"all_maf", "cases_maf", "controls_maf", "missing_data_proportion",
	"cohort_1_hwe", "cases_hwe", "controls_hwe",
	"het_OR", "het_OR_lower", "het_OR_upper", "hom_OR", "hom_OR_lower", "hom_OR_upper",
	"all_OR", "all_OR_lower", "all_OR_upper",
	"frequentist_add_pvalue", "frequentist_add_info", "frequentist_add_beta_1", "frequentist_add_se_1",
	"comment",
}

// Collector joins the imputation info of a chunk with its association
// output.
type Collector struct {
	store *artifact.Store
}

func New(store *artifact.Store) *Collector { return &Collector{store: store} }

type infoRow struct {
	// position, rs_id, info, certainty, a0, a1
	vals [6]string
}

// Collect writes one summary row per info variant, keyed and sorted by
// position_rsid_alleleA_alleleB. Variants with no association row are padded
// with NA. It returns the number of rows written.
func (c *Collector) Collect(ctx context.Context, chr, infoFile, assocFile, out string) (int, error) {
	info, err := readInfo(ctx, infoFile)
	if err != nil {
		return 0, err
	}
	assocHeader, assoc, err := readAssociation(ctx, assocFile)
	if err != nil {
		return 0, err
	}

	tail := DefaultAssociationColumns
	if len(assocHeader) > associationSkip {
		tail = assocHeader[associationSkip:]
	}
	header := append(slices.Clone(LeadColumns), tail...)

	w, err := c.store.Create(out)
	if err != nil {
		return 0, err
	}
	if err := w.WriteLine(strings.Join(header, tsv.Tab)); err != nil {
		w.Abort()
		return 0, err
	}
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		row := make([]string, 0, len(header))
		iv := info[k]
		row = append(row, chr)
		row = append(row, iv.vals[:]...)
		if a, ok := assoc[k]; ok {
			// a starts at snptest column 2; columns up to alleleB are already
			// in the row.
			if len(a) > associationSkip {
				row = append(row, a[associationSkip:]...)
			}
		}
		for len(row) < len(header) {
			row = append(row, tsv.NA)
		}
		if err := w.WriteLine(strings.Join(row[:len(header)], tsv.Tab)); err != nil {
			w.Abort()
			return 0, err
		}
	}
	return len(keys), w.Commit()
}

func joinKey(pos, rsid, a, b string) string { return pos + "_" + rsid + "_" + a + "_" + b }

// readInfo indexes an imputation info file. The first row for a key wins.
func readInfo(ctx context.Context, path string) (map[string]infoRow, error) {
	out := map[string]infoRow{}
	var (
		delim  string
		idx    [6]int
		fromID bool
	)
	err := tsv.ScanLines(ctx, path, func(n int, line string) error {
		if n == 1 {
			if line == "" {
				return nil
			}
			delim = filter.SniffDelim(line)
			s := tsv.ParseHeader(line, delim)
			aliases := [][]string{filter.PositionAliases, filter.RsIDAliases, filter.InfoAliases, filter.CertaintyAliases, filter.AlleleAAliases, filter.AlleleBAliases}
			for i, a := range aliases {
				j, err := filter.Resolve(s, a...)
				if err != nil && i == 0 {
					// minimac ids carry the position.
					fromID = true
					continue
				}
				if err != nil {
					return &tsv.ParseError{Path: path, Line: n, Err: err}
				}
				idx[i] = j
			}
			return nil
		}
		if line == "" || delim == "" {
			return nil
		}
		f := tsv.Split(line, delim)
		var r infoRow
		for i, j := range idx {
			r.vals[i] = tsv.Field(f, j)
		}
		if fromID {
			pos, ok := filter.PositionFromID(r.vals[1])
			if !ok {
				return &tsv.ParseError{Path: path, Line: n, Field: "position", Err: errNoPosition}
			}
			r.vals[0] = pos
		}
		k := joinKey(r.vals[0], r.vals[1], r.vals[4], r.vals[5])
		if _, dup := out[k]; !dup {
			out[k] = r
		}
		return nil
	})
	return out, err
}

// readAssociation indexes a snptest output by the same key. Comment lines
// are skipped; values are kept from column 2 on.
func readAssociation(ctx context.Context, path string) ([]string, map[string][]string, error) {
	out := map[string][]string{}
	var (
		header []string
		idx    []int
	)
	err := tsv.ScanLines(ctx, path, func(n int, line string) error {
		if line == "" || line[0] == '#' {
			return nil
		}
		f := tsv.Split(line, tsv.Space)
		if f[0] == AssociationHeaderTag {
			header = f
			var err error
			idx, err = tsv.NewSchema(f, tsv.Space).Require("position", "rsid", "alleleA", "alleleB")
			if err != nil {
				return &tsv.ParseError{Path: path, Line: n, Err: err}
			}
			return nil
		}
		if idx == nil {
			return &tsv.ParseError{Path: path, Line: n, Err: errNoHeader}
		}
		k := joinKey(tsv.Field(f, idx[0]), tsv.Field(f, idx[1]), tsv.Field(f, idx[2]), tsv.Field(f, idx[3]))
		if _, dup := out[k]; !dup && len(f) > 2 {
			out[k] = f[2:]
		}
		return nil
	})
	return header, out, err
}
