// internal/filter/snps.go
package filter

import (
	"context"
	"fmt"
	"strings"

	"guidance/core/tsv"
)

// InputFormat is the cohort genotype format.
type InputFormat string

const (
	FormatBED InputFormat = "BED"
	FormatGEN InputFormat = "GEN"
)

func ParseInputFormat(s string) (InputFormat, error) {
	switch f := InputFormat(strings.ToUpper(s)); f {
	case FormatBED, FormatGEN:
		return f, nil
	}
	return "", fmt.Errorf("unknown input format %q", s)
}

// Ambiguous reports whether an allele pair is strand-ambiguous (A/T or C/G).
func Ambiguous(a, b string) bool {
	switch a + b {
	case "AT", "TA", "GC", "CG":
		return true
	}
	return false
}

func isBase(s string) bool {
	return s == "A" || s == "C" || s == "G" || s == "T"
}

// Column layout of the headerless per-variant files.
type layout struct {
	delim                string
	id, alleleA, alleleB int
}

var (
	// plink .bim: chr rsid cm pos a1 a2
	bimLayout = layout{delim: tsv.Tab, id: 1, alleleA: 4, alleleB: 5}
	// .gen: snpid rsid pos a b probs...
	genLayout = layout{delim: tsv.Space, id: 1, alleleA: 3, alleleB: 4}
	// shapeit .haps: chr rsid pos a b haps...; the position is the id
	hapsLayout = layout{delim: tsv.Space, id: 2, alleleA: 3, alleleB: 4}
)

// RsIDList writes the rsIds of strand-ambiguous variants of a .bim or .gen
// file when excludeCGAT is set. Otherwise the list is empty.
func (f *Filter) RsIDList(ctx context.Context, input string, format InputFormat, excludeCGAT bool, out string) (int, error) {
	l := bimLayout
	if format == FormatGEN {
		l = genLayout
	}
	return f.scanVariants(ctx, input, out, l, func(a, b string) bool {
		return excludeCGAT && Ambiguous(a, b)
	})
}

// ExcludedSnps writes the positions of the haplotype variants minimac must
// skip: strand-ambiguous pairs when excludeCGAT is set, and any allele that
// is not a single base when excludeSV is set.
func (f *Filter) ExcludedSnps(ctx context.Context, haps, out string, excludeCGAT, excludeSV bool) (int, error) {
	return f.scanVariants(ctx, haps, out, hapsLayout, func(a, b string) bool {
		if excludeSV && (!isBase(a) || !isBase(b)) {
			return true
		}
		return excludeCGAT && Ambiguous(a, b)
	})
}

// SnpList writes the rsId of every variant of a filtered haplotype file, the
// --snps list minimac reads.
func (f *Filter) SnpList(ctx context.Context, haps, out string) (int, error) {
	l := hapsLayout
	l.id = 1
	return f.scanVariants(ctx, haps, out, l, func(string, string) bool { return true })
}

func (f *Filter) scanVariants(ctx context.Context, input, out string, l layout, keep func(a, b string) bool) (int, error) {
	w, err := f.store.Create(out)
	if err != nil {
		return 0, err
	}
	err = tsv.ScanLines(ctx, input, func(n int, line string) error {
		if line == "" {
			return nil
		}
		fields := strings.Split(line, l.delim)
		if len(fields) <= l.alleleB {
			return &tsv.ParseError{Path: input, Line: n, Err: fmt.Errorf("want at least %d fields, got %d", l.alleleB+1, len(fields))}
		}
		if keep(fields[l.alleleA], fields[l.alleleB]) {
			return w.WriteLine(fields[l.id])
		}
		return nil
	})
	if err != nil {
		w.Abort()
		return 0, err
	}
	return w.Lines(), w.Commit()
}
