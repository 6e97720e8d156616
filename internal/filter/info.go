// internal/filter/info.go
package filter

import (
	"context"
	"fmt"

	"guidance/core/tsv"
	"guidance/internal/artifact"
)

// Filter holds the in-process per-chunk filters.
type Filter struct {
	store *artifact.Store
}

func New(store *artifact.Store) *Filter { return &Filter{store: store} }

// ByInfo writes the rsId of every variant of an imputation info file whose
// info score is at least threshold, one per line. It returns the number
// kept.
func (f *Filter) ByInfo(ctx context.Context, infoFile, out string, threshold float64) (int, error) {
	w, err := f.store.Create(out)
	if err != nil {
		return 0, err
	}
	var (
		sch          tsv.Schema
		rsIdx, infoI int
	)
	err = tsv.ScanLines(ctx, infoFile, func(n int, line string) error {
		if n == 1 {
			sch = tsv.ParseHeader(line, SniffDelim(line))
			var err error
			if rsIdx, err = Resolve(sch, RsIDAliases...); err != nil {
				return &tsv.ParseError{Path: infoFile, Line: n, Err: err}
			}
			if infoI, err = Resolve(sch, InfoAliases...); err != nil {
				return &tsv.ParseError{Path: infoFile, Line: n, Err: err}
			}
			return nil
		}
		if line == "" {
			return nil
		}
		fields := tsv.Split(line, sch.Delim)
		info, err := tsv.Float(infoFile, n, sch.Names[infoI], tsv.Field(fields, infoI))
		if err != nil {
			return err
		}
		if info >= threshold {
			return w.WriteLine(tsv.Field(fields, rsIdx))
		}
		return nil
	})
	if err != nil {
		w.Abort()
		return 0, fmt.Errorf("filter by info: %w", err)
	}
	return w.Lines(), w.Commit()
}
