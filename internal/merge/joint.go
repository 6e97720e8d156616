// internal/merge/joint.go
package merge

import (
	"context"
	"strings"

	"guidance/core/tsv"
)

// JointFilteredByAll joins two filtered results. An input whose header does
// not already end with the refpanel column gets panel appended to each of
// its rows, and the output header gains the column.
func (m *Merger) JointFilteredByAll(ctx context.Context, a, b, out, panel string) (int, error) {
	srcs := []source{}
	inputs := []string{a}
	if a != b {
		inputs = append(inputs, b)
	}
	for _, p := range inputs {
		tagged, err := m.hasRefPanel(ctx, p)
		if err != nil {
			return 0, err
		}
		src := source{path: p}
		if !tagged {
			src.rewrite = func(line string) string { return line + tsv.Tab + panel }
		}
		srcs = append(srcs, src)
	}
	return m.concat(ctx, out, withRefPanel, srcs...)
}

func withRefPanel(header string) string {
	if endsWithRefPanel(header) {
		return header
	}
	return header + tsv.Tab + RefPanelColumn
}

func endsWithRefPanel(header string) bool {
	f := tsv.Split(header, tsv.Tab)
	return len(f) > 0 && f[len(f)-1] == RefPanelColumn
}

func (m *Merger) hasRefPanel(ctx context.Context, path string) (bool, error) {
	sch, err := m.store.Header(ctx, path, tsv.Tab)
	if err != nil {
		return false, err
	}
	return endsWithRefPanel(strings.TrimRight(sch.Line(), "\r")), nil
}
