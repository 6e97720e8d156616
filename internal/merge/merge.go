// internal/merge/merge.go
package merge

import (
	"context"
	"fmt"

	"guidance/core/tsv"
	"guidance/internal/artifact"
)

// RefPanelColumn is the trailing column naming the panel a row came from.
const RefPanelColumn = "refpanel"

// Merger concatenates header-bearing artifacts.
type Merger struct {
	store *artifact.Store
}

func New(store *artifact.Store) *Merger { return &Merger{store: store} }

// rowFunc may rewrite a body line before it is written.
type rowFunc func(line string) string

type source struct {
	path    string
	rewrite rowFunc
}

// concat writes header + every source's body to out. The header is the first
// non-empty first line among the sources; an input with no lines contributes
// nothing. It returns the number of body rows written.
func (m *Merger) concat(ctx context.Context, out string, header func(first string) string, srcs ...source) (int, error) {
	w, err := m.store.Create(out)
	if err != nil {
		return 0, err
	}
	wrote := false
	for _, src := range srcs {
		err := tsv.ScanLines(ctx, src.path, func(n int, line string) error {
			if n == 1 {
				if wrote || line == "" {
					return nil
				}
				wrote = true
				return w.WriteLine(header(line))
			}
			if line == "" {
				return nil
			}
			if src.rewrite != nil {
				line = src.rewrite(line)
			}
			return w.WriteLine(line)
		})
		if err != nil {
			w.Abort()
			return 0, fmt.Errorf("merge %s: %w", src.path, err)
		}
	}
	rows := w.Lines()
	if wrote {
		rows--
	}
	return rows, w.Commit()
}

func same(line string) string { return line }

// TwoChunks writes header(a) + body(a) + body(b) to out. When a and b are the
// same artifact b's body is not appended again.
func (m *Merger) TwoChunks(ctx context.Context, a, b, out string) (int, error) {
	srcs := []source{{path: a}}
	if a != b {
		srcs = append(srcs, source{path: b})
	}
	return m.concat(ctx, out, same, srcs...)
}

// JointCondensed joins two condensed results. It has the TwoChunks contract;
// a single chromosome is joined with itself.
func (m *Merger) JointCondensed(ctx context.Context, a, b, out string) (int, error) {
	return m.TwoChunks(ctx, a, b, out)
}
