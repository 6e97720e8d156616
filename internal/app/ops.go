// internal/app/ops.go
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"guidance/core/reduce"
	"guidance/internal/artifact"
	"guidance/internal/merge"
	"guidance/internal/reconcile"
)

// The merge and combine commands run one in-process operation on explicit
// paths, the way the manifest lines of internal tasks read.

func newMergeCmd(e *env) *cobra.Command {
	var kind, panel string
	cmd := &cobra.Command{
		Use:   "merge A B [C...] OUT",
		Short: "Concatenate result tables under the first one's header",
		Long:  "Concatenate result tables under the first one's header. More than two inputs are reduced pairwise through numbered intermediates next to OUT, which are removed afterwards.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := merge.New(artifact.NewStore())
			var op func(ctx context.Context, a, b, out string) (int, error)
			switch kind {
			case "chunks":
				op = m.TwoChunks
			case "condensed":
				op = m.JointCondensed
			case "filtered":
				op = func(ctx context.Context, a, b, out string) (int, error) {
					return m.JointFilteredByAll(ctx, a, b, out, panel)
				}
			default:
				return fail(ExitUsage, fmt.Errorf("unknown --kind %q (want chunks, condensed or filtered)", kind))
			}
			ins, out := args[:len(args)-1], args[len(args)-1]
			n, err := reduceFiles(cmd.Context(), ins, out, op)
			if err != nil {
				return failed(err)
			}
			_, err = fmt.Fprintf(e.stdout, "%s: %d rows\n", out, n)
			return failed(err)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "chunks", "chunks, condensed or filtered")
	cmd.Flags().StringVar(&panel, "panel", "", "refpanel value appended by --kind filtered")
	return cmd
}

// reduceFiles merges ins into out with a pairwise reduction tree and
// returns the row count of the final merge.
func reduceFiles(ctx context.Context, ins []string, out string, op func(ctx context.Context, a, b, out string) (int, error)) (int, error) {
	var rows int
	var nodes []string
	name := func(i int, last bool) string {
		if last {
			return out
		}
		p := nodePath(out, i)
		nodes = append(nodes, p)
		return p
	}
	defer func() {
		for _, p := range nodes {
			_ = os.Remove(p)
		}
	}()
	_, err := reduce.Fold(ctx, ins, reduce.Namer[string](name), func(ctx context.Context, n reduce.Node[string]) error {
		var err error
		rows, err = op(ctx, n.A, n.B, n.Out)
		return err
	})
	return rows, err
}

// nodePath names intermediate i of out, keeping its compression suffix.
func nodePath(out string, i int) string {
	base, gz := strings.CutSuffix(out, ".gz")
	p := fmt.Sprintf("%s.node_%d", base, i)
	if gz {
		p += ".gz"
	}
	return p
}

func newCombineCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "combine A B OUT",
		Short: "Reconcile two panels' results, keeping the better imputed variant",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := reconcile.New(artifact.NewStore()).Combine(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return failed(err)
			}
			_, err = fmt.Fprintf(e.stdout, "%s: %d rows (%d from A, %d from B, %d only in A, %d only in B)\n",
				args[2], st.Rows(), st.KeptA, st.KeptB, st.OnlyA, st.OnlyB)
			return failed(err)
		},
	}
}
