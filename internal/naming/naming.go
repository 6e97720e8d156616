// internal/naming/naming.go
package naming

import (
	"fmt"
	"path/filepath"

	"guidance/core/genome"
	"guidance/core/reduce"
	"guidance/internal/artifact"
)

// Namer maps (testType, panel, chromosome, window, kind) to stable artifact
// identities under Root. Nothing else in the module builds artifact paths.
type Namer struct {
	Root string
}

func New(root string) *Namer { return &Namer{Root: filepath.Clean(root)} }

func chrDir(c genome.Chromosome) string { return "chr_" + c.String() }

func winTag(w genome.Window) string {
	return fmt.Sprintf("chr_%s_%d_%d", w.Chromosome, w.Start, w.End)
}

func (n *Namer) at(kind artifact.Kind, co artifact.Coords, inter bool, parts ...string) artifact.Artifact {
	p := filepath.Join(append([]string{n.Root}, parts...)...)
	return artifact.Artifact{ID: artifact.ID(p), Kind: kind, Coords: co, Intermediate: inter}
}

func chrCoords(c genome.Chromosome) artifact.Coords { return artifact.Coords{Chromosome: c} }

func winCoords(tt, panel string, w genome.Window) artifact.Coords {
	return artifact.Coords{TestType: tt, Panel: panel, Chromosome: w.Chromosome, Start: w.Start, End: w.End}
}

// TreeNamer names reduction outputs: the last merge writes final, the others
// write intermediate(i).
func TreeNamer(final artifact.Artifact, intermediate func(i int) artifact.Artifact) reduce.Namer[artifact.Artifact] {
	return func(i int, last bool) artifact.Artifact {
		if last {
			return final
		}
		return intermediate(i)
	}
}

// Meta files.

// Manifest places the list of stages under Root unless name is absolute.
func (n *Namer) Manifest(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(n.Root, name)
}

func (n *Namer) Report() string     { return filepath.Join(n.Root, "run_report.yaml") }
func (n *Namer) Ledger() string     { return filepath.Join(n.Root, "ledger.db") }
func (n *Namer) Traces() string     { return filepath.Join(n.Root, "traces.jsonl") }
func (n *Namer) ScratchDir() string { return filepath.Join(n.Root, "scratch") }
