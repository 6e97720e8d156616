// internal/artifact/artifact.go
package artifact

import (
	"fmt"

	"guidance/core/genome"
)

// Kind tags what an artifact holds.
type Kind string

const (
	Filtered  Kind = "filtered"
	Condensed Kind = "condensed"
	Summary   Kind = "summary"
	TopHits   Kind = "topHits"
	Phenome   Kind = "phenomeMatrix"

	// Inputs and outputs of the per-chunk and per-chromosome steps.
	Genotype    Kind = "genotype"
	Sample      Kind = "sample"
	Pairs       Kind = "pairs"
	Haplotypes  Kind = "haplotypes"
	Excluded    Kind = "excludedSnps"
	Imputed     Kind = "imputed"
	ImputedInfo Kind = "imputedInfo"
	RsIDList    Kind = "rsidList"
	QCFiltered  Kind = "qcFiltered"
	Association Kind = "association"
	Plot        Kind = "plot"
	Log         Kind = "log"
)

// ID is the stable identity of an artifact; it is the artifact path.
type ID string

// Coords records where an artifact came from. Window bounds are zero for
// artifacts that are not per-window, Index counts reduction intermediates.
type Coords struct {
	TestType   string
	Panel      string
	Chromosome genome.Chromosome
	Start      int
	End        int
	Index      int
}

// Artifact is an immutable handle to a persisted result.
type Artifact struct {
	ID     ID
	Kind   Kind
	Coords Coords
	// Intermediate artifacts are subject to the temp_files policy.
	Intermediate bool
}

func (a Artifact) Path() string { return string(a.ID) }

func (a Artifact) String() string { return fmt.Sprintf("%s(%s)", a.Kind, a.ID) }

// IDs extracts identities, preserving order.
func IDs(as ...Artifact) []ID {
	out := make([]ID, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}
