// core/stage/stage.go
package stage

import "fmt"

// Stage is one named pipeline step.
type Stage int

const (
	ConvertInputFormat Stage = iota
	CreateRsIDList
	PhasingBed
	Phasing
	CreateExcludedSnps
	FilterHaplotypes
	ImputeWithImpute
	ImputeWithMinimac
	FilterByInfo
	QctoolS
	Snptest
	CollectSummary
	MergeTwoChunks
	FilterByAll
	JointCondensed
	JointFilteredByAll
	GenerateTopHits
	GenerateQQManhattan
	CombinePanels
	CombineGenerateManhattanTop
	InitPhenotypeMatrix
	AddToPhenotypeMatrix
	FilloutPhenotypeMatrix
	FinalizePhenotypeMatrix

	count
)

// Class separates third-party binaries from in-process text logic. It
// decides how a failure propagates.
type Class int

const (
	External Class = iota
	Internal
)

func (c Class) String() string {
	if c == Internal {
		return "internal"
	}
	return "external"
}

var names = [count]string{
	"convert-input-format",
	"create-rsid-list",
	"phasing-bed",
	"phasing",
	"create-excluded-snps",
	"filter-haplotypes",
	"impute-with-impute",
	"impute-with-minimac",
	"filter-by-info",
	"qctool-s",
	"snptest",
	"collect-summary",
	"merge-two-chunks",
	"filter-by-all",
	"joint-condensed",
	"joint-filtered-by-all",
	"generate-top-hits",
	"generate-qq-manhattan",
	"combine-panels",
	"combine-generate-manhattan-top",
	"init-phenotype-matrix",
	"add-to-phenotype-matrix",
	"fillout-phenotype-matrix",
	"finalize-phenotype-matrix",
}

var classes = [count]Class{
	ConvertInputFormat:          External,
	CreateRsIDList:              Internal,
	PhasingBed:                  External,
	Phasing:                     External,
	CreateExcludedSnps:          Internal,
	FilterHaplotypes:            External,
	ImputeWithImpute:            External,
	ImputeWithMinimac:           External,
	FilterByInfo:                Internal,
	QctoolS:                     External,
	Snptest:                     External,
	CollectSummary:              Internal,
	MergeTwoChunks:              Internal,
	FilterByAll:                 Internal,
	JointCondensed:              Internal,
	JointFilteredByAll:          Internal,
	GenerateTopHits:             Internal,
	GenerateQQManhattan:         External,
	CombinePanels:               Internal,
	CombineGenerateManhattanTop: Internal,
	InitPhenotypeMatrix:         Internal,
	AddToPhenotypeMatrix:        Internal,
	FilloutPhenotypeMatrix:      Internal,
	FinalizePhenotypeMatrix:     Internal,
}

func (s Stage) Valid() bool { return s >= 0 && s < count }

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return names[s]
}

// Class is the default class of the stage's tasks. A stage may also emit
// tasks of the other class (combine-generate-manhattan-top plots run
// externally).
func (s Stage) Class() Class {
	if !s.Valid() {
		return External
	}
	return classes[s]
}

// All lists every stage in pipeline order.
func All() []Stage {
	out := make([]Stage, count)
	for i := range out {
		out[i] = Stage(i)
	}
	return out
}

func Parse(name string) (Stage, error) {
	for i, n := range names {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("stage: unknown stage %q", name)
}
