// core/stage/selector.go
package stage

import "sort"

var (
	prepare      = Of(ConvertInputFormat, CreateRsIDList)
	phasing      = Of(PhasingBed, Phasing, CreateExcludedSnps, FilterHaplotypes)
	imputation   = Of(ImputeWithImpute, ImputeWithMinimac)
	qualityCtl   = Of(FilterByInfo, QctoolS)
	association  = Of(Snptest)
	chunkReduce  = Of(CollectSummary, MergeTwoChunks, FilterByAll)
	summary      = Range(JointCondensed, CombineGenerateManhattanTop)
	phenoMatrix  = Range(InitPhenotypeMatrix, FinalizePhenotypeMatrix)
	combineSteps = Of(CombinePanels, CombineGenerateManhattanTop)
)

func union(sets ...Set) Set {
	var out Set
	for _, s := range sets {
		out = out.Union(s)
	}
	return out
}

// selectors maps every run-depth name to its stage set before
// tool-specific stages are removed.
var selectors = map[string]Set{
	"whole_workflow": union(prepare, phasing, imputation, qualityCtl, association, chunkReduce, summary, phenoMatrix),

	"until_convertFromBedToBed": prepare,
	"until_phasing":             union(prepare, phasing),
	"until_imputation":          union(prepare, phasing, imputation),
	"until_qctools":             union(prepare, phasing, imputation, qualityCtl),
	"until_association":         union(prepare, phasing, imputation, qualityCtl, association),
	"until_filterByAll":         union(prepare, phasing, imputation, qualityCtl, association, chunkReduce),
	"until_summary":             union(prepare, phasing, imputation, qualityCtl, association, chunkReduce, summary),

	"from_phasing":                union(imputation, qualityCtl, association, chunkReduce, summary, phenoMatrix),
	"from_phasing_to_summary":     union(imputation, qualityCtl, association, chunkReduce, summary),
	"from_phasing_to_filterByAll": union(imputation, qualityCtl, association, chunkReduce),
	"from_phasing_to_qctools":     union(imputation, qualityCtl),
	"from_phasing_to_association": union(imputation, qualityCtl, association),
	"from_phasing_to_imputation":  imputation,

	"from_imputation":                 union(qualityCtl, association, chunkReduce, summary, phenoMatrix),
	"from_imputation_to_summary":      union(qualityCtl, association, chunkReduce, summary),
	"from_imputation_to_filterByAll":  union(qualityCtl, association, chunkReduce),
	"from_imputation_to_association":  union(qualityCtl, association),
	"from_imputation_to_filterByInfo": Of(FilterByInfo),
	"from_filterByInfo_to_qctoolS":    Of(QctoolS),
	"from_qctoolS_to_association":     association,

	"from_association":                union(chunkReduce, summary, phenoMatrix),
	"from_association_to_filterByAll": chunkReduce,
	"from_association_to_summary":     union(chunkReduce, summary),

	"from_filterByAll":                union(summary, phenoMatrix),
	"from_jointFiltered_to_condensed": Of(JointFilteredByAll),
	"from_filterByAll_to_summary":     summary,
	// Kept as historically defined: it runs the condensed join and the
	// plots, not the combine step its name suggests.
	"from_manhattan_to_combine":        Of(JointCondensed, GenerateQQManhattan),
	"from_combine_to_manhattan":        Of(CombinePanels),
	"from_combine_to_summary":          combineSteps,
	"from_combine":                     union(combineSteps, phenoMatrix),
	"from_combineGenManTop_to_summary": Of(CombineGenerateManhattanTop),
	"from_summary":                     phenoMatrix,
}

// Selectors lists the known run-depth names, sorted.
func Selectors() []string {
	out := make([]string, 0, len(selectors))
	for k := range selectors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the tool-independent set for a selector.
func Lookup(name string) (Set, bool) {
	s, ok := selectors[name]
	return s, ok
}
