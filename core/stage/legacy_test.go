// core/stage/legacy_test.go
package stage

import "testing"

// Legacy 27-bit run-depth masks, most significant bit first over
// legacyBits; the trailing six bits were never assigned.
var legacyBits = []Stage{
	ConvertInputFormat, CreateRsIDList, PhasingBed, Phasing, CreateExcludedSnps,
	FilterHaplotypes, ImputeWithImpute, ImputeWithMinimac, FilterByInfo, QctoolS,
	Snptest, CollectSummary, MergeTwoChunks, FilterByAll, JointCondensed,
	JointFilteredByAll, GenerateTopHits, GenerateQQManhattan, CombinePanels,
	CombineGenerateManhattanTop,
	-1, // phenotype analysis: the four matrix stages
}

var legacyImpute = map[string]uint32{
	"until_convertFromBedToBed":        0x6000000,
	"until_phasing":                    0x7800000,
	"until_imputation":                 0x7900000,
	"until_qctools":                    0x7960000,
	"until_association":                0x7970000,
	"until_filterByAll":                0x797E000,
	"until_summary":                    0x797FF80,
	"whole_workflow":                   0x797FFC0,
	"from_phasing":                     0x017FFC0,
	"from_phasing_to_summary":          0x017FF80,
	"from_phasing_to_filterByAll":      0x017E000,
	"from_phasing_to_qctools":          0x0160000,
	"from_phasing_to_association":      0x0170000,
	"from_phasing_to_imputation":       0x0100000,
	"from_imputation":                  0x007FFC0,
	"from_imputation_to_summary":       0x007FF00,
	"from_imputation_to_filterByAll":   0x007E000,
	"from_imputation_to_association":   0x0070000,
	"from_imputation_to_filterByInfo":  0x0040000,
	"from_filterByInfo_to_qctoolS":     0x0020000,
	"from_qctoolS_to_association":      0x0010000,
	"from_association":                 0x000FFC0,
	"from_association_to_filterByAll":  0x000E000,
	"from_association_to_summary":      0x000FF80,
	"from_filterByAll":                 0x0001FC0,
	"from_jointFiltered_to_condensed":  0x0000800,
	"from_filterByAll_to_summary":      0x0001F80,
	"from_manhattan_to_combine":        0x0001200,
	"from_combine_to_manhattan":        0x0000100,
	"from_combine_to_summary":          0x0000180,
	"from_combine":                     0x00001C0,
	"from_combineGenManTop_to_summary": 0x0000080,
	"from_summary":                     0x0000040,
}

var legacyMinimac = map[string]uint32{
	"until_convertFromBedToBed":        0x6000000,
	"until_phasing":                    0x7E00000,
	"until_imputation":                 0x7E80000,
	"until_qctools":                    0x7EE0000,
	"until_association":                0x7EF0000,
	"until_filterByAll":                0x7EFE000,
	"until_summary":                    0x7EFFF80,
	"whole_workflow":                   0x7EFFFC0,
	"from_phasing":                     0x00FFFC0,
	"from_phasing_to_summary":          0x00FFF00,
	"from_phasing_to_filterByAll":      0x00FE000,
	"from_phasing_to_qctools":          0x00E0000,
	"from_phasing_to_association":      0x00F0000,
	"from_phasing_to_imputation":       0x0080000,
	"from_imputation":                  0x007FFC0,
	"from_imputation_to_summary":       0x007FF00,
	"from_imputation_to_filterByAll":   0x007E000,
	"from_imputation_to_association":   0x0070000,
	"from_imputation_to_filterByInfo":  0x0040000,
	"from_filterByInfo_to_qctoolS":     0x0020000,
	"from_qctoolS_to_association":      0x0010000,
	"from_association":                 0x000FFC0,
	"from_association_to_filterByAll":  0x000E000,
	"from_association_to_summary":      0x000FF80,
	"from_filterByAll":                 0x0001FC0,
	"from_jointFiltered_to_condensed":  0x0000800,
	"from_filterByAll_to_summary":      0x0001F80,
	"from_manhattan_to_combine":        0x0001200,
	"from_combine_to_manhattan":        0x0000100,
	"from_combine_to_summary":          0x0000180,
	"from_combine":                     0x00001C0,
	"from_combineGenManTop_to_summary": 0x0000080,
	"from_summary":                     0x0000040,
}

// Two legacy "_to_summary" masks dropped combine-generate-manhattan-top while
// every other "_to_summary" selector keeps it; the sets normalise them.
var normalised = map[Tool]map[string]bool{
	Impute:  {"from_imputation_to_summary": true},
	Minimac: {"from_imputation_to_summary": true, "from_phasing_to_summary": true},
}

func decodeLegacy(mask uint32) Set {
	var s Set
	const width = 27
	for i, st := range legacyBits {
		if mask>>(width-1-i)&1 == 0 {
			continue
		}
		if st < 0 {
			s = s.Union(Range(InitPhenotypeMatrix, FinalizePhenotypeMatrix))
			continue
		}
		s = s.Union(Of(st))
	}
	return s
}

func TestSelectorsMatchLegacyMasks(t *testing.T) {
	for tool, masks := range map[Tool]map[string]uint32{Impute: legacyImpute, Minimac: legacyMinimac} {
		if len(masks) != len(Selectors()) {
			t.Fatalf("%s: %d legacy masks, %d selectors", tool, len(masks), len(Selectors()))
		}
		for sel, mask := range masks {
			g, err := NewGate(sel, tool)
			if err != nil {
				t.Fatalf("%s/%s: %v", tool, sel, err)
			}
			want := decodeLegacy(mask)
			if normalised[tool][sel] {
				want = want.Union(Of(CombineGenerateManhattanTop))
			}
			if g.Set() != want {
				t.Errorf("%s/%s:\n got  %s\n want %s", tool, sel, g.Set(), want)
			}
		}
	}
}
