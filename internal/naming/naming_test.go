// internal/naming/naming_test.go
package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidance/core/genome"
	"guidance/core/reduce"
	"guidance/internal/artifact"
)

func TestNamesAreDistinct(t *testing.T) {
	n := New("/out")
	w := genome.Window{Chromosome: 1, Start: 1, End: 1000, ChunkSize: 1000}
	w2 := genome.Window{Chromosome: 1, Start: 1001, End: 2000, ChunkSize: 1000}
	all := []artifact.Artifact{
		n.ByChrBed(1), n.Pairs(1), n.PhasedHaps(1), n.ExcludedSnps(1), n.ListOfSnps(1),
		n.Imputed("hm3", w), n.Imputed("hm3", w2), n.Imputed("1kg", w),
		n.ImputedInfo("hm3", w), n.FilteredRsIDs("hm3", w), n.QCFiltered("hm3", w),
		n.SnptestOut("DISEASE", "hm3", w), n.Summary("DISEASE", "hm3", w),
		n.SummaryFiltered("DISEASE", "hm3", w), n.SummaryCondensed("DISEASE", "hm3", w),
		n.SummaryCondensed("BMI", "hm3", w),
		n.ReducedFiltered("DISEASE", "hm3", 1, 0), n.ReducedFiltered("DISEASE", "hm3", 1, 1),
		n.ChrFiltered("DISEASE", "hm3", 1), n.ChrCondensed("DISEASE", "hm3", 1),
		n.FinalFiltered("DISEASE", "hm3"), n.FinalFilteredX("DISEASE", "hm3"),
		n.FinalCondensed("DISEASE", "hm3"), n.TopHits("DISEASE", "hm3"),
		n.CombinedChunkFiltered("DISEASE", w, 0), n.CombinedFiltered("DISEASE"),
		n.CombinedFilteredX("DISEASE"), n.CombinedCondensed("DISEASE"),
		n.PhenomeInit(), n.PhenomeAdd(1), n.PhenomeAdd(2), n.PhenomeFillout(0),
		n.PhenomeFinalStep(0), n.PhenomeFinal(),
	}
	seen := map[artifact.ID]bool{}
	for _, a := range all {
		require.False(t, seen[a.ID], "duplicate %s", a.ID)
		seen[a.ID] = true
	}
}

func TestNamesStable(t *testing.T) {
	a, b := New("/out"), New("/out/")
	w := genome.Window{Chromosome: genome.X, Start: 1, End: 1000}
	assert.Equal(t, a.Summary("t", "p", w), b.Summary("t", "p", w))
	assert.Equal(t, "/out/associations/t/p/chr_23/chr_23_1_1000.summary.txt.gz", a.Summary("t", "p", w).Path())
	assert.Equal(t, genome.X, a.Summary("t", "p", w).Coords.Chromosome)
}

func TestFinalsAreNotIntermediate(t *testing.T) {
	n := New("/out")
	assert.True(t, n.ChrFiltered("t", "p", 1).Intermediate)
	assert.False(t, n.FinalFiltered("t", "p").Intermediate)
	assert.False(t, n.TopHits("t", "p").Intermediate)
	assert.False(t, n.PhenomeFinal().Intermediate)
	for _, p := range n.Plots("t", "p") {
		assert.False(t, p.Intermediate)
	}
}

func TestTreeNamerLastIsFinal(t *testing.T) {
	n := New("/out")
	leaves := make([]artifact.Artifact, 4)
	for i := range leaves {
		w := genome.Window{Chromosome: 2, Start: i*10 + 1, End: i*10 + 10}
		leaves[i] = n.SummaryFiltered("t", "p", w)
	}
	final := n.ChrFiltered("t", "p", 2)
	root, nodes, err := reduce.Tree(leaves, TreeNamer(final, func(i int) artifact.Artifact {
		return n.ReducedFiltered("t", "p", 2, i)
	}))
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, final, root)
	assert.Equal(t, n.ReducedFiltered("t", "p", 2, 0), nodes[0].Out)
	assert.Equal(t, final, nodes[2].Out)
}

func TestManifestPath(t *testing.T) {
	n := New("/runs/out/")
	assert.Equal(t, "/runs/out/list_of_stages.txt", n.Manifest("list_of_stages.txt"))
	assert.Equal(t, "/elsewhere/stages.txt", n.Manifest("/elsewhere/stages.txt"))
	assert.Equal(t, "/runs/out/ledger.db", n.Ledger())
}
