// internal/workflow/workflow_test.go
package workflow

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"guidance/core/genome"
	"guidance/core/stage"
	"guidance/core/tsv"
	"guidance/internal/artifact"
	"guidance/internal/config"
	"guidance/internal/dispatch"
)

// testConfig plans chromosomes from..to with six 10bp windows each.
func testConfig(t *testing.T, from, to int, panels, testTypes int) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.OutDir = t.TempDir()
	cfg.InitChromosome, cfg.EndChromosome = from, to
	cfg.ChunkSize = 10
	cfg.Positions = map[string]genome.Range{}
	for c := from; c <= to; c++ {
		cfg.Positions[fmt.Sprint(c)] = genome.Range{Min: 1, Max: 60}
	}
	cfg.Cohort = config.Cohort{BedFile: "/in/c.bed", BimFile: "/in/c.bim", FamFile: "/in/c.fam"}
	cfg.GmapFile = "/maps/chr{chr}.map"
	for i := 0; i < panels; i++ {
		cfg.Panels = append(cfg.Panels, config.Panel{Name: fmt.Sprintf("p%d", i), Dir: "/ref", HapFile: "{chr}.hap", LegendFile: "{chr}.legend"})
	}
	for i := 0; i < testTypes; i++ {
		cfg.TestTypes = append(cfg.TestTypes, config.TestType{Name: fmt.Sprintf("t%d", i), ResponseVar: "y", Covariables: "none"})
	}
	return &cfg
}

func build(t *testing.T, cfg *config.Config, selector string) *Plan {
	t.Helper()
	_, err := config.Validate(cfg)
	require.NoError(t, err)
	gate, err := stage.NewGate(selector, stage.Tool(cfg.ImputationTool))
	require.NoError(t, err)
	plan, err := New(cfg, gate, artifact.NewStore()).Build()
	require.NoError(t, err)
	require.NoError(t, dispatch.Validate(plan.Tasks))
	return plan
}

func find(p *Plan, s stage.Stage) []*dispatch.Task {
	var out []*dispatch.Task
	for _, t := range p.Tasks {
		if t.Stage == s {
			out = append(out, t)
		}
	}
	return out
}

func TestSingleChromosomePlan(t *testing.T) {
	plan := build(t, testConfig(t, 22, 22, 1, 1), "whole_workflow")
	want := map[stage.Stage]int{
		stage.ConvertInputFormat:  1,
		stage.CreateRsIDList:      1,
		stage.PhasingBed:          1,
		stage.ImputeWithImpute:    6,
		stage.FilterByInfo:        6,
		stage.QctoolS:             6,
		stage.Snptest:             6,
		stage.CollectSummary:      6,
		stage.FilterByAll:         6,
		stage.MergeTwoChunks:      10,
		stage.JointCondensed:      1,
		stage.JointFilteredByAll:  1,
		stage.GenerateTopHits:     1,
		stage.GenerateQQManhattan: 1,
	}
	assert.Equal(t, want, plan.Counts())

	// the single-chromosome joins are self-merges into the named finals
	jc := find(plan, stage.JointCondensed)[0]
	assert.Equal(t, jc.Inputs[0], jc.Inputs[1])
	assert.Equal(t, plan.Tasks[0].Stage, stage.ConvertInputFormat)
	for _, tk := range plan.Tasks {
		assert.NotEmpty(t, tk.Line(), tk.ID)
	}
}

func TestXHasItsOwnPass(t *testing.T) {
	plan := build(t, testConfig(t, 22, 23, 1, 1), "whole_workflow")
	joints := find(plan, stage.JointFilteredByAll)
	require.Len(t, joints, 2)
	var autoJoin, xJoin *dispatch.Task
	for _, j := range joints {
		if strings.Contains(string(j.Outputs[0].ID), "chrX") {
			xJoin = j
		} else {
			autoJoin = j
		}
	}
	require.NotNil(t, xJoin)
	require.NotNil(t, autoJoin)
	for _, in := range autoJoin.Inputs {
		assert.NotContains(t, string(in), "chr_23", "autosome join reads X")
	}
	for _, in := range xJoin.Inputs {
		assert.Contains(t, string(in), "chr_23")
	}

	// condensed joins span both chromosomes
	cond := find(plan, stage.JointCondensed)
	require.Len(t, cond, 1)
	assert.Len(t, cond[0].Inputs, 2)

	top := find(plan, stage.GenerateTopHits)
	require.Len(t, top, 1)
	assert.ElementsMatch(t, []artifact.ID{autoJoin.Outputs[0].ID, xJoin.Outputs[0].ID}, top[0].Inputs)
}

func TestGateFiltersStages(t *testing.T) {
	plan := build(t, testConfig(t, 22, 22, 1, 1), "from_filterByAll")
	for _, tk := range plan.Tasks {
		assert.True(t, plan.Gate.Enabled(tk.Stage), tk.ID)
	}
	assert.Empty(t, find(plan, stage.Snptest))
	assert.Len(t, find(plan, stage.JointCondensed), 1)
}

func TestMinimacStages(t *testing.T) {
	cfg := testConfig(t, 22, 22, 1, 1)
	cfg.ImputationTool = "minimac"
	plan := build(t, cfg, "whole_workflow")
	assert.Len(t, find(plan, stage.CreateExcludedSnps), 1)
	assert.Len(t, find(plan, stage.FilterHaplotypes), 2)
	assert.Len(t, find(plan, stage.ImputeWithMinimac), 6)
	assert.Empty(t, find(plan, stage.ImputeWithImpute))

	info := find(plan, stage.FilterByInfo)[0]
	assert.Contains(t, string(info.Inputs[0]), ".minimac.info.gz")
}

func TestCombineAndPhenome(t *testing.T) {
	cfg := testConfig(t, 22, 23, 2, 2)
	cfg.RefpanelCombine = true
	plan := build(t, cfg, "whole_workflow")

	// 12 windows x 2 kinds x 1 fold step, then per test type two filtered
	// trees (6 autosome, 6 X leaves) and one condensed tree (12 leaves).
	perTT := 12*2 + 5 + 5 + 11
	assert.Len(t, find(plan, stage.CombinePanels), 2*perTT)
	assert.Len(t, find(plan, stage.CombineGenerateManhattanTop), 2*2)

	assert.Len(t, find(plan, stage.InitPhenotypeMatrix), 1)
	assert.Len(t, find(plan, stage.AddToPhenotypeMatrix), 3)
	assert.Len(t, find(plan, stage.FilloutPhenotypeMatrix), 4)
	assert.Len(t, find(plan, stage.FinalizePhenotypeMatrix), 3)
}

func TestPhenomeChainHasOneProducerPerArtifact(t *testing.T) {
	plan := build(t, testConfig(t, 22, 22, 1, 2), "whole_workflow")

	inits := find(plan, stage.InitPhenotypeMatrix)
	adds := find(plan, stage.AddToPhenotypeMatrix)
	require.Len(t, inits, 1)
	require.Len(t, adds, 1)
	keys := inits[0].Outputs[0].ID
	assert.NotEqual(t, keys, adds[0].Outputs[0].ID)
	assert.Contains(t, adds[0].Inputs, keys)

	for _, f := range find(plan, stage.FilloutPhenotypeMatrix) {
		assert.Contains(t, f.Inputs, adds[0].Outputs[0].ID)
	}
}

func TestCombineLogsReconcilerStats(t *testing.T) {
	cfg := testConfig(t, 22, 22, 2, 1)
	cfg.RefpanelCombine = true
	_, err := config.Validate(cfg)
	require.NoError(t, err)
	gate, err := stage.NewGate("whole_workflow", stage.Tool(cfg.ImputationTool))
	require.NoError(t, err)
	core, logs := observer.New(zapcore.DebugLevel)
	store := artifact.NewStore()
	plan, err := New(cfg, gate, store).WithLogger(zap.New(core)).Build()
	require.NoError(t, err)

	task := find(plan, stage.CombinePanels)[0]
	require.Len(t, task.Inputs, 2)
	header := "chr\tposition\trs_id_all\tinfo_all\talleleA\talleleB"
	require.NoError(t, store.WriteLines(string(task.Inputs[0]), []string{header, "22\t1\trs1\t0.9\tA\tC"}))
	require.NoError(t, store.WriteLines(string(task.Inputs[1]), []string{header, "22\t1\trs1\t0.5\tC\tA"}))
	require.NoError(t, task.Run(context.Background()))

	entries := logs.FilterMessage("panels combined").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 1, fields["rows"])
	assert.EqualValues(t, 1, fields["kept_a"])
	assert.EqualValues(t, 1, fields["reverse"])
}

// fixtureExec runs the merge stages for real and fakes everything else by
// writing a one-row table to each output. Every produced input must exist
// when a task starts.
type fixtureExec struct {
	store    *artifact.Store
	produced map[artifact.ID]bool
	real     map[stage.Stage]bool
}

func (f *fixtureExec) Submit(ctx context.Context, t *dispatch.Task) error {
	for _, in := range t.Inputs {
		if f.produced[in] && !artifact.Exists(string(in)) {
			return fmt.Errorf("%s started before %s existed", t.ID, in)
		}
	}
	if f.real[t.Stage] {
		return t.Run(ctx)
	}
	for _, o := range t.Outputs {
		if err := f.store.WriteLines(o.Path(), []string{"chr\tposition\tpvalue", fmt.Sprintf("22\t%d\t0.5", o.Coords.Start)}); err != nil {
			return err
		}
	}
	return nil
}

func TestScenarioSixLeavesFiveMerges(t *testing.T) {
	cfg := testConfig(t, 22, 22, 1, 1)
	cfg.TempFiles = "delete"
	plan := build(t, cfg, "whole_workflow")

	store := artifact.NewStore()
	exec := &fixtureExec{store: store, produced: map[artifact.ID]bool{}, real: map[stage.Stage]bool{
		stage.MergeTwoChunks: true, stage.JointCondensed: true,
	}}
	for _, a := range plan.Artifacts(false) {
		exec.produced[a.ID] = true
	}
	d := dispatch.New(exec, dispatch.Options{Parallel: 4, Store: store})
	rep, err := Run(context.Background(), d, plan, artifact.Delete, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	assert.Equal(t, len(plan.Tasks), rep.Count(dispatch.Completed))

	names := New(cfg, plan.Gate, store).Names()
	final := names.FinalCondensed("t0", "p0").Path()
	var rows []string
	require.NoError(t, tsv.ScanLines(context.Background(), final, func(n int, line string) error {
		if n > 1 {
			rows = append(rows, line)
		}
		return nil
	}))
	// one row per window; the tree pairs the trailing windows first
	var want []string
	for i := 0; i < 6; i++ {
		want = append(want, fmt.Sprintf("22\t%d\t0.5", 1+10*i))
	}
	assert.Equal(t, append(want[4:6:6], want[:4]...), rows)

	// intermediates are gone, finals stay
	_, err = os.Stat(names.ChrCondensed("t0", "p0", 22).Path())
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, final)
	assert.FileExists(t, names.TopHits("t0", "p0").Path())
}
