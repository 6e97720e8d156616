// internal/manifest/manifest_test.go
package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidance/core/stage"
	"guidance/internal/artifact"
	"guidance/internal/config"
	"guidance/internal/dispatch"
)

func TestWriteStages(t *testing.T) {
	cfg := config.Defaults()
	cfg.Panels = []config.Panel{{Name: "1kg"}, {Name: "uk10k"}}
	path := filepath.Join(t.TempDir(), "list_of_stages.txt")
	started := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tasks := []*dispatch.Task{
		{ID: "a", Stage: stage.Snptest, Command: &dispatch.Command{Path: "/bin/snptest", Args: []string{"-data", "x.gen"}}},
		{ID: "b", Stage: stage.CollectSummary, Describe: "guidance collectSummary 22 info out summ"},
	}
	require.NoError(t, WriteStages(artifact.NewStore(), path, Banner{RunID: "r1", Started: started, Config: &cfg}, tasks))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, "# Date: 2024/03/01 12:30:00\n\n")
	assert.Contains(t, text, "#   panels = 1kg,uk10k\n")
	assert.Contains(t, text, "#   pva_threshold = 5e-08\n")
	assert.True(t, strings.HasSuffix(text, "/bin/snptest -data x.gen\n\nguidance collectSummary 22 info out summ\n\n"), text)
}

func TestReportRoundTrip(t *testing.T) {
	rep := &dispatch.Report{Results: []dispatch.Result{
		{TaskID: "snptest:a", Stage: stage.Snptest, Class: stage.External, Outcome: dispatch.Warned,
			Err: errors.New("exit 1"), Placeholders: []artifact.ID{"/o/a.out"}, Duration: 1500 * time.Millisecond},
		{TaskID: "collect-summary:b", Stage: stage.CollectSummary, Class: stage.Internal, Outcome: dispatch.Completed},
		{TaskID: "filter-by-all:c", Stage: stage.FilterByAll, Class: stage.Internal, Outcome: dispatch.Skipped},
	}}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	api := NewReport(Run{RunID: "r1", Started: now, Finished: now.Add(time.Minute), WfDeep: "whole_workflow", ImputationTool: "impute"}, rep)
	assert.Equal(t, 1, api.Counts.Warned)
	assert.Equal(t, 1, api.Counts.Completed)
	assert.Equal(t, 1, api.Counts.Skipped)
	assert.Equal(t, "2024-03-01T12:01:00Z", api.Finished)

	path := filepath.Join(t.TempDir(), "run_report.yaml")
	require.NoError(t, WriteReport(path, api))
	back, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, api, back)
	require.Len(t, back.Tasks, 3)
	assert.Equal(t, int64(1500), back.Tasks[0].DurationMS)
	assert.Equal(t, []string{"/o/a.out"}, back.Tasks[0].Placeholders)
	assert.Equal(t, "external", back.Tasks[0].Class)
}
