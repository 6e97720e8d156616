// internal/manifest/stages.go
package manifest

import (
	"fmt"
	"strings"
	"time"

	"guidance/internal/artifact"
	"guidance/internal/config"
	"guidance/internal/dispatch"
)

const rule = "####################################################################"

// DateLayout is the banner timestamp format.
const DateLayout = "2006/01/02 15:04:05"

// Banner is the header of the list of stages.
type Banner struct {
	RunID   string
	Started time.Time
	Config  *config.Config
}

// Lines renders b, one "#" line per entry.
func (b Banner) Lines() []string {
	c := b.Config
	out := []string{
		rule,
		"# List of tasks executed by the guidance workflow",
		"# Run: " + b.RunID,
		"# Date: " + b.Started.Format(DateLayout),
		"# Parameters of the execution:",
	}
	param := func(k string, v any) { out = append(out, fmt.Sprintf("#   %s = %v", k, v)) }
	if c != nil {
		param("wf_deep", c.WfDeep)
		param("imputation_tool", c.ImputationTool)
		param("chromosomes", fmt.Sprintf("%d-%d", c.InitChromosome, c.EndChromosome))
		param("chunk_size_analysis", c.ChunkSize)
		param("input_format", c.InputFormat)
		param("panels", strings.Join(c.PanelNames(), ","))
		param("test_types", strings.Join(c.TestTypeNames(), ","))
		param("maf_threshold", c.MAFThreshold)
		param("info_threshold", c.InfoThreshold())
		param("pva_threshold", c.PvaThreshold)
		param("hwe_cohort_threshold", c.HWECohortThreshold)
		param("hwe_cases_threshold", c.HWECasesThreshold)
		param("hwe_controls_threshold", c.HWEControlsThreshold)
		param("exclude_cgat_snps", c.ExcludeCGATSnps)
		param("exclude_sv_snps", c.ExcludeSVSnps)
		param("refpanel_combine", c.RefpanelCombine)
		param("temp_files", c.TempFiles)
	}
	return append(out, rule)
}

// WriteStages writes the banner and one entry per task to path, each
// followed by a blank line. It runs at plan time, so the list is complete
// even when tasks later fail.
func WriteStages(store *artifact.Store, path string, b Banner, tasks []*dispatch.Task) error {
	lines := make([]string, 0, 2*(len(tasks)+24))
	for _, l := range b.Lines() {
		lines = append(lines, l, "")
	}
	for _, t := range tasks {
		lines = append(lines, t.Line(), "")
	}
	if err := store.WriteLines(path, lines); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	return nil
}
