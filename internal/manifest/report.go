// internal/manifest/report.go
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"guidance/internal/dispatch"
	"guidance/pkg/api"
)

// Run describes one finished dispatch.
type Run struct {
	RunID          string
	Started        time.Time
	Finished       time.Time
	WfDeep         string
	ImputationTool string
	OutDir         string
	Interrupted    bool
}

// NewReport builds the versioned report of rep.
func NewReport(r Run, rep *dispatch.Report) api.RunReportV1 {
	out := api.RunReportV1{
		RunID:          r.RunID,
		Started:        r.Started.UTC().Format(time.RFC3339),
		Finished:       r.Finished.UTC().Format(time.RFC3339),
		WfDeep:         r.WfDeep,
		ImputationTool: r.ImputationTool,
		OutDir:         r.OutDir,
		Interrupted:    r.Interrupted,
		Tasks:          []api.TaskResultV1{},
	}
	if rep == nil {
		return out
	}
	out.Counts = api.OutcomeCountV1{
		Completed: rep.Count(dispatch.Completed),
		Warned:    rep.Count(dispatch.Warned),
		Failed:    rep.Count(dispatch.Failed),
		Skipped:   rep.Count(dispatch.Skipped),
	}
	for _, res := range rep.Results {
		tr := api.TaskResultV1{
			ID:         res.TaskID,
			Stage:      res.Stage.String(),
			Class:      res.Class.String(),
			Outcome:    string(res.Outcome),
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			tr.Error = res.Err.Error()
		}
		for _, p := range res.Placeholders {
			tr.Placeholders = append(tr.Placeholders, string(p))
		}
		out.Tasks = append(out.Tasks, tr)
	}
	return out
}

// WriteReport writes rep as YAML to path, replacing it atomically.
func WriteReport(path string, rep api.RunReportV1) error {
	b, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("manifest: encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (api.RunReportV1, error) {
	var rep api.RunReportV1
	b, err := os.ReadFile(path)
	if err != nil {
		return rep, err
	}
	if err := yaml.Unmarshal(b, &rep); err != nil {
		return rep, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return rep, nil
}
