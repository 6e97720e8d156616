// pkg/api/run_report_v1.go
package api

// RunReportV1 is the stable schema of <out_dir>/run_report.yaml.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type RunReportV1 struct {
	RunID          string         `json:"run_id" yaml:"run_id"`
	Started        string         `json:"started" yaml:"started"` // RFC 3339
	Finished       string         `json:"finished" yaml:"finished"`
	WfDeep         string         `json:"wf_deep" yaml:"wf_deep"`
	ImputationTool string         `json:"imputation_tool" yaml:"imputation_tool"`
	OutDir         string         `json:"out_dir" yaml:"out_dir"`
	Counts         OutcomeCountV1 `json:"counts" yaml:"counts"`
	Tasks          []TaskResultV1 `json:"tasks" yaml:"tasks"`
	Interrupted    bool           `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
}

type OutcomeCountV1 struct {
	Completed int `json:"completed" yaml:"completed"`
	Warned    int `json:"warned" yaml:"warned"`
	Failed    int `json:"failed" yaml:"failed"`
	Skipped   int `json:"skipped" yaml:"skipped"`
}

// TaskResultV1 is one dispatched task.
type TaskResultV1 struct {
	ID           string   `json:"id" yaml:"id"`
	Stage        string   `json:"stage" yaml:"stage"`
	Class        string   `json:"class" yaml:"class"`     // "external" | "internal"
	Outcome      string   `json:"outcome" yaml:"outcome"` // "completed" | "warned" | "failed" | "skipped"
	DurationMS   int64    `json:"duration_ms" yaml:"duration_ms"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty"`
	Placeholders []string `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
}
