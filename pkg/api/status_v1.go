// pkg/api/status_v1.go
package api

// StatusV1 is the ledger view of one run.
type StatusV1 struct {
	RunID    string         `json:"run_id" yaml:"run_id"`
	Started  string         `json:"started" yaml:"started"`
	Finished string         `json:"finished,omitempty" yaml:"finished,omitempty"`
	Counts   OutcomeCountV1 `json:"counts" yaml:"counts"`
	Tasks    []TaskStatusV1 `json:"tasks" yaml:"tasks"`
}

type TaskStatusV1 struct {
	ID           string `json:"id" yaml:"id"`
	Stage        string `json:"stage" yaml:"stage"`
	Outcome      string `json:"outcome" yaml:"outcome"`
	DurationMS   int64  `json:"duration_ms" yaml:"duration_ms"`
	Placeholders int    `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}
