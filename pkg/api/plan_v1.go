// pkg/api/plan_v1.go
package api

// PlanV1 summarises a task graph without running it.
type PlanV1 struct {
	WfDeep         string         `json:"wf_deep" yaml:"wf_deep"`
	ImputationTool string         `json:"imputation_tool" yaml:"imputation_tool"`
	Chromosomes    []string       `json:"chromosomes" yaml:"chromosomes"`
	Tasks          int            `json:"tasks" yaml:"tasks"`
	Stages         []StageCountV1 `json:"stages" yaml:"stages"`
}

type StageCountV1 struct {
	Stage   string `json:"stage" yaml:"stage"`
	Class   string `json:"class" yaml:"class"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Tasks   int    `json:"tasks" yaml:"tasks"`
}

// StagesV1 is the activation table of one selector.
type StagesV1 struct {
	WfDeep         string        `json:"wf_deep" yaml:"wf_deep"`
	ImputationTool string        `json:"imputation_tool" yaml:"imputation_tool"`
	Stages         []StageFlagV1 `json:"stages" yaml:"stages"`
}

type StageFlagV1 struct {
	Stage   string `json:"stage" yaml:"stage"`
	Class   string `json:"class" yaml:"class"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}
