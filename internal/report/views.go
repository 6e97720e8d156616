// internal/report/views.go
package report

import (
	"fmt"
	"io"
	"time"

	"guidance/core/stage"
	"guidance/internal/config"
	"guidance/internal/ledger"
	"guidance/internal/workflow"
	"guidance/pkg/api"
)

// PlanView summarises p per stage, in pipeline order.
func PlanView(cfg *config.Config, p *workflow.Plan) api.PlanV1 {
	v := api.PlanV1{
		WfDeep:         p.Gate.Selector(),
		ImputationTool: string(p.Gate.Tool()),
		Tasks:          len(p.Tasks),
	}
	for _, c := range cfg.Planner().Chromosomes() {
		v.Chromosomes = append(v.Chromosomes, c.Label())
	}
	counts := p.Counts()
	for _, f := range p.Gate.Table() {
		v.Stages = append(v.Stages, api.StageCountV1{
			Stage:   f.Stage.String(),
			Class:   f.Stage.Class().String(),
			Enabled: f.On,
			Tasks:   counts[f.Stage],
		})
	}
	return v
}

func WritePlan(w io.Writer, f Format, v api.PlanV1) error {
	return emit(w, f, v, func() *grid {
		g := newGrid(f, "#", "Stage", "Class", "Enabled", "Tasks")
		for i, s := range v.Stages {
			g.row(i+1, s.Stage, s.Class, onOff(s.Enabled), s.Tasks)
		}
		g.footer("", fmt.Sprintf("%s / %s", v.WfDeep, v.ImputationTool), "", "", v.Tasks)
		g.alignRight(1, 5)
		return g
	})
}

func StagesView(g stage.Gate) api.StagesV1 {
	v := api.StagesV1{WfDeep: g.Selector(), ImputationTool: string(g.Tool())}
	for _, f := range g.Table() {
		v.Stages = append(v.Stages, api.StageFlagV1{Stage: f.Stage.String(), Class: f.Stage.Class().String(), Enabled: f.On})
	}
	return v
}

func WriteStages(w io.Writer, f Format, v api.StagesV1) error {
	return emit(w, f, v, func() *grid {
		g := newGrid(f, "#", "Stage", "Class", "Enabled")
		for i, s := range v.Stages {
			g.row(i+1, s.Stage, s.Class, onOff(s.Enabled))
		}
		g.alignRight(1)
		return g
	})
}

// StatusView converts ledger rows of run r.
func StatusView(r ledger.Run, tasks []ledger.TaskStatus) api.StatusV1 {
	v := api.StatusV1{RunID: r.ID, Started: r.Started.UTC().Format(time.RFC3339), Tasks: []api.TaskStatusV1{}}
	if !r.Finished.IsZero() {
		v.Finished = r.Finished.UTC().Format(time.RFC3339)
	}
	for _, t := range tasks {
		switch t.Outcome {
		case "completed":
			v.Counts.Completed++
		case "warned":
			v.Counts.Warned++
		case "failed":
			v.Counts.Failed++
		case "skipped":
			v.Counts.Skipped++
		}
		v.Tasks = append(v.Tasks, api.TaskStatusV1{
			ID:           t.TaskID,
			Stage:        t.Stage,
			Outcome:      t.Outcome,
			DurationMS:   t.Duration.Milliseconds(),
			Placeholders: t.Placeholders,
			Error:        t.Error,
		})
	}
	return v
}

func WriteStatus(w io.Writer, f Format, v api.StatusV1) error {
	return emit(w, f, v, func() *grid {
		g := newGrid(f, "Task", "Stage", "Outcome", "Duration", "Placeholders", "Error")
		for _, t := range v.Tasks {
			g.row(t.ID, t.Stage, t.Outcome, (time.Duration(t.DurationMS) * time.Millisecond).String(), t.Placeholders, t.Error)
		}
		c := v.Counts
		g.footer(v.RunID, "", fmt.Sprintf("%d ok, %d warned, %d failed, %d skipped", c.Completed, c.Warned, c.Failed, c.Skipped), "", "", "")
		g.alignRight(4, 5)
		return g
	})
}

func onOff(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
