// internal/dispatch/task.go
package dispatch

import (
	"context"
	"strings"
	"time"

	"guidance/core/stage"
	"guidance/internal/artifact"
)

// Command describes one invocation of an external binary.
type Command struct {
	Tool string // logical name, e.g. "impute2"
	Path string // resolved binary
	Args []string
	Dir  string
	// Stdout, when set, receives the process's standard output.
	Stdout string
}

// String renders the command the way it is written to the manifest.
func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Path)
	for _, a := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	if c.Stdout != "" {
		sb.WriteString(" > ")
		sb.WriteString(c.Stdout)
	}
	return sb.String()
}

// Task is one unit handed to an Executor. A task is external when it carries
// a Command and internal when it carries Run.
type Task struct {
	ID      string
	Stage   stage.Stage
	Inputs  []artifact.ID
	Outputs []artifact.Artifact
	Command *Command
	Run     func(ctx context.Context) error
	// Describe is the manifest line of an internal task.
	Describe string
}

func (t *Task) Class() stage.Class {
	if t.Command != nil {
		return stage.External
	}
	return stage.Internal
}

// Line is the manifest rendering of t.
func (t *Task) Line() string {
	if t.Command != nil {
		return t.Command.String()
	}
	return t.Describe
}

// Outcome is the terminal state of a task.
type Outcome string

const (
	Completed Outcome = "completed"
	Warned    Outcome = "warned"
	Failed    Outcome = "failed"
	Skipped   Outcome = "skipped"
)

// Result records how a task ended.
type Result struct {
	TaskID       string
	Stage        stage.Stage
	Class        stage.Class
	Outcome      Outcome
	Err          error
	Placeholders []artifact.ID
	Outputs      []artifact.ID
	Started      time.Time
	Duration     time.Duration
}
