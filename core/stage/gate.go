// core/stage/gate.go
package stage

import (
	"errors"
	"fmt"
)

// Tool is the imputation tool; it decides which tool-specific stages exist.
type Tool string

const (
	Impute  Tool = "impute"
	Minimac Tool = "minimac"
)

var (
	ErrUnknownSelector = errors.New("stage: unknown run-depth selector")
	ErrUnknownTool     = errors.New("stage: unknown imputation tool")
)

// ParseTool validates an imputation tool name.
func ParseTool(s string) (Tool, error) {
	switch Tool(s) {
	case Impute, Minimac:
		return Tool(s), nil
	}
	return "", fmt.Errorf("%w %q (want impute or minimac)", ErrUnknownTool, s)
}

// toolStages are the stages that only run with a given tool.
func (t Tool) excluded() []Stage {
	switch t {
	case Impute:
		return []Stage{ImputeWithMinimac, CreateExcludedSnps, FilterHaplotypes}
	case Minimac:
		return []Stage{ImputeWithImpute}
	}
	return nil
}

// Gate is the immutable stage activation table of one run.
type Gate struct {
	selector string
	tool     Tool
	on       Set
}

// NewGate derives the activation table from a selector and tool.
func NewGate(selector string, tool Tool) (Gate, error) {
	if _, err := ParseTool(string(tool)); err != nil {
		return Gate{}, err
	}
	set, ok := Lookup(selector)
	if !ok {
		return Gate{}, fmt.Errorf("%w %q", ErrUnknownSelector, selector)
	}
	return Gate{selector: selector, tool: tool, on: set.Without(tool.excluded()...)}, nil
}

func (g Gate) Selector() string { return g.selector }
func (g Gate) Tool() Tool       { return g.tool }
func (g Gate) Set() Set         { return g.on }

func (g Gate) Enabled(s Stage) bool { return g.on.Has(s) }

// Flag is one row of the activation table.
type Flag struct {
	Stage Stage
	On    bool
}

// Table returns every stage with its flag, in pipeline order.
func (g Gate) Table() []Flag {
	out := make([]Flag, 0, count)
	for _, s := range All() {
		out = append(out, Flag{Stage: s, On: g.on.Has(s)})
	}
	return out
}
