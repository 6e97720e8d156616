// core/genome/plan.go
package genome

import (
	"errors"
	"fmt"
)

var ErrChromosomeRange = errors.New("genome: bad chromosome range")

// WorkUnit is one (testType, panel, window) coordinate.
type WorkUnit struct {
	TestType string
	Panel    string
	Window   Window
}

// Group holds the ordered units of one (testType, panel, chromosome).
type Group struct {
	TestType   string
	Panel      string
	Chromosome Chromosome
	Units      []WorkUnit
}

// Planner enumerates windows and work units for a chromosome range.
type Planner struct {
	Start     Chromosome
	End       Chromosome
	ChunkSize int
	Ranges    Ranges
}

func (p Planner) Validate() error {
	if !p.Start.Valid() || !p.End.Valid() || p.Start > p.End {
		return fmt.Errorf("%w: %d..%d", ErrChromosomeRange, p.Start, p.End)
	}
	if p.ChunkSize <= 0 {
		return ErrChunkSize
	}
	for _, c := range p.Chromosomes() {
		r := p.Ranges.For(c)
		if r.Min >= r.Max {
			return fmt.Errorf("%w: chr %s %s", ErrEmptyRange, c.Label(), r)
		}
	}
	return nil
}

func (p Planner) Chromosomes() []Chromosome { return Span(p.Start, p.End) }

// Passes separates the autosomes from X. X is never an arithmetic peer of
// the autosomes: whenever it is in range it gets its own pass.
func (p Planner) Passes() (autosomes []Chromosome, withX bool) {
	for _, c := range p.Chromosomes() {
		if c.IsX() {
			withX = true
			continue
		}
		autosomes = append(autosomes, c)
	}
	return autosomes, withX
}

func (p Planner) Windows(c Chromosome) ([]Window, error) {
	return Windows(c, p.Ranges.For(c), p.ChunkSize)
}

// Groups returns one group per (testType, panel, chromosome), test types
// outermost, then panels, then chromosomes in ascending order.
func (p Planner) Groups(testTypes, panels []string) ([]Group, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	wins := make(map[Chromosome][]Window, int(p.End-p.Start)+1)
	for _, c := range p.Chromosomes() {
		ws, err := p.Windows(c)
		if err != nil {
			return nil, err
		}
		wins[c] = ws
	}
	var out []Group
	for _, tt := range testTypes {
		for _, rp := range panels {
			for _, c := range p.Chromosomes() {
				g := Group{TestType: tt, Panel: rp, Chromosome: c}
				for _, w := range wins[c] {
					g.Units = append(g.Units, WorkUnit{TestType: tt, Panel: rp, Window: w})
				}
				out = append(out, g)
			}
		}
	}
	return out, nil
}
