// core/genome/plan_test.go
package genome

import (
	"errors"
	"testing"
)

func scenarioPlanner() Planner {
	return Planner{
		Start:     1,
		End:       2,
		ChunkSize: 1000,
		Ranges:    Ranges{1: {Min: 1, Max: 2500}, 2: {Min: 1, Max: 2500}},
	}
}

func TestGroupsScenario(t *testing.T) {
	gs, err := scenarioPlanner().Groups([]string{"tt"}, []string{"p"})
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 2 {
		t.Fatalf("groups = %d, want 2", len(gs))
	}
	total := 0
	for i, g := range gs {
		if g.Chromosome != Chromosome(i+1) {
			t.Errorf("group %d chromosome %v", i, g.Chromosome)
		}
		if len(g.Units) != 3 {
			t.Errorf("group %d units = %d", i, len(g.Units))
		}
		for j := 1; j < len(g.Units); j++ {
			if g.Units[j].Window.Start <= g.Units[j-1].Window.Start {
				t.Errorf("units not in genomic order: %v", g.Units)
			}
		}
		total += len(g.Units)
	}
	if total != 6 {
		t.Errorf("total units = %d, want 6", total)
	}
}

func TestGroupsOrder(t *testing.T) {
	gs, err := scenarioPlanner().Groups([]string{"a", "b"}, []string{"p1", "p2"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a/p1/1", "a/p1/2", "a/p2/1", "a/p2/2", "b/p1/1", "b/p1/2", "b/p2/1", "b/p2/2"}
	for i, g := range gs {
		got := g.TestType + "/" + g.Panel + "/" + g.Chromosome.String()
		if got != want[i] {
			t.Errorf("group %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestPassesSplitX(t *testing.T) {
	auto, x := Planner{Start: 21, End: 23}.Passes()
	if !x || len(auto) != 2 || auto[0] != 21 || auto[1] != 22 {
		t.Errorf("Passes(21..23) = %v, %v", auto, x)
	}
	auto, x = Planner{Start: 23, End: 23}.Passes()
	if !x || len(auto) != 0 {
		t.Errorf("Passes(23..23) = %v, %v", auto, x)
	}
	auto, x = Planner{Start: 1, End: 22}.Passes()
	if x || len(auto) != 22 {
		t.Errorf("Passes(1..22) = %d, %v", len(auto), x)
	}
}

func TestPlannerValidate(t *testing.T) {
	bad := []Planner{
		{Start: 0, End: 2, ChunkSize: 10},
		{Start: 3, End: 2, ChunkSize: 10},
		{Start: 1, End: 24, ChunkSize: 10},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrChromosomeRange) {
			t.Errorf("%+v: %v", p, err)
		}
	}
	if err := (Planner{Start: 1, End: 1}).Validate(); !errors.Is(err, ErrChunkSize) {
		t.Errorf("chunk 0: %v", err)
	}
	p := Planner{Start: 1, End: 1, ChunkSize: 10, Ranges: Ranges{1: {Min: 5, Max: 5}}}
	if err := p.Validate(); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("empty range: %v", err)
	}
	if DefaultRange(X).Max != 155270560 {
		t.Errorf("X length changed: %d", DefaultRange(X).Max)
	}
}
