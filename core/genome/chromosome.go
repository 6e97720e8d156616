// core/genome/chromosome.go
package genome

import (
	"fmt"
	"strconv"
	"strings"
)

// Chromosome is a human chromosome number. 23 is X.
type Chromosome int

const (
	First Chromosome = 1
	X     Chromosome = 23
	Last             = X
)

// String is the numeric form used in artifact names and in the chr column.
func (c Chromosome) String() string { return strconv.Itoa(int(c)) }

// Label is the human-facing form ("X" for 23).
func (c Chromosome) Label() string {
	if c == X {
		return "X"
	}
	return c.String()
}

func (c Chromosome) Valid() bool { return c >= First && c <= Last }

func (c Chromosome) IsX() bool { return c == X }

// ParseChromosome accepts "1".."23", "X"/"x" and an optional "chr" prefix.
func ParseChromosome(s string) (Chromosome, error) {
	t := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "chr")
	if t == "x" {
		return X, nil
	}
	n, err := strconv.Atoi(t)
	if err != nil || !Chromosome(n).Valid() {
		return 0, fmt.Errorf("genome: bad chromosome %q", s)
	}
	return Chromosome(n), nil
}

// Span returns start..end inclusive.
func Span(start, end Chromosome) []Chromosome {
	if end < start {
		return nil
	}
	out := make([]Chromosome, 0, int(end-start)+1)
	for c := start; c <= end; c++ {
		out = append(out, c)
	}
	return out
}
