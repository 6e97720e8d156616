// core/variant/key.go
package variant

import "strings"

// Key identifies a variant by position, alleles and chromosome. Fields are
// kept as the text found in the artifact so keys round-trip exactly.
type Key struct {
	Position   string
	AlleleA    string
	AlleleB    string
	Chromosome string
}

// Match says which derived form of a key found its partner.
type Match int

const (
	NoMatch Match = iota
	Exact
	Reverse
	Complemented
	ComplementReverse
)

func (m Match) String() string {
	switch m {
	case Exact:
		return "exact"
	case Reverse:
		return "reverse"
	case Complemented:
		return "complement"
	case ComplementReverse:
		return "complement-reverse"
	default:
		return "none"
	}
}

func join(pos, a, b, chr string) string {
	var sb strings.Builder
	sb.Grow(len(pos) + len(a) + len(b) + len(chr) + 3)
	sb.WriteString(pos)
	sb.WriteByte('_')
	sb.WriteString(a)
	sb.WriteByte('_')
	sb.WriteString(b)
	sb.WriteByte('_')
	sb.WriteString(chr)
	return sb.String()
}

// String is the identity form "position_alleleA_alleleB_chromosome".
func (k Key) String() string { return join(k.Position, k.AlleleA, k.AlleleB, k.Chromosome) }

// Reversed swaps the alleles.
func (k Key) Reversed() string { return join(k.Position, k.AlleleB, k.AlleleA, k.Chromosome) }

// Complement complements both alleles in place.
func (k Key) Complement() string {
	return join(k.Position, Complement(k.AlleleA), Complement(k.AlleleB), k.Chromosome)
}

// ComplementReversed complements both alleles and swaps them.
func (k Key) ComplementReversed() string {
	return join(k.Position, Complement(k.AlleleB), Complement(k.AlleleA), k.Chromosome)
}

// Candidate is one derived key form tagged with its Match kind.
type Candidate struct {
	Match Match
	Key   string
}

// Candidates lists the four forms in matching priority order.
func (k Key) Candidates() [4]Candidate {
	return [4]Candidate{
		{Exact, k.String()},
		{Reverse, k.Reversed()},
		{Complemented, k.Complement()},
		{ComplementReverse, k.ComplementReversed()},
	}
}

// Lookup returns the first candidate present in idx.
func Lookup[V any](idx map[string]V, k Key) (string, V, Match) {
	for _, c := range k.Candidates() {
		if v, ok := idx[c.Key]; ok {
			return c.Key, v, c.Match
		}
	}
	var zero V
	return "", zero, NoMatch
}
