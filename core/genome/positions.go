// core/genome/positions.go
package genome

import "fmt"

// Range is the inclusive position span analysed on one chromosome.
type Range struct {
	Min int `mapstructure:"min" yaml:"min"`
	Max int `mapstructure:"max" yaml:"max"`
}

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Min, r.Max) }

// GRCh37 chromosome lengths.
var grch37 = [...]int{
	0,
	249250621, 243199373, 198022430, 191154276, 180915260, 171115067,
	159138663, 146364022, 141213431, 135534747, 135006516, 133851895,
	115169878, 107349540, 102531392, 90354753, 81195210, 78077248,
	59128983, 63025520, 48129895, 51304566, 155270560,
}

// DefaultRange is 1..length on GRCh37.
func DefaultRange(c Chromosome) Range {
	if !c.Valid() {
		return Range{}
	}
	return Range{Min: 1, Max: grch37[c]}
}

// Ranges resolves per-chromosome ranges, falling back to DefaultRange.
type Ranges map[Chromosome]Range

func (rs Ranges) For(c Chromosome) Range {
	if r, ok := rs[c]; ok {
		return r
	}
	return DefaultRange(c)
}
