// core/genome/window.go
package genome

import (
	"errors"
	"fmt"
)

var (
	ErrChunkSize  = errors.New("genome: chunk size must be > 0")
	ErrEmptyRange = errors.New("genome: empty position range")
)

// Window is one chunk of a chromosome. End is Start+ChunkSize-1 and is not
// clamped to the chromosome's max position.
type Window struct {
	Chromosome Chromosome
	Start      int
	End        int
	ChunkSize  int
}

func (w Window) String() string {
	return fmt.Sprintf("%s:%d-%d", w.Chromosome.Label(), w.Start, w.End)
}

// Windows splits r into consecutive chunkSize windows starting at r.Min while
// the window start is below r.Max.
func Windows(c Chromosome, r Range, chunkSize int) ([]Window, error) {
	if chunkSize <= 0 {
		return nil, ErrChunkSize
	}
	if r.Min >= r.Max {
		return nil, fmt.Errorf("%w: chr %s %s", ErrEmptyRange, c.Label(), r)
	}
	n := (r.Max - r.Min + chunkSize - 1) / chunkSize
	out := make([]Window, 0, n)
	for start := r.Min; start < r.Max; start += chunkSize {
		out = append(out, Window{
			Chromosome: c,
			Start:      start,
			End:        start + chunkSize - 1,
			ChunkSize:  chunkSize,
		})
	}
	return out, nil
}
