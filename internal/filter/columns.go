// internal/filter/columns.go
package filter

import (
	"fmt"
	"strings"

	"guidance/core/tsv"
)

// Aliases name the same imputation-info column across tools: impute2 first,
// then minimac.
var (
	RsIDAliases      = []string{"rs_id", "SNP"}
	InfoAliases      = []string{"info", "Rsq"}
	CertaintyAliases = []string{"certainty", "AvgCall"}
	AlleleAAliases   = []string{"a0", "Al1"}
	AlleleBAliases   = []string{"a1", "Al2"}
	PositionAliases  = []string{"position"}
)

// Resolve returns the index of the first alias present in s.
func Resolve(s tsv.Schema, aliases ...string) (int, error) {
	for _, a := range aliases {
		if i, ok := s.Index(a); ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", tsv.ErrMissingColumn, strings.Join(aliases, "|"))
}

// SniffDelim picks tab when the header has one, otherwise a single space.
func SniffDelim(header string) string {
	if strings.Contains(header, tsv.Tab) {
		return tsv.Tab
	}
	return tsv.Space
}

// PositionFromID extracts the position from a "chr:pos[:a:b]" variant id.
func PositionFromID(id string) (string, bool) {
	p := strings.Split(id, ":")
	if len(p) < 2 || p[1] == "" {
		return "", false
	}
	return p[1], true
}
