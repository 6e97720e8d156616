// core/variant/complement.go
package variant

// Sentinel replaces any base outside ACGT when complementing.
const Sentinel = 'X'

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
}

// Complement maps each base of allele A<->T, C<->G; anything else becomes
// Sentinel. Order is preserved (this is not a reverse complement).
func Complement(allele string) string {
	if allele == "" {
		return ""
	}
	out := make([]byte, len(allele))
	for i := 0; i < len(allele); i++ {
		c := complement[allele[i]]
		if c == 0 {
			c = Sentinel
		}
		out[i] = c
	}
	return string(out)
}
