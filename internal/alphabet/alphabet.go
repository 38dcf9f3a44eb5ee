// internal/alphabet/alphabet.go
package alphabet

// Size is the number of symbols in the nucleotide alphabet.
const Size = 4

var letters = [Size]byte{'A', 'C', 'G', 'T'}

var (
	index      [256]int8
	complement [256]byte
)

func init() {
	for i := range index {
		index[i] = -1
	}
	index['A'], index['a'] = 0, 0
	index['C'], index['c'] = 1, 1
	index['G'], index['g'] = 2, 2
	index['T'], index['t'] = 3, 3

	complement['A'], complement['a'] = 'T', 'T'
	complement['C'], complement['c'] = 'G', 'G'
	complement['G'], complement['g'] = 'C', 'C'
	complement['T'], complement['t'] = 'A', 'A'
}

// Index returns the matrix column for an A/C/G/T base (case-insensitive),
// or -1 for any other byte.
func Index(base byte) int { return int(index[base]) }

// Letter returns the upper-case base for a column returned by Index.
func Letter(i int) byte { return letters[i] }

// Complement returns the complementary base (A<->T, C<->G, case-insensitive),
// or 0 for non-ACGT input.
func Complement(base byte) byte { return complement[base] }
