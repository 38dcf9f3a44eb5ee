// internal/motif/scan.go
package motif

import (
	"math"

	"motifscan/internal/alphabet"
)

// Score is one scored window. It references the caller's sequence buffer and
// is only valid for the duration of the Visitor call that delivered it.
//
// A window containing a non-ACGT base is unscorable: Scorable is false,
// Value is 0 and PValue is NaN. Consumers branch on Scorable, never on NaN
// comparisons.
type Score struct {
	Begin    int // 0-based, inclusive
	End      int // 0-based, exclusive
	Value    float64
	PValue   float64
	Scorable bool

	seq []byte
}

// Matched returns the window text, upper-cased.
func (s Score) Matched() string {
	out := make([]byte, s.End-s.Begin)
	for i := range out {
		c := s.seq[s.Begin+i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Match pairs a Score with the motif and sequence it was found in.
// Start and Stop are 1-based inclusive coordinates within the sequence.
type Match struct {
	Motif             string
	Sequence          string
	Start             int
	Stop              int
	ReverseComplement bool
	Score             Score
}

// Strand returns '+' for forward-matrix matches and '-' for
// reverse-complement ones.
func (m Match) Strand() byte {
	if m.ReverseComplement {
		return '-'
	}
	return '+'
}

// Visitor receives one Match per scanned window, in left-to-right order.
// The Match references the scanned sequence buffer and must not be retained
// after the call returns. A non-nil error aborts the scan.
type Visitor func(Match) error

// Scan scores every window of length Length() that fits fully inside seq and
// pushes one Match per window to visit. A sequence shorter than the motif
// yields zero windows and a nil error. Lower-case bases are accepted.
func (m *ScoreMatrix) Scan(seq []byte, sequenceName string, visit Visitor) error {
	n := len(m.matrix)
	for begin := 0; begin+n <= len(seq); begin++ {
		match := Match{
			Motif:             m.name,
			Sequence:          sequenceName,
			Start:             begin + 1,
			Stop:              begin + n,
			ReverseComplement: m.reverseComplement,
			Score:             m.scoreWindow(seq, begin, begin+n),
		}
		if err := visit(match); err != nil {
			return err
		}
	}
	return nil
}

func (m *ScoreMatrix) scoreWindow(seq []byte, begin, end int) Score {
	total := 0
	for pos := begin; pos < end; pos++ {
		col := alphabet.Index(seq[pos])
		if col < 0 {
			return Score{Begin: begin, End: end, PValue: math.NaN(), seq: seq}
		}
		total += m.matrix[pos-begin][col]
	}
	return Score{
		Begin:    begin,
		End:      end,
		Value:    float64(total)/m.scale + m.minBeforeScaling*float64(len(m.matrix)),
		PValue:   m.pvalues[total],
		Scorable: true,
		seq:      seq,
	}
}
