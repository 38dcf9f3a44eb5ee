// Package motif scores nucleotide sequences against position weight
// matrices. A ScoreMatrix is built once from observed frequencies plus a
// background distribution and is then reused, read-only, across any number
// of scans: construction precomputes an integer-scaled log-odds matrix and
// the exact probability of every achievable window score, so scanning is a
// table lookup per base.
package motif

import (
	"fmt"
	"math"

	"motifscan/internal/alphabet"
)

// DefaultPseudoSites is the pseudocount weight used by the MEME suite.
const DefaultPseudoSites = 0.1

// scaledRange is the integer resolution the log-odds dynamic range is mapped
// onto. Coarser values visibly degrade p-value resolution for long motifs.
const scaledRange = 1000

// Background holds one probability per alphabet symbol, in Index order.
type Background [alphabet.Size]float64

// UniformBackground returns the default background distribution.
func UniformBackground() Background {
	return Background{0.25, 0.25, 0.25, 0.25}
}

// Row holds one motif position's per-symbol frequencies, in Index order.
type Row [alphabet.Size]float64

// FrequencyMatrix is a parsed position weight matrix: one Row per motif
// position and the number of aligned sites the frequencies were derived from.
type FrequencyMatrix struct {
	Name  string
	Rows  []Row
	Sites int
}

// ScoreMatrix is an immutable scoring engine for a single motif strand.
type ScoreMatrix struct {
	name              string
	reverseComplement bool
	background        Background
	matrix            [][alphabet.Size]int
	scale             float64
	minBeforeScaling  float64
	pvalues           []float64
}

// New builds a ScoreMatrix from frequency rows. Each frequency is smoothed
// with pseudoSites pseudocounts weighted by the background, converted to a
// log2 likelihood ratio, and affine-mapped onto non-negative integers.
// Construction is deterministic: identical inputs yield identical matrices
// and p-value tables.
func New(name string, bg Background, rows []Row, sites int, reverseComplement bool, pseudoSites float64) (*ScoreMatrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("motif %s: frequency matrix has no rows", name)
	}
	for i, p := range bg {
		if p <= 0 {
			return nil, fmt.Errorf("motif %s: background frequency for %c is %v; log-odds undefined", name, alphabet.Letter(i), p)
		}
	}
	for r, row := range rows {
		for _, freq := range row {
			if freq < 0 || math.IsNaN(freq) {
				return nil, fmt.Errorf("motif %s: row %d has invalid frequency %v", name, r, freq)
			}
		}
	}

	odds := logOdds(rows, bg, sites, pseudoSites)
	min, max := minMax(odds)

	m := &ScoreMatrix{
		name:              name,
		reverseComplement: reverseComplement,
		background:        bg,
		minBeforeScaling:  min,
	}
	m.matrix, m.scale = scaleMatrix(odds, min, max, scaledRange)
	m.pvalues = pdfToPValues(probabilityDistribution(m.matrix, bg))
	return m, nil
}

// Name returns the motif name.
func (m *ScoreMatrix) Name() string { return m.name }

// Length returns the motif length in positions.
func (m *ScoreMatrix) Length() int { return len(m.matrix) }

// IsReverseComplement reports whether this matrix scores the opposite strand.
func (m *ScoreMatrix) IsReverseComplement() bool { return m.reverseComplement }

// Background returns the background distribution the matrix was built with.
func (m *ScoreMatrix) Background() Background { return m.background }

// MaxScaledSum is the largest achievable integer window score.
func (m *ScoreMatrix) MaxScaledSum() int { return len(m.pvalues) - 1 }

// PValues returns a copy of the survival-function table: entry s is the
// probability of a background-random window scoring s or higher.
func (m *ScoreMatrix) PValues() []float64 {
	return append([]float64(nil), m.pvalues...)
}

// Value returns the scaled log-likelihood cell for a motif position and base.
// The position must be < Length(); the base must be A/C/G/T (either case).
func (m *ScoreMatrix) Value(position int, base byte) (int, error) {
	col := alphabet.Index(base)
	if col < 0 {
		return 0, fmt.Errorf("invalid base %q", base)
	}
	return m.matrix[position][col], nil
}

// ReverseComplement returns the frequency rows read on the opposite strand:
// reversed row order with the A<->T and C<->G columns swapped.
func ReverseComplement(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = Row{row[3], row[2], row[1], row[0]}
	}
	return out
}

// logOdds smooths each frequency with background-weighted pseudocounts and
// converts it to a log2 likelihood ratio against the background.
func logOdds(rows []Row, bg Background, sites int, pseudoSites float64) []Row {
	out := make([]Row, len(rows))
	for r, row := range rows {
		for s, freq := range row {
			adjusted := (freq*float64(sites) + bg[s]*pseudoSites) / (float64(sites) + pseudoSites)
			out[r][s] = math.Log2(adjusted / bg[s])
		}
	}
	return out
}

func minMax(rows []Row) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

// scaleMatrix maps log-odds cells onto [0, rangeSize] integers: scale is
// rangeSize over the matrix dynamic range, each cell is round((v-min)*scale).
// Cells are clipped at 0 so scaled sums index the p-value table directly.
func scaleMatrix(rows []Row, min, max float64, rangeSize int) ([][alphabet.Size]int, float64) {
	span := max - min
	if span <= 0 {
		span = 1
	}
	scale := float64(rangeSize) / span
	out := make([][alphabet.Size]int, len(rows))
	for r, row := range rows {
		for s, v := range row {
			scaled := int(math.Round((v - min) * scale))
			if scaled < 0 {
				scaled = 0
			}
			out[r][s] = scaled
		}
	}
	return out, scale
}

// probabilityDistribution computes the exact probability mass of every
// achievable cumulative scaled score when each position's base is drawn
// independently from the background. Each row convolves the running
// distribution with the row's symbol-score distribution; the result for an
// empty matrix is all mass at score 0.
func probabilityDistribution(matrix [][alphabet.Size]int, bg Background) []float64 {
	probs := []float64{1}
	for _, row := range matrix {
		rowMax := 0
		for _, v := range row {
			if v > rowMax {
				rowMax = v
			}
		}
		// A fresh buffer per row: the convolution reads every old index
		// while writing shifted ones.
		next := make([]float64, len(probs)+rowMax)
		for sum, p := range probs {
			if p == 0 {
				continue
			}
			for s, v := range row {
				next[sum+v] += p * bg[s]
			}
		}
		probs = next
	}
	return probs
}

// pdfToPValues converts a probability mass table into a survival function in
// place: entry s becomes P(score >= s), capped at 1.
func pdfToPValues(p []float64) []float64 {
	for i := len(p) - 2; i >= 0; i-- {
		p[i] += p[i+1]
		if p[i] > 1 {
			p[i] = 1
		}
	}
	return p
}
