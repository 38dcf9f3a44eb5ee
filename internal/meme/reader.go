// Package meme loads MEME-format motif definitions and background
// frequency files into score matrices.
//
// Format reference: https://meme-suite.org/meme/doc/meme-format.html
package meme

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"motifscan/internal/alphabet"
	"motifscan/internal/motif"
)

// defaultSites is the MEME suite convention when a letter-probability
// header omits nsites.
const defaultSites = 20

// ReadMotifs parses a MEME-format motif stream and constructs one forward
// ScoreMatrix per motif plus, when includeRC is set, an independently scaled
// reverse-complement variant. Background lines embedded in the stream are
// ignored; bg always supplies the background model.
func ReadMotifs(r io.Reader, bg motif.Background, includeRC bool, pseudoSites float64) ([]*motif.ScoreMatrix, error) {
	pwms, err := ReadPWMs(r)
	if err != nil {
		return nil, err
	}
	if len(pwms) == 0 {
		return nil, fmt.Errorf("meme: no motifs found")
	}
	matrices := make([]*motif.ScoreMatrix, 0, 2*len(pwms))
	for _, p := range pwms {
		fwd, err := motif.New(p.Name, bg, p.Rows, p.Sites, false, pseudoSites)
		if err != nil {
			return nil, err
		}
		matrices = append(matrices, fwd)
		if includeRC {
			rev, err := motif.New(p.Name, bg, motif.ReverseComplement(p.Rows), p.Sites, true, pseudoSites)
			if err != nil {
				return nil, err
			}
			matrices = append(matrices, rev)
		}
	}
	return matrices, nil
}

// ReadPWMs parses the raw frequency matrices from a MEME-format stream
// without building score matrices.
func ReadPWMs(r io.Reader) ([]motif.FrequencyMatrix, error) {
	sc := bufio.NewScanner(r)
	var (
		out  []motif.FrequencyMatrix
		name string
		ln   int
	)
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "MOTIF"):
			f := strings.Fields(line)
			if len(f) < 2 {
				return nil, fmt.Errorf("meme:%d MOTIF line without a name", ln)
			}
			name = f[1]
		case strings.HasPrefix(line, "letter-probability matrix:"):
			if name == "" {
				return nil, fmt.Errorf("meme:%d letter-probability matrix without a preceding MOTIF line", ln)
			}
			width, sites, err := parseMatrixHeader(line, ln)
			if err != nil {
				return nil, err
			}
			rows, consumed, err := readRows(sc, width, ln)
			if err != nil {
				return nil, err
			}
			ln += consumed
			out = append(out, motif.FrequencyMatrix{Name: name, Rows: rows, Sites: sites})
			name = ""
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("meme scan: %w", err)
	}
	return out, nil
}

func parseMatrixHeader(line string, ln int) (width, sites int, err error) {
	sites = defaultSites
	f := strings.Fields(line)
	for i := 0; i+1 < len(f); i++ {
		switch f[i] {
		case "alength=":
			n, err := strconv.Atoi(f[i+1])
			if err != nil || n != alphabet.Size {
				return 0, 0, fmt.Errorf("meme:%d alength must be %d", ln, alphabet.Size)
			}
		case "w=":
			if width, err = strconv.Atoi(f[i+1]); err != nil {
				return 0, 0, fmt.Errorf("meme:%d bad motif width %q", ln, f[i+1])
			}
		case "nsites=":
			// MEME allows fractional site counts.
			v, err := strconv.ParseFloat(f[i+1], 64)
			if err != nil {
				return 0, 0, fmt.Errorf("meme:%d bad nsites %q", ln, f[i+1])
			}
			sites = int(math.Round(v))
		}
	}
	if width <= 0 {
		return 0, 0, fmt.Errorf("meme:%d letter-probability matrix without a positive w=", ln)
	}
	return width, sites, nil
}

func readRows(sc *bufio.Scanner, width, headerLine int) ([]motif.Row, int, error) {
	rows := make([]motif.Row, 0, width)
	consumed := 0
	for len(rows) < width && sc.Scan() {
		consumed++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := strings.Fields(line)
		if len(f) != alphabet.Size {
			return nil, consumed, fmt.Errorf("meme:%d expected %d frequencies, got %d", headerLine+consumed, alphabet.Size, len(f))
		}
		var row motif.Row
		for i, tok := range f {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, consumed, fmt.Errorf("meme:%d bad frequency %q: %v", headerLine+consumed, tok, err)
			}
			if v < 0 {
				return nil, consumed, fmt.Errorf("meme:%d negative frequency %q", headerLine+consumed, tok)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if len(rows) < width {
		return nil, consumed, fmt.Errorf("meme: motif truncated: want %d rows, got %d", width, len(rows))
	}
	return rows, consumed, nil
}

// ReadBackground parses a MEME-style background frequency file: letter and
// frequency pairs, whitespace separated, '#' comments allowed. Letters
// outside A/C/G/T (higher-order terms, ambiguity codes) are skipped; all
// four single bases must be present.
func ReadBackground(r io.Reader) (motif.Background, error) {
	var (
		bg   motif.Background
		seen [alphabet.Size]bool
	)
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.Fields(line)
		if len(f)%2 != 0 {
			return bg, fmt.Errorf("background:%d expected letter/frequency pairs", ln)
		}
		for i := 0; i < len(f); i += 2 {
			if len(f[i]) != 1 {
				continue
			}
			col := alphabet.Index(f[i][0])
			if col < 0 {
				continue
			}
			v, err := strconv.ParseFloat(f[i+1], 64)
			if err != nil {
				return bg, fmt.Errorf("background:%d bad frequency %q: %v", ln, f[i+1], err)
			}
			bg[col] = v
			seen[col] = true
		}
	}
	if err := sc.Err(); err != nil {
		return bg, fmt.Errorf("background scan: %w", err)
	}
	for i, ok := range seen {
		if !ok {
			return bg, fmt.Errorf("background: missing frequency for %c", alphabet.Letter(i))
		}
	}
	return bg, nil
}
