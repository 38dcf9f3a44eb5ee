// internal/bamscan/scorer_test.go
package bamscan

import (
	"strings"
	"testing"

	"github.com/biogo/hts/sam"

	"motifscan/internal/motif"
	"motifscan/internal/output"
)

// testMatrix builds a fully deterministic matrix spelling out bases. Its
// perfect window scores p = 0.25^len, significant from length 7 up.
func testMatrix(t *testing.T, bases string) *motif.ScoreMatrix {
	t.Helper()
	cols := map[byte]int{'A': 0, 'C': 1, 'G': 2, 'T': 3}
	rows := make([]motif.Row, len(bases))
	for i := 0; i < len(bases); i++ {
		rows[i][cols[bases[i]]] = 1
	}
	m, err := motif.New(bases, motif.UniformBackground(), rows, 18, false, motif.DefaultPseudoSites)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func record(name, seq string, flags sam.Flags, pos int) *sam.Record {
	return &sam.Record{Name: name, Seq: sam.NewSeq([]byte(seq)), Flags: flags, Pos: pos}
}

func TestScoreReadHit(t *testing.T) {
	s := &Scorer{matrices: []*motif.ScoreMatrix{testMatrix(t, "ACGTACG")}}
	rec := record("read1", "TTTTACGTACGTTTT", sam.Unmapped, -1)
	if err := s.scoreRead(rec, ""); err != nil {
		t.Fatal(err)
	}
	want := Stats{Reads: 1, UnmappedReads: 1, HitReads: 1, UnmappedHitReads: 1, TotalHits: 1}
	if s.stats != want {
		t.Errorf("stats = %+v, want %+v", s.stats, want)
	}
}

func TestScoreReadMiss(t *testing.T) {
	s := &Scorer{matrices: []*motif.ScoreMatrix{testMatrix(t, "ACGTACG")}}
	if err := s.scoreRead(record("read1", "TTTTTTTTTTTTTTT", 0, 10), ""); err != nil {
		t.Fatal(err)
	}
	want := Stats{Reads: 1}
	if s.stats != want {
		t.Errorf("stats = %+v, want %+v", s.stats, want)
	}
}

func TestScoreReadCountsEveryWindow(t *testing.T) {
	// Two disjoint perfect windows on one read still count as one hit read.
	s := &Scorer{matrices: []*motif.ScoreMatrix{testMatrix(t, "ACGTACG")}}
	if err := s.scoreRead(record("read1", "ACGTACGTTACGTACG", 0, 10), ""); err != nil {
		t.Fatal(err)
	}
	if s.stats.TotalHits != 2 {
		t.Errorf("TotalHits = %d, want 2", s.stats.TotalHits)
	}
	if s.stats.HitReads != 1 {
		t.Errorf("HitReads = %d, want 1", s.stats.HitReads)
	}
}

func TestScoreReadUnmappedOnlySkipsMapped(t *testing.T) {
	s := &Scorer{
		opts:     Options{UnmappedOnly: true},
		matrices: []*motif.ScoreMatrix{testMatrix(t, "ACGTACG")},
	}
	if err := s.scoreRead(record("mapped", "TTTTACGTACGTTTT", 0, 10), ""); err != nil {
		t.Fatal(err)
	}
	want := Stats{Reads: 1}
	if s.stats != want {
		t.Errorf("mapped read was scored: stats = %+v, want %+v", s.stats, want)
	}

	if err := s.scoreRead(record("unmapped", "TTTTACGTACGTTTT", sam.Unmapped, -1), ""); err != nil {
		t.Fatal(err)
	}
	if s.stats.HitReads != 1 || s.stats.UnmappedHitReads != 1 {
		t.Errorf("unmapped read not scored: stats = %+v", s.stats)
	}
}

func TestScoreReadVerboseOffsetsByPosition(t *testing.T) {
	var sb strings.Builder
	s := &Scorer{
		opts:     Options{Verbose: true},
		matrices: []*motif.ScoreMatrix{testMatrix(t, "ACGTACG")},
		printer:  output.NewFimoWriter(&sb),
	}
	// Match sits at read-local 5..11; with Pos 100 it reports 105..111.
	if err := s.scoreRead(record("read1", "TTTTACGTACGTTTT", 0, 100), ""); err != nil {
		t.Fatal(err)
	}
	line := sb.String()
	if !strings.Contains(line, "\t105\t111\t") {
		t.Errorf("verbose output not offset by alignment position:\n%s", line)
	}
	if !strings.HasPrefix(line, "ACGTACG\tread1\t") {
		t.Errorf("verbose output missing motif/read names:\n%s", line)
	}
}

func TestScoreReadRegionNameOverride(t *testing.T) {
	var sb strings.Builder
	s := &Scorer{
		opts:     Options{Verbose: true},
		matrices: []*motif.ScoreMatrix{testMatrix(t, "ACGTACG")},
		printer:  output.NewFimoWriter(&sb),
	}
	if err := s.scoreRead(record("read1", "TTTTACGTACGTTTT", 0, 0), "chr1:100-200"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "\tchr1:100-200\t") {
		t.Errorf("region name not used as sequence name:\n%s", sb.String())
	}
}
