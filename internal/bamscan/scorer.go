// Package bamscan scores alignment-record (BAM) reads against a set of
// score matrices: every read (or only index-fetched reads overlapping a
// region list, or only unmapped reads), with hit reads optionally re-emitted
// unmodified to an output BAM.
package bamscan

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"motifscan/internal/motif"
	"motifscan/internal/output"
	"motifscan/internal/regions"
)

// significantPValue is the cutoff for counting a scored window as a hit.
const significantPValue = 1e-4

// Options configure a BAM scoring run.
type Options struct {
	Input        string // BAM to score
	Output       string // optional BAM re-emission of hit reads
	RegionFile   string // optional BED filter; requires Input+".bai"
	UnmappedOnly bool   // score only unmapped reads
	Verbose      bool   // FIMO-style printing of hits to the text writer
}

// Scorer drives a matrix set over BAM reads and accumulates Stats.
type Scorer struct {
	opts     Options
	matrices []*motif.ScoreMatrix
	printer  *output.FimoWriter // nil unless Verbose
	out      *bam.Writer
	stats    Stats
}

// Run scores opts.Input against matrices and returns the accumulated Stats.
// Verbose FIMO lines go to textOut.
func Run(opts Options, matrices []*motif.ScoreMatrix, textOut io.Writer) (Stats, error) {
	fh, err := os.Open(opts.Input)
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = fh.Close() }()

	br, err := bam.NewReader(fh, 1)
	if err != nil {
		return Stats{}, fmt.Errorf("open %s: %w", opts.Input, err)
	}
	defer func() { _ = br.Close() }()

	s := &Scorer{opts: opts, matrices: matrices}
	if opts.Verbose {
		s.printer = output.NewFimoWriter(textOut)
		if err := s.printer.Header(); err != nil {
			return Stats{}, err
		}
	}

	var of *os.File
	if opts.Output != "" {
		of, err = os.Create(opts.Output)
		if err != nil {
			return Stats{}, err
		}
		s.out, err = bam.NewWriter(of, br.Header(), 1)
		if err != nil {
			_ = of.Close()
			return Stats{}, fmt.Errorf("create %s: %w", opts.Output, err)
		}
	}

	if opts.RegionFile != "" {
		err = s.scoreRegions(br)
	} else {
		err = s.scoreAllReads(br)
	}

	if s.out != nil {
		if cerr := s.out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if cerr := of.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return s.stats, err
}

func (s *Scorer) scoreAllReads(br *bam.Reader) error {
	for {
		rec, err := br.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.scoreRead(rec, ""); err != nil {
			return err
		}
	}
}

func (s *Scorer) scoreRegions(br *bam.Reader) error {
	list, err := regions.Load(s.opts.RegionFile)
	if err != nil {
		return err
	}
	ix, err := os.Open(s.opts.Input + ".bai")
	if err != nil {
		return err
	}
	idx, err := bam.ReadIndex(ix)
	_ = ix.Close()
	if err != nil {
		return fmt.Errorf("read index %s.bai: %w", s.opts.Input, err)
	}

	refs := make(map[string]*sam.Reference, len(br.Header().Refs()))
	for _, ref := range br.Header().Refs() {
		refs[ref.Name()] = ref
	}
	for _, region := range list {
		ref, ok := refs[region.Chrom]
		if !ok {
			// this bam doesn't carry the chromosome
			continue
		}
		chunks, err := idx.Chunks(ref, region.Start, region.Stop)
		if err != nil {
			continue
		}
		it, err := bam.NewIterator(br, chunks)
		if err != nil {
			return err
		}
		name := region.Name()
		for it.Next() {
			if err := s.scoreRead(it.Record(), name); err != nil {
				_ = it.Close()
				return err
			}
		}
		if err := it.Close(); err != nil {
			return err
		}
	}
	return nil
}

// scoreRead scans one read against every matrix. sequenceName overrides the
// read name in verbose output when scoring a fetched region.
func (s *Scorer) scoreRead(rec *sam.Record, sequenceName string) error {
	s.stats.Reads++
	unmapped := rec.Flags&sam.Unmapped != 0
	if unmapped {
		s.stats.UnmappedReads++
	} else if s.opts.UnmappedOnly {
		return nil
	}

	seq := rec.Seq.Expand()
	name := sequenceName
	if name == "" {
		name = rec.Name
	}

	before := s.stats.TotalHits
	for _, m := range s.matrices {
		if err := m.Scan(seq, name, func(match motif.Match) error {
			if !match.Score.Scorable || match.Score.PValue >= significantPValue {
				return nil
			}
			s.stats.TotalHits++
			if s.printer != nil {
				match.Start += rec.Pos
				match.Stop += rec.Pos
				return s.printer.Write(match)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	if s.stats.TotalHits > before {
		s.stats.HitReads++
		if unmapped {
			s.stats.UnmappedHitReads++
		}
		if s.out != nil {
			return s.out.Write(rec)
		}
	}
	return nil
}
