// internal/bamscan/stats.go
package bamscan

import (
	"fmt"
	"io"
)

// Stats aggregates per-run read and hit counters. A read counts as a hit
// when at least one of its windows scores a significant p-value against any
// matrix.
type Stats struct {
	Reads            int
	UnmappedReads    int
	HitReads         int
	UnmappedHitReads int
	TotalHits        int
}

// Summary prints the run's match-rate breakdown. The mapped-read lines are
// omitted when only unmapped reads were scored.
func (s Stats) Summary(w io.Writer, unmappedOnly bool) {
	percent := func(upperLabel string, upper int, lowerLabel string, lower int) {
		fmt.Fprintf(w, "# (%s) / (%s) = %d/%d = %g%%\n",
			upperLabel, lowerLabel, upper, lower, 100*ratio(upper, lower))
	}
	if !unmappedOnly {
		percent("total hits", s.HitReads, "total reads", s.Reads)
		percent("mapped hits", s.HitReads-s.UnmappedHitReads, "mapped reads", s.Reads-s.UnmappedReads)
	}
	percent("unmapped hits", s.UnmappedHitReads, "unmapped reads", s.UnmappedReads)
	if !unmappedOnly {
		percent("unmapped hits", s.UnmappedHitReads, "total hits", s.HitReads)
	}
	percent("unmapped reads", s.UnmappedReads, "total reads", s.Reads)
	fmt.Fprintf(w, "# total hits: %d (average hits per hit read = %g)\n",
		s.TotalHits, ratio(s.TotalHits, s.HitReads))
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
