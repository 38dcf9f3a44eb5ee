// internal/output/fimo.go
package output

import (
	"fmt"
	"io"

	"motifscan/internal/motif"
)

// SignificantPValue is the reporting cutoff for FIMO-style text output.
const SignificantPValue = 1e-4

// FimoWriter prints matches in FIMO's tab-separated text layout.
type FimoWriter struct {
	w io.Writer
}

func NewFimoWriter(w io.Writer) *FimoWriter { return &FimoWriter{w: w} }

// Header writes the FIMO column header line.
func (f *FimoWriter) Header() error {
	_, err := fmt.Fprintln(f.w, "#pattern name\tsequence name\tstart\tstop\tstrand\tscore\tp-value\tq-value\tmatched sequence")
	return err
}

// Write prints m when it is scorable and significant; everything else is
// silently dropped. The q-value column is left blank.
func (f *FimoWriter) Write(m motif.Match) error {
	if !m.Score.Scorable || m.Score.PValue >= SignificantPValue {
		return nil
	}
	_, err := fmt.Fprintf(f.w, "%s\t%s\t%d\t%d\t%c\t%.6g\t%.3g\t\t%s\n",
		m.Motif, m.Sequence, m.Start, m.Stop, m.Strand(),
		m.Score.Value, m.Score.PValue, m.Score.Matched())
	return err
}
