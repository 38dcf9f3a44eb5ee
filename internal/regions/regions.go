// internal/regions/regions.go
package regions

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Region is one BED interval, 0-based half-open.
type Region struct {
	Chrom string
	Start int
	Stop  int
}

// Name returns the samtools-style "chrom:start-stop" form of the region.
func (r Region) Name() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.Stop)
}

// Load reads a BED3+ region list. Comment, track and browser lines are
// skipped; columns beyond the third are ignored.
func Load(path string) ([]Region, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var list []Region
	sc := bufio.NewScanner(fh)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 3 {
			return nil, fmt.Errorf("%s:%d bad field count", path, ln)
		}
		r := Region{Chrom: f[0]}
		if r.Start, err = strconv.Atoi(f[1]); err != nil {
			return nil, fmt.Errorf("%s:%d bad start: %v", path, ln, err)
		}
		if r.Stop, err = strconv.Atoi(f[2]); err != nil {
			return nil, fmt.Errorf("%s:%d bad stop: %v", path, ln, err)
		}
		if r.Stop < r.Start {
			return nil, fmt.Errorf("%s:%d stop before start", path, ln)
		}
		list = append(list, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
