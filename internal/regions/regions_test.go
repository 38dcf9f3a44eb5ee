// internal/regions/regions_test.go
package regions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeBed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.bed")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeBed(t, `browser position chr1:1-1000
track name=peaks description="test"
# a comment

chr1	100	200	peak1	960	+
chr2	0	50
`)
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []Region{
		{Chrom: "chr1", Start: 100, Stop: 200},
		{Chrom: "chr2", Start: 0, Stop: 50},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d regions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("region %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRegionName(t *testing.T) {
	r := Region{Chrom: "chr1", Start: 100, Stop: 200}
	if r.Name() != "chr1:100-200" {
		t.Errorf("Name() = %q, want chr1:100-200", r.Name())
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string // substring of the error
	}{
		{"short line", "chr1\t100\n", ":1 bad field count"},
		{"bad start", "chr1\tten\t200\n", ":1 bad start"},
		{"bad stop", "chr1\t100\ttwo\n", ":1 bad stop"},
		{"inverted", "chr1\t200\t100\n", ":1 stop before start"},
		{"line numbering", "chr1\t0\t10\nchr1\tx\t10\n", ":2 bad start"},
	}
	for _, tc := range cases {
		path := writeBed(t, tc.body)
		_, err := Load(path)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.bed")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
