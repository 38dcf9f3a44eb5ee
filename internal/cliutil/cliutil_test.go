// internal/cliutil/cliutil_test.go
package cliutil

import (
	"flag"
	"io"
	"reflect"
	"testing"
)

func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("output", "", "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestBoolFlags(t *testing.T) {
	got := BoolFlags(newTestFlagSet())
	if !got["verbose"] {
		t.Error("verbose not detected as a bool flag")
	}
	if got["output"] {
		t.Error("output misdetected as a bool flag")
	}
}

func TestSplitFlagsAndPositionals(t *testing.T) {
	cases := []struct {
		name      string
		argv      []string
		wantFlags []string
		wantPos   []string
	}{
		{
			"flags before positionals",
			[]string{"-output", "x", "a.meme", "b.fasta"},
			[]string{"-output", "x"},
			[]string{"a.meme", "b.fasta"},
		},
		{
			"flags after positionals",
			[]string{"a.meme", "b.fasta", "-verbose", "-output", "x"},
			[]string{"-verbose", "-output", "x"},
			[]string{"a.meme", "b.fasta"},
		},
		{
			"equals form",
			[]string{"--output=x", "a.meme"},
			[]string{"--output=x"},
			[]string{"a.meme"},
		},
		{
			"bool flag takes no value",
			[]string{"-verbose", "a.meme", "b.fasta"},
			[]string{"-verbose"},
			[]string{"a.meme", "b.fasta"},
		},
		{
			"dash is a positional",
			[]string{"a.meme", "-"},
			nil,
			[]string{"a.meme", "-"},
		},
		{
			"double dash ends flags",
			[]string{"-verbose", "--", "-output"},
			[]string{"-verbose"},
			[]string{"-output"},
		},
	}
	for _, tc := range cases {
		flags, pos := SplitFlagsAndPositionals(newTestFlagSet(), tc.argv)
		if !reflect.DeepEqual(flags, tc.wantFlags) {
			t.Errorf("%s: flags = %v, want %v", tc.name, flags, tc.wantFlags)
		}
		if !reflect.DeepEqual(pos, tc.wantPos) {
			t.Errorf("%s: positionals = %v, want %v", tc.name, pos, tc.wantPos)
		}
	}
}
