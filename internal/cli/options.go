// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"motifscan/internal/cliutil"
	"motifscan/internal/motif"
	"motifscan/internal/version"
)

// Input kinds resolved from the input file extension.
const (
	InputFasta = "fasta"
	InputBam   = "bam"
)

// Options holds all CLI flags and arguments.
type Options struct {
	MotifFile string
	InputFile string
	InputType string // InputFasta or InputBam, set by Validate

	BackgroundFile string
	OutputFile     string
	RegionFile     string
	PseudoSites    float64
	ForwardOnly    bool
	UnmappedOnly   bool
	Verbose        bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: score sequences against motif position weight matrices

Version: %s

Usage: %s [options] <motif.meme> <input.fasta|input.bam>
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options

	fs.StringVar(&opt.BackgroundFile, "background", "", "MEME-style background frequency file (default: uniform)")
	fs.StringVar(&opt.BackgroundFile, "b", "", "alias of --background")
	fs.StringVar(&opt.OutputFile, "output", "", "file to write matches to: FIMO-style text for FASTA input, a .bam of hit reads for BAM input")
	fs.StringVar(&opt.OutputFile, "o", "", "alias of --output")
	fs.StringVar(&opt.RegionFile, "region", "", ".bed region file for filtering BAM input")
	fs.StringVar(&opt.RegionFile, "r", "", "alias of --region")
	fs.Float64Var(&opt.PseudoSites, "pseudo-sites", motif.DefaultPseudoSites, "pseudocount weight applied per background frequency [0.1]")
	fs.BoolVar(&opt.ForwardOnly, "forward-only", false, "do not derive reverse-complement matrices [false]")
	fs.BoolVar(&opt.UnmappedOnly, "unmapped-only", false, "only score unmapped reads from BAM [false]")
	fs.BoolVar(&opt.UnmappedOnly, "u", false, "alias of --unmapped-only")
	fs.BoolVar(&opt.Verbose, "verbose", false, "print FIMO-style output for BAM hits [false]")
	fs.BoolVar(&opt.Verbose, "v", false, "alias of --verbose")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if opt.Version {
		return opt, nil
	}
	if len(posArgs) != 2 {
		return opt, errors.New("expected exactly two positional arguments: motif file and fasta/bam input")
	}
	opt.MotifFile = posArgs[0]
	opt.InputFile = posArgs[1]
	return opt, Validate(&opt)
}

// Validate applies the CLI rules shared by both input modes and
// resolves InputType from the input file extension.
func Validate(o *Options) error {
	switch {
	case strings.HasSuffix(strings.ToLower(o.InputFile), ".bam"):
		o.InputType = InputBam
	case o.InputFile == "-" || hasFastaSuffix(o.InputFile):
		o.InputType = InputFasta
	default:
		return fmt.Errorf("unsupported input extension for %q: only .bam and .fasta/.fa/.fna (optionally .gz) are supported", o.InputFile)
	}
	if o.InputType != InputBam {
		if o.RegionFile != "" {
			return errors.New("--region is only supported for .bam input")
		}
		if o.UnmappedOnly {
			return errors.New("--unmapped-only is only supported for .bam input")
		}
	}
	if o.PseudoSites <= 0 {
		return errors.New("--pseudo-sites must be > 0")
	}
	return nil
}

func hasFastaSuffix(path string) bool {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	for _, ext := range []string{".fasta", ".fa", ".fna"} {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}
