// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"motifscan/internal/bamscan"
	"motifscan/internal/cli"
	"motifscan/internal/fasta"
	"motifscan/internal/meme"
	"motifscan/internal/motif"
	"motifscan/internal/output"
	"motifscan/internal/version"
)

// RunContext wires the CLI into a scan run and returns the process exit
// code: 0 on success (including zero matches), 2 on usage errors, 1 on any
// other failure.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	fs := cli.NewFlagSet("motifscan")
	fs.SetOutput(stderr)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}
	if opts.Version {
		fmt.Fprintf(stdout, "motifscan version %s\n", version.Version)
		return 0
	}

	if err := run(ctx, log, opts, stdout); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func run(ctx context.Context, log *logrus.Logger, opts cli.Options, stdout io.Writer) error {
	bg := motif.UniformBackground()
	if opts.BackgroundFile != "" {
		fh, err := os.Open(opts.BackgroundFile)
		if err != nil {
			return fmt.Errorf("open background file: %w", err)
		}
		bg, err = meme.ReadBackground(fh)
		_ = fh.Close()
		if err != nil {
			return err
		}
	}

	mf, err := os.Open(opts.MotifFile)
	if err != nil {
		return fmt.Errorf("open motif file: %w", err)
	}
	matrices, err := meme.ReadMotifs(mf, bg, !opts.ForwardOnly, opts.PseudoSites)
	_ = mf.Close()
	if err != nil {
		return err
	}
	log.Infof("loaded %d score matrices from %s", len(matrices), opts.MotifFile)

	if opts.InputType == cli.InputBam {
		stats, err := bamscan.Run(bamscan.Options{
			Input:        opts.InputFile,
			Output:       opts.OutputFile,
			RegionFile:   opts.RegionFile,
			UnmappedOnly: opts.UnmappedOnly,
			Verbose:      opts.Verbose,
		}, matrices, stdout)
		if err != nil {
			return err
		}
		stats.Summary(stdout, opts.UnmappedOnly)
		log.Infof("scored %d reads, %d hit reads", stats.Reads, stats.HitReads)
		return nil
	}
	return scanFasta(ctx, log, opts, matrices, stdout)
}

// scanFasta drains the FASTA source one record at a time, scanning each
// sequence against every matrix before requesting the next.
func scanFasta(ctx context.Context, log *logrus.Logger, opts cli.Options, matrices []*motif.ScoreMatrix, stdout io.Writer) error {
	var (
		w     io.Writer = stdout
		flush func() error
	)
	if opts.OutputFile != "" {
		fh, err := os.Create(opts.OutputFile)
		if err != nil {
			return err
		}
		bw := bufio.NewWriter(fh)
		w = bw
		flush = func() error {
			if err := bw.Flush(); err != nil {
				_ = fh.Close()
				return err
			}
			return fh.Close()
		}
	}

	printer := output.NewFimoWriter(w)
	if err := printer.Header(); err != nil {
		return err
	}

	sequences := 0
	err := fasta.StreamPathCtx(ctx, opts.InputFile, func(rec fasta.Record) error {
		sequences++
		for _, m := range matrices {
			if err := m.Scan(rec.Seq, rec.ID, printer.Write); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if flush != nil {
			_ = flush()
		}
		return err
	}
	log.Infof("scanned %d sequences against %d matrices", sequences, len(matrices))
	if flush != nil {
		return flush()
	}
	return nil
}
