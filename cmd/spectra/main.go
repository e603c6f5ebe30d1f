// Command spectra loads a spectrum file and prints an analysis report as
// JSON.
//
// Usage:
//
//	spectra --file <path> [flags]
//
// Without --peaks, --fft or --baseline it runs every analysis, the same as
// --all. Smoothing and normalization are opt-in.
//
// Examples:
//
//	spectra --file sample.csv
//	spectra --file sample.jdx --peaks --height 0.5 --distance 5
//	spectra --file sample.h5 --all --smooth --sigma 2 --output report.json
//	spectra --formats
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	spectra "github.com/cwbudde/algo-spectra"
	"github.com/cwbudde/algo-spectra/analysis"
	"github.com/cwbudde/algo-spectra/format"
	"github.com/cwbudde/algo-spectra/internal/config"
	"github.com/cwbudde/algo-spectra/internal/logging"
	"github.com/cwbudde/algo-spectra/report"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	file       string
	output     string
	configPath string
	formats    bool

	peaks     bool
	fft       bool
	baseline  bool
	all       bool
	smooth    bool
	normalize bool

	sigma     float64
	height    float64
	distance  int
	polyOrder int
}

func newFlagSet(f *flags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("spectra", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.file, "file", "", "spectrum file to analyze (required)")
	fs.StringVar(&f.output, "output", "", "also write the JSON report to this path")
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file (default $"+config.EnvFile+")")
	fs.BoolVar(&f.formats, "formats", false, "list supported file formats and exit")

	fs.BoolVar(&f.peaks, "peaks", false, "detect peaks")
	fs.BoolVar(&f.fft, "fft", false, "compute the Fourier transform")
	fs.BoolVar(&f.baseline, "baseline", false, "subtract a polynomial baseline")
	fs.BoolVar(&f.all, "all", false, "run peaks, fft and baseline")
	fs.BoolVar(&f.smooth, "smooth", false, "add a Gaussian-smoothed copy of the data")
	fs.BoolVar(&f.normalize, "normalize", false, "add a copy of the data scaled to [0, 1]")

	fs.Float64Var(&f.sigma, "sigma", 0, "Gaussian smoothing width in samples (default from config, 1)")
	fs.Float64Var(&f.height, "height", 0, "minimum peak height (default mean of the data)")
	fs.IntVar(&f.distance, "distance", 0, "minimum peak separation in samples (default from config, 2)")
	fs.IntVar(&f.polyOrder, "poly-order", 0, "baseline polynomial order (default from config, 1)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: spectra --file <path> [flags]\n\n")
		fmt.Fprintf(stderr, "Loads a spectrum and prints an analysis report as JSON.\n")
		fmt.Fprintf(stderr, "Without --peaks, --fft or --baseline every analysis runs.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  spectra --file sample.csv\n")
		fmt.Fprintf(stderr, "  spectra --file sample.jdx --peaks --height 0.5\n")
		fmt.Fprintf(stderr, "  spectra --formats\n")
	}
	return fs
}

func run(args []string, stdout, stderr io.Writer) int {
	var f flags
	fs := newFlagSet(&f, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "error: unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}

	log, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	defer func() { _ = log.Sync() }()

	registry := format.NewRegistry(
		format.WithDisabled("disabled by configuration", cfg.Formats.Disabled...),
	)

	if f.formats {
		printFormats(stdout, registry.Capabilities())
		return exitOK
	}

	if f.file == "" {
		fmt.Fprintf(stderr, "error: --file is required\n")
		fs.Usage()
		return exitUsage
	}

	s, err := registry.Load(f.file)
	if err != nil {
		log.Debug("load failed", zap.String("path", f.file), zap.Stringer("kind", spectra.KindOf(err)))
		fmt.Fprintf(stderr, "error: %s: %v\n", f.file, err)
		return exitFailure
	}

	var formatName string
	if c, ok := registry.Lookup(filepath.Ext(f.file)); ok {
		formatName = c.Format
	}
	log.Info("spectrum loaded",
		zap.String("path", f.file),
		zap.String("format", formatName),
		zap.Int("points", s.Len()),
	)

	opts := analysisOptions(fs, f, cfg.Analysis)
	opts.Logger = log
	res := analysis.Analyze(s, opts)

	out, err := report.Render(res)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	if _, err := fmt.Fprintf(stdout, "%s\n", out); err != nil {
		return exitFailure
	}

	if f.output != "" {
		if err := report.Persist(out, f.output); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
		log.Info("report written", zap.String("path", f.output))
	}
	return exitOK
}

// analysisOptions merges the configured defaults with the flags given on
// the command line.
func analysisOptions(fs *flag.FlagSet, f flags, defaults config.Analysis) analysis.Options {
	opts := analysis.DefaultOptions()
	opts.Source = f.file
	opts.Peaks = f.peaks
	opts.FFT = f.fft
	opts.Baseline = f.baseline
	opts.All = f.all
	opts.Smooth = f.smooth
	opts.Normalize = f.normalize
	opts.PeakDistance = defaults.PeakDistance
	opts.PolyOrder = defaults.PolyOrder
	opts.SmoothSigma = defaults.SmoothSigma

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "height":
			h := f.height
			opts.Height = &h
		case "distance":
			opts.PeakDistance = f.distance
		case "poly-order":
			opts.PolyOrder = f.polyOrder
		case "sigma":
			opts.SmoothSigma = f.sigma
		}
	})
	return opts
}

func printFormats(w io.Writer, caps []format.Capability) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tEXTENSIONS\tAVAILABLE\tREASON")
	for _, c := range caps {
		reason := c.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", c.Format, strings.Join(c.Extensions, " "), c.Available, reason)
	}
	_ = tw.Flush()
}
