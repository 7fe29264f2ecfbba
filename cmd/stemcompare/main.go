// Command stemcompare scores one set of separated stems against another.
//
// Usage:
//
//	stemcompare reference/ separated/
//	stemcompare -fft 2048 -serial reference/ separated/
//	stemcompare -csv out/ reference/ separated/   # also export error curves
//
// Each directory must hold bass.mp3, drums.mp3, vocals.mp3 and other.mp3.
// A directory containing an empty .original file is treated as the
// reference regardless of argument order.
//
// Flag defaults can be set from the environment: STEMCOMPARE_FFT_SIZE,
// STEMCOMPARE_WINDOW, STEMCOMPARE_TIMEOUT and STEMCOMPARE_SERIAL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	stemcompare "github.com/tphakala/go-stem-compare"
)

const (
	requiredArgs = 2

	// Exit codes
	exitFailure = 1
	exitInput   = 2
	exitDecode  = 3
	exitCompare = 4
)

// errUsage signals a wrong number of positional arguments.
var errUsage = errors.New("usage")

type options struct {
	serial       bool
	fftSize      int
	window       string
	weightOffset float64
	timeout      time.Duration
	csvDir       string
	verbose      bool
	cpuprofile   string
	sources      [requiredArgs]string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Print(err)
		os.Exit(exitCode(err))
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, os.Getenv, stderr)
	if errors.Is(err, errUsage) {
		// Nothing to compare; not an error.
		return nil
	}
	if err != nil {
		return err
	}

	// Start CPU profiling if requested (for PGO)
	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg, err := opts.config()
	if err != nil {
		return err
	}

	if opts.verbose {
		log.Printf("Reference: %s", opts.sources[0])
		log.Printf("Candidate: %s", opts.sources[1])
		log.Printf("FFT size: %d (%d bins)", cfg.FFTSize, cfg.Bins())
		log.Printf("Window: %s", cfg.Window)
		if cfg.Serial {
			log.Printf("Workers: serial")
		} else {
			log.Printf("Workers: parallel")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bars := newProgressRenderer(stderr)
	cfg.Progress = bars.Update

	start := time.Now()
	report, err := stemcompare.Run(ctx, cfg, opts.sources[0], opts.sources[1])
	bars.Close()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, w := range report.Warnings {
		log.Printf("warning: %v", w)
	}

	printReport(stdout, report)
	if opts.verbose {
		log.Printf("Finished in %.2fs", elapsed.Seconds())
	}

	if opts.csvDir != "" {
		if err := writeCSV(opts.csvDir, report); err != nil {
			return err
		}
		if opts.verbose {
			log.Printf("Wrote CSV files to %s", opts.csvDir)
		}
	}

	return nil
}

func parseOptions(args []string, getenv func(string) string, stderr io.Writer) (*options, error) {
	env := envLookup(getenv)

	fs := flag.NewFlagSet("stemcompare", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.BoolVar(&opts.serial, "serial", env.Bool("STEMCOMPARE_SERIAL", false), "Run one worker at a time")
	fs.IntVar(&opts.fftSize, "fft", env.Int("STEMCOMPARE_FFT_SIZE", stemcompare.DefaultFFTSize), "FFT window size (power of two)")
	fs.StringVar(&opts.window, "window", env.Str("STEMCOMPARE_WINDOW", "hann"), "Analysis window: hann, centered")
	fs.Float64Var(&opts.weightOffset, "weight-offset", 0, "Perceptual weighting offset (0 = scaled default)")
	fs.DurationVar(&opts.timeout, "timeout", env.Duration("STEMCOMPARE_TIMEOUT", stemcompare.DefaultLivenessTimeout), "Flag workers silent for this long (negative disables)")
	fs.StringVar(&opts.csvDir, "csv", "", "Write error curves as CSV files to this directory")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.StringVar(&opts.cpuprofile, "cpuprofile", "", "Write CPU profile to file (for PGO)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: stemcompare [options] <source1> <source2>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  stemcompare reference/ separated/           # Compare two stem sets\n")
		fmt.Fprintf(stderr, "  stemcompare -fft 2048 reference/ separated/ # Finer time resolution\n")
		fmt.Fprintf(stderr, "  stemcompare -csv out/ reference/ separated/ # Export error curves\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errUsage
		}
		return nil, fmt.Errorf("%w: %w", stemcompare.ErrInvalidConfig, err)
	}

	if fs.NArg() != requiredArgs {
		fs.Usage()
		return nil, errUsage
	}
	copy(opts.sources[:], fs.Args())

	return opts, nil
}

// config builds and validates the comparison configuration.
func (o *options) config() (*stemcompare.Config, error) {
	window, err := stemcompare.ParseWindowKind(o.window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stemcompare.ErrInvalidConfig, err)
	}

	cfg := stemcompare.DefaultConfig()
	cfg.FFTSize = o.fftSize
	cfg.Window = window
	cfg.WeightOffset = o.weightOffset
	cfg.Serial = o.serial
	cfg.LivenessTimeout = o.timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// exitCode maps a failure to the process exit status.
func exitCode(err error) int {
	var stemErr *stemcompare.StemError
	var trackErr *stemcompare.TrackError

	switch {
	case err == nil:
		return 0
	case errors.Is(err, stemcompare.ErrInvalidConfig),
		errors.Is(err, stemcompare.ErrDirectoryAccess),
		errors.Is(err, stemcompare.ErrMissingStems):
		return exitInput
	case errors.As(err, &stemErr):
		return exitDecode
	case errors.As(err, &trackErr),
		errors.Is(err, stemcompare.ErrBinCountMismatch),
		errors.Is(err, stemcompare.ErrNoFrames):
		return exitCompare
	default:
		return exitFailure
	}
}
