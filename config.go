package stemcompare

import (
	"fmt"
	"time"

	"github.com/tphakala/go-stem-compare/internal/codec"
	"github.com/tphakala/go-stem-compare/internal/compare"
	"github.com/tphakala/go-stem-compare/internal/fanout"
	"github.com/tphakala/go-stem-compare/internal/spectrum"
)

// WindowKind selects the STFT analysis window.
type WindowKind = spectrum.WindowKind

const (
	// WindowHann is the symmetric Hann bell (default).
	WindowHann = spectrum.WindowHann

	// WindowCenteredCosine is the raised cosine evaluated over the centered
	// index range, which weights frame edges instead of the center. Use it
	// only to reproduce scores computed with that weighting.
	WindowCenteredCosine = spectrum.WindowCenteredCosine
)

// ParseWindowKind maps "hann" or "centered" to a WindowKind.
func ParseWindowKind(name string) (WindowKind, error) {
	return spectrum.ParseWindowKind(name)
}

// Config holds analysis and worker configuration.
type Config struct {
	// FFTSize is the STFT window length. Must be a power of two >= 2.
	FFTSize int

	// Window is the analysis window applied to every frame.
	Window WindowKind

	// WeightOffset is the phase offset of the perceptual frequency weighting.
	// Zero selects DefaultWeightOffset scaled to FFTSize/2 bins.
	WeightOffset float64

	// Serial runs one worker at a time instead of one per input.
	Serial bool

	// LivenessTimeout flags a worker that has not reported progress for this
	// long. Zero selects DefaultLivenessTimeout; negative disables the check.
	LivenessTimeout time.Duration

	// PollInterval is how often worker progress is polled.
	// Zero selects DefaultPollInterval.
	PollInterval time.Duration

	// Progress, if set, receives worker progress snapshots. It is called
	// from the coordinating goroutine and must not block for long.
	Progress func(ProgressEvent)

	// Codecs is the format registry used to decode stems.
	// Nil selects DefaultRegistry.
	Codecs *Registry
}

// DefaultConfig returns a configuration with every default filled in.
// WeightOffset is left at zero so it follows FFTSize.
func DefaultConfig() *Config {
	return &Config{
		FFTSize:         DefaultFFTSize,
		Window:          WindowHann,
		LivenessTimeout: DefaultLivenessTimeout,
		PollInterval:    DefaultPollInterval,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := spectrum.ValidateFFTSize(c.FFTSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := spectrum.NewWindow(c.Window, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.PollInterval < 0 {
		return fmt.Errorf("%w: poll interval must not be negative", ErrInvalidConfig)
	}

	return nil
}

// Bins returns the number of frequency bins per spectrogram frame.
func (c *Config) Bins() int {
	return c.FFTSize / halfDivisor
}

// weightOffset returns the effective perceptual weighting offset.
func (c *Config) weightOffset() float64 {
	if c.WeightOffset != 0 {
		return c.WeightOffset
	}
	return compare.ScaledWeightOffset(c.Bins())
}

func (c *Config) registry() *codec.Registry {
	if c.Codecs != nil {
		return c.Codecs
	}
	return codec.DefaultRegistry()
}

// resolve returns a validated copy of cfg with defaults applied.
// A nil cfg yields DefaultConfig.
func resolve(cfg *Config) (*Config, error) {
	if cfg == nil {
		return DefaultConfig(), nil
	}

	c := *cfg
	if c.FFTSize == 0 {
		c.FFTSize = DefaultFFTSize
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// fanoutOptions builds worker pool options publishing events for phase.
func (c *Config) fanoutOptions(phase Phase, source string, labels []string) fanout.Options {
	opts := fanout.Options{
		PollInterval:    c.PollInterval,
		LivenessTimeout: c.LivenessTimeout,
	}
	if c.Serial {
		opts.Parallelism = serialJobs
	}
	if c.Progress != nil {
		progress := c.Progress
		opts.OnUpdate = func(statuses []fanout.Status) {
			progress(newProgressEvent(phase, source, labels, statuses))
		}
	}
	return opts
}
