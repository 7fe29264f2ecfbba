package stemcompare

import (
	"github.com/tphakala/go-stem-compare/internal/compare"
	"github.com/tphakala/go-stem-compare/internal/fanout"
)

// Analysis defaults.
const (
	// DefaultFFTSize is the STFT window length in samples.
	DefaultFFTSize = 4096

	// DefaultWeightOffset is the perceptual weighting phase offset for
	// DefaultFFTSize. Other FFT sizes use a proportionally scaled offset.
	DefaultWeightOffset = compare.DefaultWeightOffset
)

// Worker coordination defaults.
const (
	DefaultPollInterval    = fanout.DefaultPollInterval
	DefaultLivenessTimeout = fanout.DefaultLivenessTimeout
)

// Stem directory layout.
const (
	// OriginalMarker is the file name flagging a ground-truth directory.
	OriginalMarker = ".original"

	stemExtension = ".mp3"
)

const (
	halfDivisor = 2
	serialJobs  = 1
)
