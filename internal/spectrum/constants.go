package spectrum

import (
	"errors"
	"math"
)

// Raised-cosine coefficients: w = a0 - a1·cos(θ).
const (
	hannA0 = 0.5
	hannA1 = 1 - hannA0
)

const (
	twoPi       = 2 * math.Pi
	halfDivisor = 2

	// stereoChannels is the interleave stride of input sample buffers.
	stereoChannels = 2

	minFFTSize = 2

	percentScale = 100
)

// Errors returned by the STFT engine.
var (
	// ErrInvalidFFTSize indicates the FFT length is not an even power of two.
	ErrInvalidFFTSize = errors.New("fft size must be a power of two >= 2")

	// ErrOddSampleCount indicates the input is not interleaved stereo.
	ErrOddSampleCount = errors.New("sample buffer length must be even (interleaved stereo)")

	// ErrInvalidWindow indicates an unknown window kind.
	ErrInvalidWindow = errors.New("invalid window")
)
