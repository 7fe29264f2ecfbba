package spectrum

import (
	"context"
	"fmt"
	"math/bits"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Stereo is a two-channel power spectrogram. Left and Right are flat
// concatenations of frames of Bins values each.
type Stereo struct {
	Left  []float32
	Right []float32
	Bins  int
}

// Frames returns the number of complete frames.
func (s *Stereo) Frames() int {
	if s == nil || s.Bins <= 0 {
		return 0
	}
	return len(s.Left) / s.Bins
}

// Frame returns the left and right bins of frame i. The slices alias the
// spectrogram and must not be modified.
func (s *Stereo) Frame(i int) (left, right []float32) {
	lo := i * s.Bins
	hi := lo + s.Bins
	return s.Left[lo:hi:hi], s.Right[lo:hi:hi]
}

type options struct {
	window   WindowKind
	progress func(percent int)
}

// Option configures STFT.
type Option func(*options)

// WithWindow selects the analysis window. The default is WindowHann.
func WithWindow(kind WindowKind) Option {
	return func(o *options) { o.window = kind }
}

// WithProgress registers a callback receiving integer percent complete
// (0..100, non-decreasing). It is called from the STFT goroutine.
func WithProgress(fn func(percent int)) Option {
	return func(o *options) { o.progress = fn }
}

// ValidateFFTSize checks that n is a usable FFT length.
func ValidateFFTSize(n int) error {
	if n < minFFTSize || bits.OnesCount(uint(n)) != 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidFFTSize, n)
	}
	return nil
}

// FrameCount returns the number of frames STFT produces for an interleaved
// stereo buffer of sampleCount values.
func FrameCount(sampleCount, fftSize int) int {
	duration := sampleCount / stereoChannels
	return (duration + fftSize - 1) / fftSize
}

// STFT computes the power spectrogram of interleaved stereo samples.
//
// The per-channel stream is cut into consecutive, non-overlapping windows of
// fftSize samples (hop == window size); the last window is zero-padded on the
// right. Each windowed frame is transformed with a forward FFT and the first
// fftSize/2 bins are kept. The power of a bin is the squared real part of its
// coefficient, without normalization or dB conversion.
//
// The result has ceil((len(samples)/2) / fftSize) frames of fftSize/2 bins.
func STFT(ctx context.Context, samples []float32, fftSize int, opts ...Option) (*Stereo, error) {
	if err := ValidateFFTSize(fftSize); err != nil {
		return nil, err
	}
	if len(samples)%stereoChannels != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddSampleCount, len(samples))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	window, err := NewWindow(o.window, fftSize)
	if err != nil {
		return nil, err
	}

	duration := len(samples) / stereoChannels
	frames := FrameCount(len(samples), fftSize)
	bins := fftSize / halfDivisor

	out := &Stereo{
		Left:  make([]float32, frames*bins),
		Right: make([]float32, frames*bins),
		Bins:  bins,
	}

	fft := fourier.NewFFT(fftSize)
	frameL := make([]float64, fftSize)
	frameR := make([]float64, fftSize)
	var coeffs []complex128

	lastPercent := -1
	report := func(percent int) {
		if o.progress != nil && percent > lastPercent {
			o.progress(percent)
			lastPercent = percent
		}
	}
	report(0)

	for f := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := f * fftSize
		n := min(fftSize, duration-start)
		for i := range n {
			idx := stereoChannels * (start + i)
			frameL[i] = float64(samples[idx]) * window[i]
			frameR[i] = float64(samples[idx+1]) * window[i]
		}
		clear(frameL[n:])
		clear(frameR[n:])

		offset := f * bins
		coeffs = fft.Coefficients(coeffs, frameL)
		squaredReal(out.Left[offset:offset+bins], coeffs)
		coeffs = fft.Coefficients(coeffs, frameR)
		squaredReal(out.Right[offset:offset+bins], coeffs)

		report((f + 1) * percentScale / frames)
	}

	report(percentScale)
	return out, nil
}

// squaredReal stores real(c[k])² for the first len(dst) coefficients.
func squaredReal(dst []float32, c []complex128) {
	for k := range dst {
		re := real(c[k])
		dst[k] = float32(re * re)
	}
}
