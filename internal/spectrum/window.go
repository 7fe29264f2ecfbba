// Package spectrum implements the short-time Fourier transform used to turn
// interleaved stereo sample buffers into power spectrograms.
package spectrum

import (
	"fmt"
	"math"
)

// WindowKind selects the analysis window applied to every frame.
type WindowKind int

const (
	// WindowHann is the symmetric Hann bell: zero at both ends, ~1 at the center.
	WindowHann WindowKind = iota

	// WindowCenteredCosine evaluates 0.5 - 0.5·cos(2π(n - N/2)/N) over the
	// centered index range. The curve is 1 at the frame edges and 0 at the
	// center; it exists to reproduce scores computed with that weighting.
	WindowCenteredCosine
)

// String returns the window name used on the command line.
func (k WindowKind) String() string {
	switch k {
	case WindowHann:
		return "hann"
	case WindowCenteredCosine:
		return "centered"
	default:
		return fmt.Sprintf("WindowKind(%d)", int(k))
	}
}

// ParseWindowKind maps a window name to its kind.
func ParseWindowKind(name string) (WindowKind, error) {
	switch name {
	case "hann", "":
		return WindowHann, nil
	case "centered":
		return WindowCenteredCosine, nil
	default:
		return 0, fmt.Errorf("%w: unknown window %q", ErrInvalidWindow, name)
	}
}

// NewWindow generates a window of the given kind and length.
func NewWindow(kind WindowKind, length int) ([]float64, error) {
	switch kind {
	case WindowHann:
		return HannWindow(length), nil
	case WindowCenteredCosine:
		return CenteredCosineWindow(length), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, kind)
	}
}

// HannWindow generates a symmetric Hann window of the specified length.
//
//	w[n] = 0.5 - 0.5·cos(2πn / (N-1)),  n = 0..N-1
//
// The window is symmetric (w[n] == w[N-1-n]), zero at both ends and peaks at
// 1.0 in the center (between the two middle taps for even N).
func HannWindow(length int) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	denom := float64(length - 1)
	for n := range length {
		window[n] = hannA0 - hannA1*math.Cos(twoPi*float64(n)/denom)
	}
	return window
}

// CenteredCosineWindow evaluates the raised cosine over the index range
// [-N/2, N/2) mapped into coefficient order:
//
//	w[n] = 0.5 - 0.5·cos(2π(n - N/2) / N)
func CenteredCosineWindow(length int) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	size := float64(length)
	edge := length / halfDivisor
	for n := range length {
		centered := float64(n - edge)
		window[n] = hannA0 - hannA1*math.Cos(twoPi*centered/size)
	}
	return window
}
