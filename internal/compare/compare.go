// Package compare reduces pairs of stereo power spectrograms to error
// profiles: how far apart two spectrograms are across time (per frame) and
// across frequency (per bin).
//
// Both comparisons average the two channels of each spectrogram first,
// ((L+R)/2), and work on absolute differences of those averages. When the
// spectrograms hold different numbers of frames only the common prefix is
// compared and the mismatch is reported on the result, not as an error.
package compare

import (
	"fmt"

	"github.com/tphakala/go-stem-compare/internal/spectrum"
	"github.com/tphakala/simd/f32"
)

// Profile is an ordered sequence of per-unit errors (per frame or per bin)
// together with their aggregate mean.
type Profile struct {
	Errors []float32
	Mean   float32

	// Mismatch is set when the inputs had different frame counts and only
	// the overlapping prefix was compared.
	Mismatch *FrameCountMismatch
}

// TimeCompare computes one error value per frame: the mean over all bins of
// the absolute difference between the channel-averaged spectrograms. Mean is
// the arithmetic mean of the per-frame values.
func TimeCompare(bins int, a, b *spectrum.Stereo) (Profile, error) {
	frames, mismatch, err := usableFrames(bins, a, b)
	if err != nil {
		return Profile{}, err
	}

	perFrame := make([]float32, frames)
	diff := make([]float32, bins)
	invBins := 1 / float32(bins)

	for f := range frames {
		lo := f * bins
		absDiff(diff, a.Left[lo:lo+bins], a.Right[lo:lo+bins], b.Left[lo:lo+bins], b.Right[lo:lo+bins])
		perFrame[f] = f32.Sum(diff) * invBins
	}

	return Profile{
		Errors:   perFrame,
		Mean:     f32.Sum(perFrame) / float32(frames),
		Mismatch: mismatch,
	}, nil
}

// FreqCompare computes one error value per bin: the absolute difference
// between the channel-averaged spectrograms, weighted by weights[bin] and
// averaged over all usable frames. Mean is the unweighted mean of the
// (already weighted) per-bin values.
//
// weights must hold bins values; see Weights.
func FreqCompare(bins int, a, b *spectrum.Stereo, weights []float32) (Profile, error) {
	if len(weights) != bins {
		return Profile{}, fmt.Errorf("%w: %d weights for %d bins", ErrWeightCount, len(weights), bins)
	}

	frames, mismatch, err := usableFrames(bins, a, b)
	if err != nil {
		return Profile{}, err
	}

	perBin := make([]float32, bins)
	diff := make([]float32, bins)

	for f := range frames {
		lo := f * bins
		absDiff(diff, a.Left[lo:lo+bins], a.Right[lo:lo+bins], b.Left[lo:lo+bins], b.Right[lo:lo+bins])
		for k, d := range diff {
			perBin[k] += d * weights[k]
		}
	}

	f32.Scale(perBin, perBin, 1/float32(frames))

	return Profile{
		Errors:   perBin,
		Mean:     f32.Sum(perBin) / float32(bins),
		Mismatch: mismatch,
	}, nil
}

// absDiff stores |(al+ar)/2 - (bl+br)/2| for every bin.
func absDiff(dst, al, ar, bl, br []float32) {
	for k := range dst {
		d := (al[k]+ar[k])*half - (bl[k]+br[k])*half
		if d < 0 {
			d = -d
		}
		dst[k] = d
	}
}

// usableFrames validates both inputs against bins and returns the number of
// frames the comparison can use.
func usableFrames(bins int, a, b *spectrum.Stereo) (int, *FrameCountMismatch, error) {
	if err := checkLayout(bins, "a", a); err != nil {
		return 0, nil, err
	}
	if err := checkLayout(bins, "b", b); err != nil {
		return 0, nil, err
	}

	framesA := len(a.Left) / bins
	framesB := len(b.Left) / bins
	frames := min(framesA, framesB)

	var mismatch *FrameCountMismatch
	if framesA != framesB {
		mismatch = &FrameCountMismatch{FramesA: framesA, FramesB: framesB, Used: frames}
	}

	if frames == 0 {
		return 0, mismatch, ErrNoFrames
	}
	return frames, mismatch, nil
}

func checkLayout(bins int, input string, s *spectrum.Stereo) error {
	if s == nil {
		return &BinCountMismatchError{Input: input, Bins: bins}
	}
	if bins <= 0 || len(s.Left) != len(s.Right) || len(s.Left)%bins != 0 {
		return &BinCountMismatchError{
			Input:    input,
			Bins:     bins,
			LeftLen:  len(s.Left),
			RightLen: len(s.Right),
		}
	}
	return nil
}
