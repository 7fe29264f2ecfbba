package stemcompare

import "github.com/tphakala/go-stem-compare/internal/compare"

// ErrorProfile is an ordered sequence of per-frame or per-bin errors
// together with their mean.
type ErrorProfile = compare.Profile

// StemResult holds both comparisons of one stem.
type StemResult struct {
	Stem Stem
	Time ErrorProfile
	Freq ErrorProfile
}

// TimeCompare returns one error per frame: the mean over all bins of the
// absolute difference of the channel-averaged spectrograms.
func TimeCompare(bins int, a, b *Spectrogram) (ErrorProfile, error) {
	return compare.TimeCompare(bins, a, b)
}

// FreqCompare returns one error per bin, averaged over frames and weighted by
// PerceptualWeights with the offset scaled to bins.
func FreqCompare(bins int, a, b *Spectrogram) (ErrorProfile, error) {
	return compare.FreqCompare(bins, a, b, PerceptualWeights(bins, compare.ScaledWeightOffset(bins)))
}

// PerceptualWeights returns the per-bin frequency weighting. The curve stays
// near 1 for low bins and rolls off toward 0 at the top of the spectrum.
func PerceptualWeights(bins int, offset float64) []float32 {
	return compare.Weights(bins, offset)
}

func compareStem(c *Config, s Stem, a, b *Spectrogram, weights []float32) (StemResult, error) {
	bins := c.Bins()

	timeProfile, err := compare.TimeCompare(bins, a, b)
	if err != nil {
		return StemResult{}, err
	}

	freqProfile, err := compare.FreqCompare(bins, a, b, weights)
	if err != nil {
		return StemResult{}, err
	}

	return StemResult{Stem: s, Time: timeProfile, Freq: freqProfile}, nil
}
