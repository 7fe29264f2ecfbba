package compare

import "math"

// DefaultWeightOffset is the phase offset of the perceptual weighting curve,
// tuned for 2048 bins (a 4096-point FFT). It places the roll-off knee near
// 4 kHz at common sample rates.
const DefaultWeightOffset = 370.0

// referenceBins is the bin count DefaultWeightOffset was tuned for.
const referenceBins = 2048

// ScaledWeightOffset rescales DefaultWeightOffset for another bin count so the
// curve keeps the same shape over the frequency axis.
func ScaledWeightOffset(bins int) float64 {
	return DefaultWeightOffset * float64(bins) / referenceBins
}

// Weights returns the perceptual weight of every bin:
//
//	θ = (k·π + offset) / bins,  clamped to [0, π]
//	w = 1 - (1 - cos θ)² / 4
//
// Weights start near 1 and fall towards 0 for higher bins, modeling reduced
// sensitivity above ~4 kHz. θ is clamped at π, so the curve is monotonically
// non-increasing instead of rising again over the last bins.
func Weights(bins int, offset float64) []float32 {
	if bins <= 0 {
		return []float32{}
	}

	w := make([]float32, bins)
	for k := range bins {
		theta := (float64(k)*math.Pi + offset) / float64(bins)
		theta = math.Min(math.Max(theta, 0), math.Pi)
		t := 1 - math.Cos(theta)
		w[k] = float32(1 - t*t/weightDivisor)
	}
	return w
}
