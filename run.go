package stemcompare

import (
	"context"
	"fmt"
)

// Report is the outcome of comparing two stem directories.
type Report struct {
	// Reference is the directory treated as ground truth.
	Reference string

	// Candidate is the directory scored against Reference.
	Candidate string

	FFTSize int

	Stems [StemCount]StemResult

	// TimeMean and FreqMean average the per-stem means.
	TimeMean float32
	FreqMean float32

	// Warnings holds recovered conditions: *SampleRateMismatch and
	// *FrameCountMismatch values.
	Warnings []error
}

// Result returns the comparison of stem s.
func (r *Report) Result(s Stem) StemResult {
	return r.Stems[s]
}

// Run imports both stem directories, computes the eight spectrograms and
// compares every stem. When only dirB carries the OriginalMarker the two
// directories are swapped so the reference is always reported first.
func Run(ctx context.Context, cfg *Config, dirA, dirB string) (*Report, error) {
	c, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	setA, err := ImportDirectory(ctx, dirA, c)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", dirA, err)
	}
	setB, err := ImportDirectory(ctx, dirB, c)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", dirB, err)
	}

	if setB.Original && !setA.Original {
		setA, setB = setB, setA
	}

	tracks := append(setA.Samples(), setB.Samples()...)
	labels := make([]string, 0, len(tracks))
	for _, set := range []*StemSet{setA, setB} {
		for _, s := range Stems() {
			labels = append(labels, set.Dir+"/"+s.String())
		}
	}

	specs, err := computeSpectrograms(ctx, c, "", tracks, labels)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Reference: setA.Dir,
		Candidate: setB.Dir,
		FFTSize:   c.FFTSize,
	}

	weights := PerceptualWeights(c.Bins(), c.weightOffset())
	for _, s := range Stems() {
		bufA, bufB := setA.Buffer(s), setB.Buffer(s)
		if bufA.SampleRate != bufB.SampleRate {
			report.Warnings = append(report.Warnings,
				&SampleRateMismatch{Stem: s, RateA: bufA.SampleRate, RateB: bufB.SampleRate})
		}

		res, err := compareStem(c, s, specs[s], specs[StemCount+int(s)], weights)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", s, err)
		}
		if res.Time.Mismatch != nil {
			report.Warnings = append(report.Warnings, res.Time.Mismatch)
		}

		report.Stems[s] = res
		report.TimeMean += res.Time.Mean
		report.FreqMean += res.Freq.Mean
	}

	report.TimeMean /= StemCount
	report.FreqMean /= StemCount

	return report, nil
}
