package stemcompare

import (
	"context"
	"errors"
	"strconv"

	"github.com/tphakala/go-stem-compare/internal/fanout"
	"github.com/tphakala/go-stem-compare/internal/spectrum"
)

// Spectrogram is a stereo power spectrogram: per channel, frame-major
// sequences of FFTSize/2 bins.
type Spectrogram = spectrum.Stereo

// ComputeSpectrograms runs one STFT worker per track and returns the
// spectrograms in input order. Tracks are interleaved stereo samples.
func ComputeSpectrograms(ctx context.Context, cfg *Config, tracks [][]float32) ([]*Spectrogram, error) {
	labels := make([]string, len(tracks))
	for i := range tracks {
		labels[i] = "track " + strconv.Itoa(i)
	}
	return computeSpectrograms(ctx, cfg, "", tracks, labels)
}

func computeSpectrograms(ctx context.Context, cfg *Config, source string, tracks [][]float32, labels []string) ([]*Spectrogram, error) {
	c, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	jobs := make([]fanout.Job[*Spectrogram], len(tracks))
	for i, samples := range tracks {
		jobs[i] = func(ctx context.Context, report func(int64)) (*Spectrogram, error) {
			return spectrum.STFT(ctx, samples, c.FFTSize,
				spectrum.WithWindow(c.Window),
				spectrum.WithProgress(func(percent int) { report(int64(percent)) }),
			)
		}
	}

	outcomes := fanout.Run(ctx, jobs, c.fanoutOptions(PhaseSpectrogram, source, labels))

	out := make([]*Spectrogram, len(tracks))
	var errs []error
	for i, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, &TrackError{Index: i, Label: labels[i], Err: o.Err})
			continue
		}
		out[i] = o.Value
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return out, nil
}
