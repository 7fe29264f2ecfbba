// Package stemcompare scores audio source-separation output against a
// reference by comparing the time-frequency energy of the separated stems.
//
// A stem set is a directory holding four files with fixed names:
//
//	bass.mp3  drums.mp3  vocals.mp3  other.mp3
//
// An optional empty file named .original marks the directory holding the
// ground-truth stems.
//
// # Quick Start
//
// Compare two stem directories end to end:
//
//	report, err := stemcompare.Run(ctx, stemcompare.DefaultConfig(), "reference/", "separated/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range report.Stems {
//	    fmt.Printf("%-6s time=%.4f freq=%.4f\n", r.Stem.Label(), r.Time.Mean, r.Freq.Mean)
//	}
//
// # Pipeline
//
//	directory -> [ImportDirectory] -> 4 sample buffers
//	          -> [ComputeSpectrograms] -> stereo power spectrograms
//	          -> [TimeCompare, FreqCompare] -> error profiles + means
//
// [ImportDirectory] decodes the four stems concurrently, one worker per
// file. [ComputeSpectrograms] runs one short-time Fourier transform worker
// per track and returns the spectrograms in input order. Workers report
// progress through [Config.Progress]; the package itself never writes to
// the console.
//
// # Spectrograms
//
// The STFT uses non-overlapping windows (hop == FFT size), zero-pads the last
// window and keeps the first FFTSize/2 bins of every frame. The stored power
// of a bin is the squared real part of its FFT coefficient. No normalization
// or dB conversion is applied.
//
// # Comparisons
//
// Both comparisons average the two channels of each spectrogram and take the
// absolute difference between the two spectrograms:
//
//   - [TimeCompare] yields one error per frame (mean over bins), showing how
//     error is distributed across time.
//   - [FreqCompare] yields one error per bin (mean over frames, weighted by a
//     perceptual roll-off above ~4 kHz), showing how error is distributed
//     across frequency.
//
// Spectrograms with different frame counts are compared over their common
// prefix and the mismatch is reported as a warning.
//
// # Limitations
//
// Both sources are assumed to share a sample rate; no resampling is done.
// A mismatch is reported as a [SampleRateMismatch] warning by [Run].
package stemcompare
