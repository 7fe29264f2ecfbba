package stemcompare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tphakala/go-stem-compare/internal/codec"
	"github.com/tphakala/go-stem-compare/internal/compare"
	"github.com/tphakala/go-stem-compare/internal/fanout"
	"github.com/tphakala/go-stem-compare/internal/spectrum"
)

// Common errors returned by the package. Use errors.Is to test for them.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDirectoryAccess indicates a stem directory could not be read.
	ErrDirectoryAccess = errors.New("cannot read stem directory")

	// ErrMissingStems indicates a stem directory lacks required files.
	ErrMissingStems = errors.New("could not find all separated stems")

	// ErrFileOpen indicates a stem file could not be opened.
	ErrFileOpen = codec.ErrFileOpen

	// ErrUnsupportedFormat indicates a stem file could not be probed.
	ErrUnsupportedFormat = codec.ErrUnsupportedFormat

	// ErrMultiTrack indicates a stem file does not hold exactly one track.
	ErrMultiTrack = codec.ErrMultiTrack

	// ErrDecode indicates a stem file failed to decode.
	ErrDecode = codec.ErrDecode

	// ErrEmptyResult indicates a stem file decoded to zero samples.
	ErrEmptyResult = codec.ErrEmptyResult

	// ErrInvalidFFTSize indicates an FFT size that is not a power of two.
	ErrInvalidFFTSize = spectrum.ErrInvalidFFTSize

	// ErrBinCountMismatch indicates a spectrogram does not fit the bin count.
	ErrBinCountMismatch = compare.ErrBinCountMismatch

	// ErrNoFrames indicates two spectrograms share no frame.
	ErrNoFrames = compare.ErrNoFrames

	// ErrUnresponsive indicates a worker stopped reporting progress.
	ErrUnresponsive = fanout.ErrUnresponsive
)

type (
	// MultiTrackError carries the number of tracks found in a stem file.
	MultiTrackError = codec.MultiTrackError

	// BinCountMismatchError describes a spectrogram that does not divide
	// into frames of the requested bin count.
	BinCountMismatchError = compare.BinCountMismatchError

	// FrameCountMismatch is a warning: two spectrograms had different frame
	// counts and only their common prefix was compared.
	FrameCountMismatch = compare.FrameCountMismatch
)

// MissingStemsError reports how many of the required stem files a directory holds.
type MissingStemsError struct {
	Dir     string
	Found   int
	Missing []string
}

func (e *MissingStemsError) Error() string {
	return fmt.Sprintf("%s in %s (found %d/%d, missing %s)",
		ErrMissingStems, e.Dir, e.Found, StemCount, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrMissingStems) match.
func (e *MissingStemsError) Is(target error) bool {
	return target == ErrMissingStems
}

// StemError wraps the failure of one stem's decode worker.
type StemError struct {
	Stem Stem
	Path string
	Err  error
}

func (e *StemError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Stem, e.Path, e.Err)
}

func (e *StemError) Unwrap() error { return e.Err }

// TrackError wraps the failure of one spectrogram worker.
type TrackError struct {
	Index int
	Label string
	Err   error
}

func (e *TrackError) Error() string {
	return fmt.Sprintf("spectrogram %s: %v", e.Label, e.Err)
}

func (e *TrackError) Unwrap() error { return e.Err }

// SampleRateMismatch is a warning: the two compared stems were decoded at
// different sample rates, so their bins cover different frequencies.
type SampleRateMismatch struct {
	Stem  Stem
	RateA int
	RateB int
}

func (w *SampleRateMismatch) Error() string {
	return fmt.Sprintf("%s: sample rate mismatch (%d Hz vs %d Hz)", w.Stem, w.RateA, w.RateB)
}
