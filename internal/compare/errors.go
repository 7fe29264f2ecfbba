package compare

import (
	"errors"
	"fmt"
)

const (
	half          = 0.5
	weightDivisor = 4
)

// Errors returned by the comparisons.
var (
	// ErrBinCountMismatch indicates a spectrogram does not divide into frames of the given bin count.
	ErrBinCountMismatch = errors.New("spectrogram length does not match bin count")

	// ErrNoFrames indicates there is no frame the two spectrograms have in common.
	ErrNoFrames = errors.New("no frames to compare")

	// ErrWeightCount indicates the weight vector does not have one entry per bin.
	ErrWeightCount = errors.New("weight count does not match bin count")
)

// BinCountMismatchError describes a spectrogram whose layout does not fit
// the requested bin count.
type BinCountMismatchError struct {
	Input    string // "a" or "b"
	Bins     int
	LeftLen  int
	RightLen int
}

func (e *BinCountMismatchError) Error() string {
	if e.LeftLen != e.RightLen {
		return fmt.Sprintf("%s: input %s has %d left and %d right values",
			ErrBinCountMismatch, e.Input, e.LeftLen, e.RightLen)
	}
	return fmt.Sprintf("%s: input %s has %d values, not a multiple of %d bins",
		ErrBinCountMismatch, e.Input, e.LeftLen, e.Bins)
}

// Is makes errors.Is(err, ErrBinCountMismatch) match.
func (e *BinCountMismatchError) Is(target error) bool {
	return target == ErrBinCountMismatch
}

// FrameCountMismatch is a warning: the compared spectrograms had different
// frame counts and only the first Used frames were compared.
type FrameCountMismatch struct {
	FramesA int
	FramesB int
	Used    int
}

func (w *FrameCountMismatch) Error() string {
	return fmt.Sprintf("frame count mismatch (a: %d frames, b: %d frames), using %d frames",
		w.FramesA, w.FramesB, w.Used)
}
