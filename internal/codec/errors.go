package codec

import (
	"errors"
	"fmt"
)

// Errors returned while decoding a file.
var (
	// ErrFileOpen indicates the file could not be opened.
	ErrFileOpen = errors.New("cannot open audio file")

	// ErrUnsupportedFormat indicates probing failed or the layout is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrMultiTrack indicates the container does not hold exactly one track.
	ErrMultiTrack = errors.New("file must contain exactly one audio track")

	// ErrDecode indicates codec construction or packet decoding failed.
	ErrDecode = errors.New("audio decode failed")

	// ErrEmptyResult indicates decoding finished without producing samples.
	ErrEmptyResult = errors.New("no samples decoded")
)

// MultiTrackError reports the number of tracks found in a file that must
// contain exactly one.
type MultiTrackError struct {
	Tracks int
}

func (e *MultiTrackError) Error() string {
	return fmt.Sprintf("%s (contains %d)", ErrMultiTrack, e.Tracks)
}

// Is makes errors.Is(err, ErrMultiTrack) match.
func (e *MultiTrackError) Is(target error) bool {
	return target == ErrMultiTrack
}
