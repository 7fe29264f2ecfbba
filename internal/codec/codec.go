// Package codec adapts container/bitstream decoders to interleaved stereo
// float32 sample buffers.
//
// A decode goes through three narrow steps, mirroring how media frameworks
// split the work:
//
//	Registry.Probe(file, hint) -> Reader   // container detection
//	Reader.NewDecoder(track)   -> Decoder  // codec construction
//	Decoder.Decode()           -> packet   // interleaved float32 samples
//
// Only single-track files are accepted, and no resampling is performed: the
// returned [SampleBuffer] carries the file's native sample rate.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// SampleBuffer holds channel-interleaved stereo samples: [L0, R0, L1, R1, ...].
type SampleBuffer struct {
	Samples    []float32
	SampleRate int
}

// Frames returns the number of samples per channel.
func (b SampleBuffer) Frames() int {
	return len(b.Samples) / StereoChannels
}

// Track describes one elementary audio stream inside a container.
type Track struct {
	ID         int
	Codec      string
	SampleRate int
	Channels   int

	// Frames is the expected number of samples per channel, 0 if unknown.
	Frames int64
}

// Format detects and opens one container format.
type Format interface {
	// Name is a short identifier such as "mp3".
	Name() string

	// Extensions lists file extensions (without dot) used as probe hints.
	Extensions() []string

	// Sniff reports whether header looks like the start of this format.
	// header holds at most sniffLen bytes and may be shorter.
	Sniff(header []byte) bool

	// Open parses the container. rs is positioned at the start of the stream.
	Open(rs io.ReadSeeker) (Reader, error)
}

// Reader exposes the tracks of an opened container.
type Reader interface {
	Tracks() []Track
	NewDecoder(t Track) (Decoder, error)
}

// Decoder produces decoded packets for one track.
type Decoder interface {
	// Decode returns the next packet as interleaved stereo float32 samples.
	// It returns io.EOF once the stream is exhausted.
	Decode() ([]float32, error)
}

// Registry is an ordered set of formats used to probe unknown files.
type Registry struct {
	formats []Format
}

// NewRegistry creates a registry probing formats in the given order.
func NewRegistry(formats ...Format) *Registry {
	return &Registry{formats: append([]Format(nil), formats...)}
}

// DefaultRegistry returns a registry with the built-in MP3 and WAV formats.
func DefaultRegistry() *Registry {
	return NewRegistry(MP3{}, WAV{})
}

// Register appends a format to the probe order.
func (r *Registry) Register(f Format) {
	r.formats = append(r.formats, f)
}

// Formats returns the registered formats in probe order.
func (r *Registry) Formats() []Format {
	return append([]Format(nil), r.formats...)
}

// Probe identifies the container in rs and opens it. Formats claiming the
// hint extension are tried first; detection itself is content based, so a
// misnamed file still opens when some registered format recognizes it.
func (r *Registry) Probe(rs io.ReadSeeker, hint string) (Reader, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(rs, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty stream", ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("%w: reading header: %w", ErrUnsupportedFormat, err)
	}
	header = header[:n]

	var openErrs []error
	for _, f := range r.candidates(hint) {
		if !f.Sniff(header) {
			continue
		}
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: rewinding stream: %w", ErrUnsupportedFormat, err)
		}
		reader, err := f.Open(rs)
		if err != nil {
			openErrs = append(openErrs, fmt.Errorf("%s: %w", f.Name(), err))
			continue
		}
		return reader, nil
	}

	if len(openErrs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, errors.Join(openErrs...))
	}
	return nil, fmt.Errorf("%w: no registered format recognizes the stream", ErrUnsupportedFormat)
}

// candidates orders formats so the ones matching hint come first.
func (r *Registry) candidates(hint string) []Format {
	hint = strings.ToLower(strings.TrimPrefix(hint, "."))
	ordered := make([]Format, 0, len(r.formats))
	var rest []Format
	for _, f := range r.formats {
		if hint != "" && hasExtension(f, hint) {
			ordered = append(ordered, f)
		} else {
			rest = append(rest, f)
		}
	}
	return append(ordered, rest...)
}

func hasExtension(f Format, ext string) bool {
	for _, e := range f.Extensions() {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
