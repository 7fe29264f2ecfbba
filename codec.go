package stemcompare

import "github.com/tphakala/go-stem-compare/internal/codec"

type (
	// Registry probes containers against a set of formats.
	Registry = codec.Registry

	// Format is one container/codec pair the registry can open.
	Format = codec.Format

	// SampleBuffer is an interleaved stereo float32 track with its rate.
	SampleBuffer = codec.SampleBuffer

	// MP3 decodes MPEG-1/2 Layer III streams.
	MP3 = codec.MP3

	// WAV decodes RIFF/WAVE PCM streams.
	WAV = codec.WAV
)

// DefaultRegistry returns a registry holding every built-in format.
func DefaultRegistry() *Registry {
	return codec.DefaultRegistry()
}

// NewRegistry returns a registry probing formats in the given order.
func NewRegistry(formats ...Format) *Registry {
	return codec.NewRegistry(formats...)
}
