package codec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DecodeFile opens path, probes its container using reg and decodes its
// single audio track. report, if non-nil, receives the running number of
// decoded samples (all channels) after every packet.
func DecodeFile(ctx context.Context, reg *Registry, path string, report func(int64)) (SampleBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return SampleBuffer{}, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer func() { _ = f.Close() }()

	if reg == nil {
		reg = DefaultRegistry()
	}

	reader, err := reg.Probe(f, filepath.Ext(path))
	if err != nil {
		return SampleBuffer{}, err
	}

	return Decode(ctx, reader, report)
}

// Decode drains the single track of an opened container.
func Decode(ctx context.Context, reader Reader, report func(int64)) (SampleBuffer, error) {
	tracks := reader.Tracks()
	if len(tracks) != 1 {
		return SampleBuffer{}, &MultiTrackError{Tracks: len(tracks)}
	}
	track := tracks[0]

	if track.Channels != monoChannels && track.Channels != StereoChannels {
		return SampleBuffer{}, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, track.Channels)
	}

	dec, err := reader.NewDecoder(track)
	if err != nil {
		return SampleBuffer{}, fmt.Errorf("%w: creating %s decoder: %w", ErrDecode, track.Codec, err)
	}

	var samples []float32
	if track.Frames > 0 {
		samples = make([]float32, 0, track.Frames*StereoChannels)
	}

	for {
		if err := ctx.Err(); err != nil {
			return SampleBuffer{}, err
		}

		packet, err := dec.Decode()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return SampleBuffer{}, fmt.Errorf("%w: packet at sample %d: %w", ErrDecode, len(samples), err)
		}

		samples = append(samples, packet...)
		if report != nil {
			report(int64(len(samples)))
		}
	}

	if len(samples) == 0 {
		return SampleBuffer{}, ErrEmptyResult
	}
	if len(samples)%StereoChannels != 0 {
		return SampleBuffer{}, fmt.Errorf("%w: %d samples is not a whole number of stereo frames", ErrDecode, len(samples))
	}

	return SampleBuffer{Samples: samples, SampleRate: track.SampleRate}, nil
}
