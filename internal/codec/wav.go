package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f32"
)

// WAV decodes RIFF/WAVE PCM files. Mono files are up-mixed to stereo.
type WAV struct{}

// Name implements Format.
func (WAV) Name() string { return "wav" }

// Extensions implements Format.
func (WAV) Extensions() []string { return []string{"wav", "wave"} }

// Sniff implements Format.
func (WAV) Sniff(header []byte) bool {
	return len(header) >= sniffLen &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

// Open implements Format.
func (WAV) Open(rs io.ReadSeeker) (Reader, error) {
	d := wav.NewDecoder(rs)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("invalid WAV file: %w", err)
		}
		return nil, errors.New("invalid WAV file")
	}

	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("WAV format tag %d is not integer PCM", d.WavAudioFormat)
	}

	format := d.Format()
	if format == nil {
		return nil, errors.New("WAV file has no format chunk")
	}

	r := &wavReader{
		dec:      d,
		format:   format,
		bitDepth: int(d.BitDepth),
	}
	if dur, err := d.Duration(); err == nil {
		r.frames = int64(dur.Seconds() * float64(format.SampleRate))
	}
	return r, nil
}

type wavReader struct {
	dec      *wav.Decoder
	format   *audio.Format
	bitDepth int
	frames   int64
}

func (r *wavReader) Tracks() []Track {
	return []Track{{
		ID:         0,
		Codec:      fmt.Sprintf("pcm_s%d", r.bitDepth),
		SampleRate: r.format.SampleRate,
		Channels:   r.format.NumChannels,
		Frames:     r.frames,
	}}
}

func (r *wavReader) NewDecoder(t Track) (Decoder, error) {
	if t.ID != 0 {
		return nil, fmt.Errorf("wav: unknown track %d", t.ID)
	}
	if t.Channels != monoChannels && t.Channels != StereoChannels {
		return nil, fmt.Errorf("wav: %d channels not supported", t.Channels)
	}

	scale, offset, err := pcmScale(r.bitDepth)
	if err != nil {
		return nil, err
	}

	return &wavDecoder{
		dec:      r.dec,
		channels: t.Channels,
		scale:    scale,
		offset:   offset,
		buf: &audio.IntBuffer{
			Data:   make([]int, wavPacketFrames*t.Channels),
			Format: r.format,
		},
	}, nil
}

// pcmScale returns the factor mapping integer PCM of the given depth to
// [-1, 1) and the offset applied before scaling.
func pcmScale(bitDepth int) (scale float32, offset int, err error) {
	switch bitDepth {
	case bitsPerSample8:
		return 1.0 / unsigned8BitOffset, unsigned8BitOffset, nil
	case bitsPerSample16:
		return 1.0 / (1 << (bitsPerSample16 - 1)), 0, nil
	case bitsPerSample24:
		return 1.0 / (1 << (bitsPerSample24 - 1)), 0, nil
	case bitsPerSample32:
		return 1.0 / (1 << (bitsPerSample32 - 1)), 0, nil
	default:
		return 0, 0, fmt.Errorf("wav: %d-bit PCM not supported", bitDepth)
	}
}

type wavDecoder struct {
	dec      *wav.Decoder
	buf      *audio.IntBuffer
	channels int
	scale    float32
	offset   int
}

func (d *wavDecoder) Decode() ([]float32, error) {
	n, err := d.dec.PCMBuffer(d.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	// Keep whole sample frames only.
	n -= n % d.channels
	if n == 0 {
		return nil, io.EOF
	}

	samples := make([]float32, n)
	for i, v := range d.buf.Data[:n] {
		samples[i] = float32(v - d.offset)
	}
	f32.Scale(samples, samples, d.scale)

	if d.channels == StereoChannels {
		return samples, nil
	}

	stereo := make([]float32, n*StereoChannels)
	f32.Interleave2(stereo, samples, samples)
	return stereo, nil
}
