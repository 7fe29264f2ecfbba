package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/tphakala/simd/f32"
)

// int16Scale maps signed 16-bit PCM to [-1, 1).
const int16Scale = 1.0 / 32768.0

// MP3 decodes MPEG-1/2 Layer III streams. The underlying decoder always
// produces 16-bit stereo, up-mixing mono streams itself.
type MP3 struct{}

// Name implements Format.
func (MP3) Name() string { return "mp3" }

// Extensions implements Format.
func (MP3) Extensions() []string { return []string{"mp3"} }

// Sniff accepts an ID3v2 tag or an MPEG audio frame sync.
func (MP3) Sniff(header []byte) bool {
	if bytes.HasPrefix(header, []byte("ID3")) {
		return true
	}
	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}

// Open implements Format.
func (MP3) Open(rs io.ReadSeeker) (Reader, error) {
	d, err := mp3.NewDecoder(rs)
	if err != nil {
		return nil, err
	}
	return &mp3Reader{dec: d}, nil
}

type mp3Reader struct {
	dec *mp3.Decoder
}

func (r *mp3Reader) Tracks() []Track {
	var frames int64
	if n := r.dec.Length(); n > 0 {
		frames = n / mp3BytesPerFrame
	}
	return []Track{{
		ID:         0,
		Codec:      "mp3",
		SampleRate: r.dec.SampleRate(),
		Channels:   StereoChannels,
		Frames:     frames,
	}}
}

func (r *mp3Reader) NewDecoder(t Track) (Decoder, error) {
	if t.ID != 0 {
		return nil, fmt.Errorf("mp3: unknown track %d", t.ID)
	}
	return &mp3Decoder{
		dec: r.dec,
		raw: make([]byte, mp3FrameSamples*mp3BytesPerFrame),
	}, nil
}

type mp3Decoder struct {
	dec *mp3.Decoder
	raw []byte
}

func (d *mp3Decoder) Decode() ([]float32, error) {
	n, err := io.ReadFull(d.dec, d.raw)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	// Drop a trailing partial sample pair.
	n -= n % mp3BytesPerFrame
	if n == 0 {
		return nil, io.EOF
	}

	out := make([]float32, n/2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(d.raw[2*i:])))
	}
	f32.Scale(out, out, int16Scale)
	return out, nil
}
