package codec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-stem-compare/internal/testutil"
)

// fakeReader is a scripted container used to exercise Decode's error paths.
type fakeReader struct {
	tracks     []Track
	packets    [][]float32
	failAfter  int
	decoderErr error
	packetErr  error
}

func (r *fakeReader) Tracks() []Track { return r.tracks }

func (r *fakeReader) NewDecoder(Track) (Decoder, error) {
	if r.decoderErr != nil {
		return nil, r.decoderErr
	}
	return &fakeDecoder{r: r}, nil
}

type fakeDecoder struct {
	r   *fakeReader
	pos int
}

func (d *fakeDecoder) Decode() ([]float32, error) {
	if d.r.packetErr != nil && d.pos >= d.r.failAfter {
		return nil, d.r.packetErr
	}
	if d.pos >= len(d.r.packets) {
		return nil, io.EOF
	}
	p := d.r.packets[d.pos]
	d.pos++
	return p, nil
}

func stereoTrack() Track {
	return Track{Codec: "fake", SampleRate: testutil.RateCD, Channels: StereoChannels}
}

func TestDecodeFile_SilentWAVUnderMP3Name(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bass.mp3")
	testutil.WriteSilence(t, path, testutil.RateCD, 1.0)

	var reports []int64
	buf, err := DecodeFile(context.Background(), nil, path, func(n int64) {
		reports = append(reports, n)
	})
	require.NoError(t, err)

	assert.Equal(t, testutil.RateCD, buf.SampleRate)
	assert.Len(t, buf.Samples, testutil.RateCD*StereoChannels)
	assert.Equal(t, testutil.RateCD, buf.Frames())
	testutil.AssertAllZero(t, buf.Samples)

	require.NotEmpty(t, reports)
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1], "progress must not decrease")
	}
	assert.Equal(t, int64(len(buf.Samples)), reports[len(reports)-1])
}

func TestDecodeFile_SilentMP3(t *testing.T) {
	const frames = 40
	path := filepath.Join(t.TempDir(), "bass.mp3")
	testutil.WriteSilentMP3(t, path, frames)

	var reports []int64
	buf, err := DecodeFile(context.Background(), nil, path, func(n int64) {
		reports = append(reports, n)
	})
	require.NoError(t, err)

	assert.Equal(t, testutil.RateCD, buf.SampleRate)
	assert.Equal(t, frames*testutil.MP3FrameSamples, buf.Frames())
	assert.Len(t, buf.Samples, frames*testutil.MP3FrameSamples*StereoChannels)
	testutil.AssertAllZero(t, buf.Samples)

	require.NotEmpty(t, reports)
	assert.Equal(t, int64(len(buf.Samples)), reports[len(reports)-1])
}

func TestProbe_MP3Track(t *testing.T) {
	const frames = 12
	path := filepath.Join(t.TempDir(), "other.mp3")
	testutil.WriteSilentMP3(t, path, frames)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	reader, err := DefaultRegistry().Probe(f, ".mp3")
	require.NoError(t, err)

	tracks := reader.Tracks()
	require.Len(t, tracks, 1)
	assert.Equal(t, "mp3", tracks[0].Codec)
	assert.Equal(t, testutil.RateCD, tracks[0].SampleRate)
	assert.Equal(t, StereoChannels, tracks[0].Channels)
	assert.Equal(t, int64(frames*testutil.MP3FrameSamples), tracks[0].Frames)
}

func TestDecodeFile_FloatWAVRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float.wav")
	testutil.WriteWAVFormat(t, path, testutil.RateCD, 32, StereoChannels, testutil.FloatFormat, make([]int, 64))

	_, err := DecodeFile(context.Background(), nil, path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "format tag 3")
}

func TestDecodeFile_StereoScaling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testutil.WriteWAV(t, path, testutil.RateCD, StereoChannels, []int{16384, -16384, 0, 8192})

	buf, err := DecodeFile(context.Background(), DefaultRegistry(), path, nil)
	require.NoError(t, err)
	require.Len(t, buf.Samples, 4)

	assert.InDelta(t, 0.5, buf.Samples[0], testutil.Float32Tolerance)
	assert.InDelta(t, -0.5, buf.Samples[1], testutil.Float32Tolerance)
	assert.InDelta(t, 0.0, buf.Samples[2], testutil.Float32Tolerance)
	assert.InDelta(t, 0.25, buf.Samples[3], testutil.Float32Tolerance)
}

func TestDecodeFile_MonoIsUpmixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	testutil.WriteWAV(t, path, testutil.RateCD, monoChannels, []int{100, -200, 300})

	buf, err := DecodeFile(context.Background(), nil, path, nil)
	require.NoError(t, err)
	require.Len(t, buf.Samples, 6)

	for i := 0; i < len(buf.Samples); i += StereoChannels {
		assert.Equal(t, buf.Samples[i], buf.Samples[i+1], "frame %d channels differ", i/2)
	}
	assert.Greater(t, buf.Samples[4], float32(0))
}

func TestDecodeFile_FileNotFound(t *testing.T) {
	_, err := DecodeFile(context.Background(), nil, "/nonexistent/bass.mp3", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeFile_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drums.mp3")
	require.NoError(t, os.WriteFile(path, []byte("definitely not audio"), 0o644))

	_, err := DecodeFile(context.Background(), nil, path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocals.mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := DecodeFile(context.Background(), nil, path, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_MultiTrack(t *testing.T) {
	for _, n := range []int{0, 2, 3} {
		tracks := make([]Track, n)
		for i := range tracks {
			tracks[i] = stereoTrack()
		}

		_, err := Decode(context.Background(), &fakeReader{tracks: tracks}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMultiTrack)

		var mt *MultiTrackError
		require.ErrorAs(t, err, &mt)
		assert.Equal(t, n, mt.Tracks)
	}
}

func TestDecode_UnsupportedChannelLayout(t *testing.T) {
	tr := stereoTrack()
	tr.Channels = 6
	_, err := Decode(context.Background(), &fakeReader{tracks: []Track{tr}}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_DecoderConstructionFails(t *testing.T) {
	r := &fakeReader{tracks: []Track{stereoTrack()}, decoderErr: errors.New("no codec")}
	_, err := Decode(context.Background(), r, nil)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "no codec")
}

func TestDecode_PacketFailure(t *testing.T) {
	r := &fakeReader{
		tracks:    []Track{stereoTrack()},
		packets:   [][]float32{{0.1, 0.1}, {0.2, 0.2}},
		failAfter: 1,
		packetErr: errors.New("corrupt frame"),
	}
	_, err := Decode(context.Background(), r, nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecode_EmptyResult(t *testing.T) {
	r := &fakeReader{tracks: []Track{stereoTrack()}}
	_, err := Decode(context.Background(), r, nil)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestDecode_TruncatedStreamKeepsDecodedSamples(t *testing.T) {
	r := &fakeReader{
		tracks:    []Track{stereoTrack()},
		packets:   [][]float32{{0.1, 0.2}},
		failAfter: 1,
		packetErr: io.ErrUnexpectedEOF,
	}
	buf, err := Decode(context.Background(), r, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, buf.Samples)
}

func TestDecode_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &fakeReader{tracks: []Track{stereoTrack()}, packets: [][]float32{{0, 0}}}
	_, err := Decode(ctx, r, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		mp3    bool
		wav    bool
	}{
		{"id3_tag", []byte("ID3\x04\x00\x00\x00\x00\x00\x00\x00\x00"), true, false},
		{"mpeg_sync", []byte{0xFF, 0xFB, 0x90, 0x64}, true, false},
		{"riff_wave", []byte("RIFF\x24\x00\x00\x00WAVE"), false, true},
		{"riff_avi", []byte("RIFF\x24\x00\x00\x00AVI "), false, false},
		{"text", []byte("hello world!"), false, false},
		{"empty", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mp3, MP3{}.Sniff(tt.header))
			assert.Equal(t, tt.wav, WAV{}.Sniff(tt.header))
		})
	}
}

func TestRegistry_HintOrdersCandidates(t *testing.T) {
	reg := DefaultRegistry()

	first := reg.candidates(".wav")
	require.Len(t, first, 2)
	assert.Equal(t, "wav", first[0].Name())

	first = reg.candidates("mp3")
	assert.Equal(t, "mp3", first[0].Name())

	assert.Len(t, reg.Formats(), 2)
}

func TestRegistry_ProbeWithoutMatchingFormat(t *testing.T) {
	reg := NewRegistry(MP3{})

	var wavBytes bytes.Buffer
	path := filepath.Join(t.TempDir(), "x.wav")
	testutil.WriteSilence(t, path, testutil.RateCD, 0.01)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	wavBytes.Write(data)

	_, err = reg.Probe(bytes.NewReader(wavBytes.Bytes()), "wav")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	reg.Register(WAV{})
	reader, err := reg.Probe(bytes.NewReader(wavBytes.Bytes()), "wav")
	require.NoError(t, err)
	require.Len(t, reader.Tracks(), 1)
	assert.Equal(t, StereoChannels, reader.Tracks()[0].Channels)
}
