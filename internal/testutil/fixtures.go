package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/simd/f32"
)

// Fixture defaults.
const (
	RateCD          = 44100
	bitDepth16      = 16
	maxInt16        = 32767.0
	stereoChannels  = 2
	OriginalMarker  = ".original"
	filePermissions = 0o644
	dirPermissions  = 0o755

	// PCMFormat and FloatFormat are WAVE format tags.
	PCMFormat   = 1
	FloatFormat = 3
)

// Silent MP3 stream layout: MPEG-1 Layer III, 128 kbit/s, 44.1 kHz,
// joint stereo, no CRC. A frame with zeroed side info decodes to silence.
const (
	MP3FrameBytes   = 417
	MP3FrameSamples = 1152

	// MP3SilentFrames is just over one second at 44.1 kHz.
	MP3SilentFrames = 39
)

var mp3SilentHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

// StemFiles lists the stem file names in comparison order.
var StemFiles = []string{"bass.mp3", "drums.mp3", "vocals.mp3", "other.mp3"}

// WriteWAV writes 16-bit PCM samples (interleaved when channels > 1) to path.
func WriteWAV(t *testing.T, path string, sampleRate, channels int, samples []int) {
	t.Helper()
	WriteWAVFormat(t, path, sampleRate, bitDepth16, channels, PCMFormat, samples)
}

// WriteWAVFormat writes integer samples with an explicit bit depth and WAVE
// format tag.
func WriteWAVFormat(t *testing.T, path string, sampleRate, bitDepth, channels, format int, samples []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, format)
	buf := &audio.IntBuffer{
		Data:           samples,
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

// WriteSilence writes a stereo WAV of the given length filled with zeros.
func WriteSilence(t *testing.T, path string, sampleRate int, seconds float64) {
	t.Helper()
	frames := int(float64(sampleRate) * seconds)
	WriteWAV(t, path, sampleRate, stereoChannels, make([]int, frames*stereoChannels))
}

// WriteStemDir creates a directory holding silent stems for every name in
// stems. The stems carry WAV data under their .mp3 names; decoding relies on
// content sniffing. When original is set the ground-truth marker is added.
func WriteStemDir(t *testing.T, dir string, stems []string, original bool) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, dirPermissions))
	for _, name := range stems {
		WriteSilence(t, filepath.Join(dir, name), RateCD, 1.0)
	}
	writeMarker(t, dir, original)
	return dir
}

// WriteSilentMP3 writes frames silent MPEG-1 Layer III frames to path.
// The stream decodes to frames*MP3FrameSamples stereo sample frames at RateCD.
func WriteSilentMP3(t *testing.T, path string, frames int) {
	t.Helper()
	data := make([]byte, frames*MP3FrameBytes)
	for i := range frames {
		copy(data[i*MP3FrameBytes:], mp3SilentHeader)
	}
	require.NoError(t, os.WriteFile(path, data, filePermissions))
}

// WriteMP3StemDir is WriteStemDir with real MP3 stems of MP3SilentFrames frames.
func WriteMP3StemDir(t *testing.T, dir string, stems []string, original bool) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, dirPermissions))
	for _, name := range stems {
		WriteSilentMP3(t, filepath.Join(dir, name), MP3SilentFrames)
	}
	writeMarker(t, dir, original)
	return dir
}

func writeMarker(t *testing.T, dir string, original bool) {
	t.Helper()
	if original {
		require.NoError(t, os.WriteFile(filepath.Join(dir, OriginalMarker), nil, filePermissions))
	}
}

// SineStereo generates interleaved stereo sine tones, one frequency per channel.
func SineStereo(frames int, sampleRate, leftHz, rightHz, amplitude float64) []float32 {
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := range frames {
		ts := float64(i) / sampleRate
		left[i] = float32(amplitude * math.Sin(2*math.Pi*leftHz*ts))
		right[i] = float32(amplitude * math.Sin(2*math.Pi*rightHz*ts))
	}
	out := make([]float32, frames*stereoChannels)
	f32.Interleave2(out, left, right)
	return out
}

// ToPCM16 quantizes float samples in [-1, 1] to 16-bit integers.
func ToPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(math.Round(float64(v) * maxInt16))
	}
	return out
}
