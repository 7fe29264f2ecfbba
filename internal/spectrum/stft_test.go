package spectrum

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-stem-compare/internal/testutil"
)

const (
	testFFTSize4096 = 4096
	testFFTSize64   = 64
	testFFTSize8    = 8
	testRate        = 44100.0
)

func TestHannWindow_Symmetry(t *testing.T) {
	for _, n := range []int{2, 8, 64, 1024, testFFTSize4096} {
		w := HannWindow(n)
		require.Len(t, w, n)
		testutil.AssertSymmetric(t, w, testutil.WindowTolerance)
		assert.InDelta(t, w[0], w[n-1], testutil.WindowTolerance, "w[0] != w[N-1] for N=%d", n)
	}
}

func TestHannWindow_CenterPeak(t *testing.T) {
	w := HannWindow(testFFTSize4096)

	testutil.AssertCenterIsMax(t, w, testutil.WindowTolerance)
	assert.InDelta(t, 1.0, w[testFFTSize4096/2], 1e-5, "center value should be ~1.0")
	assert.InDelta(t, 0.0, w[0], testutil.WindowTolerance)
	testutil.AssertAllInRange(t, w, 0, 1)
}

func TestHannWindow_EdgeLengths(t *testing.T) {
	assert.Empty(t, HannWindow(0))
	assert.Equal(t, []float64{1}, HannWindow(1))
}

func TestCenteredCosineWindow(t *testing.T) {
	w := CenteredCosineWindow(testFFTSize8)
	require.Len(t, w, testFFTSize8)

	assert.InDelta(t, 1.0, w[0], testutil.WindowTolerance, "edge of centered window")
	assert.InDelta(t, 0.0, w[testFFTSize8/2], testutil.WindowTolerance, "center of centered window")
	// Periodic in N: w[k] == w[N-k] for k in 1..N-1.
	for k := 1; k < testFFTSize8; k++ {
		assert.InDelta(t, w[k], w[testFFTSize8-k], testutil.WindowTolerance)
	}
}

func TestParseWindowKind(t *testing.T) {
	k, err := ParseWindowKind("hann")
	require.NoError(t, err)
	assert.Equal(t, WindowHann, k)

	k, err = ParseWindowKind("centered")
	require.NoError(t, err)
	assert.Equal(t, WindowCenteredCosine, k)
	assert.Equal(t, "centered", k.String())

	_, err = ParseWindowKind("blackman")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewWindow(WindowKind(42), testFFTSize8)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSTFT_SilenceIsZero(t *testing.T) {
	lengths := []int{0, 2, 2 * testFFTSize64, 2*testFFTSize64 + 2, 10 * testFFTSize64, 2 * 44100}

	for _, kind := range []WindowKind{WindowHann, WindowCenteredCosine} {
		for _, n := range lengths {
			spec, err := STFT(context.Background(), make([]float32, n), testFFTSize64, WithWindow(kind))
			require.NoError(t, err)
			testutil.AssertAllZero(t, spec.Left)
			testutil.AssertAllZero(t, spec.Right)
		}
	}
}

func TestSTFT_FrameCount(t *testing.T) {
	tests := []struct {
		name       string
		samples    int
		fftSize    int
		wantFrames int
	}{
		{"empty", 0, testFFTSize64, 0},
		{"single_sample", 2, testFFTSize64, 1},
		{"exact_one_frame", 2 * testFFTSize64, testFFTSize64, 1},
		{"one_frame_plus_one", 2 * (testFFTSize64 + 1), testFFTSize64, 2},
		{"exact_ten_frames", 2 * 10 * testFFTSize64, testFFTSize64, 10},
		{"one_second_cd", 2 * 44100, testFFTSize4096, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := STFT(context.Background(), make([]float32, tt.samples), tt.fftSize)
			require.NoError(t, err)

			bins := tt.fftSize / 2
			assert.Equal(t, bins, spec.Bins)
			assert.Equal(t, tt.wantFrames, spec.Frames())
			assert.Equal(t, tt.wantFrames, FrameCount(tt.samples, tt.fftSize))
			assert.Len(t, spec.Left, tt.wantFrames*bins)
			assert.Len(t, spec.Right, len(spec.Left))
		})
	}
}

func TestSTFT_InvalidInput(t *testing.T) {
	for _, size := range []int{0, 1, 3, 6, 100, -4} {
		_, err := STFT(context.Background(), make([]float32, 8), size)
		assert.ErrorIs(t, err, ErrInvalidFFTSize, "size %d", size)
	}

	_, err := STFT(context.Background(), make([]float32, 7), testFFTSize8)
	assert.ErrorIs(t, err, ErrOddSampleCount)
}

func TestSTFT_DCEnergyInFirstBin(t *testing.T) {
	// Left channel is a constant 1.0, right is silent.
	samples := make([]float32, 2*testFFTSize8)
	for i := 0; i < len(samples); i += 2 {
		samples[i] = 1
	}

	spec, err := STFT(context.Background(), samples, testFFTSize8)
	require.NoError(t, err)
	require.Equal(t, 1, spec.Frames())

	var windowSum float64
	for _, w := range HannWindow(testFFTSize8) {
		windowSum += w
	}
	left, right := spec.Frame(0)
	assert.InDelta(t, windowSum*windowSum, float64(left[0]), 1e-4)
	testutil.AssertAllZero(t, right)
}

func TestSTFT_ToneLandsInItsBin(t *testing.T) {
	const bin = 4
	frames := testFFTSize64
	samples := make([]float32, 2*frames)
	for n := range frames {
		v := float32(math.Cos(2 * math.Pi * bin * float64(n) / testFFTSize64))
		samples[2*n] = v
		samples[2*n+1] = v
	}

	spec, err := STFT(context.Background(), samples, testFFTSize64)
	require.NoError(t, err)

	left, right := spec.Frame(0)
	assert.Equal(t, left, right, "identical channels must give identical spectra")

	peak := 0
	for k := range left {
		if left[k] > left[peak] {
			peak = k
		}
	}
	assert.Equal(t, bin, peak)
	testutil.AssertNoNaNOrInf(t, left)
}

func TestSTFT_ChannelsAreIndependent(t *testing.T) {
	samples := testutil.SineStereo(3*testFFTSize64, testRate, 1000, 0, 0.5)

	spec, err := STFT(context.Background(), samples, testFFTSize64)
	require.NoError(t, err)

	testutil.AssertAllZero(t, spec.Right)
	var energy float32
	for _, v := range spec.Left {
		energy += v
	}
	assert.Positive(t, energy)
}

func TestSTFT_Progress(t *testing.T) {
	var reports []int
	samples := make([]float32, 2*37*testFFTSize8)

	_, err := STFT(context.Background(), samples, testFFTSize8, WithProgress(func(p int) {
		reports = append(reports, p)
	}))
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	assert.Equal(t, 0, reports[0])
	assert.Equal(t, 100, reports[len(reports)-1])
	for i := 1; i < len(reports); i++ {
		assert.Greater(t, reports[i], reports[i-1])
	}
}

func TestSTFT_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := STFT(ctx, make([]float32, 2*testFFTSize8), testFFTSize8)
	assert.ErrorIs(t, err, context.Canceled)
}
