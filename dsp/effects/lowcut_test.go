package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
	"github.com/cwbudde/vocal-transformer/internal/testutil"
)

func preparedLowCut(t *testing.T, channels int) *LowCut {
	t.Helper()
	l := NewLowCut()
	if err := l.Prepare(core.NewProcessSpec(core.WithNumChannels(channels))); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return l
}

func TestLowCutOffIsIdentity(t *testing.T) {
	for _, hz := range []float64{-100, 0, 20, 20.5, 21} {
		l := preparedLowCut(t, 2)
		l.SetFrequency(hz)

		in := testutil.DeterministicNoise(7, 1, 256)
		b := buffer.FromChannels(append([]float64(nil), in...), append([]float64(nil), in...))
		l.Process(b)

		testutil.RequireSliceNearlyEqual(t, b.Channel(0), in, 0)
		testutil.RequireSliceNearlyEqual(t, b.Channel(1), in, 0)
	}
}

func TestLowCutAlpha(t *testing.T) {
	tests := []struct {
		hz   float64
		want float64
	}{
		{100, 0.06},
		{500, 0.26},
		{1000, 0.51},
		{1960, 0.99},
		{5000, 0.99},
	}
	for _, tt := range tests {
		l := NewLowCut()
		l.SetFrequency(tt.hz)
		if got := l.Alpha(); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("Alpha(%v) = %v, want %v", tt.hz, got, tt.want)
		}
	}
}

func TestLowCutScalesByAlpha(t *testing.T) {
	l := preparedLowCut(t, 1)
	l.SetFrequency(400)
	alpha := l.Alpha()

	in := testutil.DeterministicSine(150, 44100, 0.8, 1024)
	b := buffer.FromChannels(append([]float64(nil), in...))
	l.Process(b)

	for i, x := range in {
		if got, want := b.Channel(0)[i], alpha*x; math.Abs(got-want) > 1e-15 {
			t.Fatalf("sample %d: got %v want %v", i, got, want)
		}
	}
}

func TestLowCutMemoryIsPerChannel(t *testing.T) {
	stereo := preparedLowCut(t, 2)
	left := preparedLowCut(t, 1)
	right := preparedLowCut(t, 1)
	for _, l := range []*LowCut{stereo, left, right} {
		l.SetFrequency(250)
	}

	inL := testutil.DeterministicNoise(11, 1, 512)
	inR := testutil.DeterministicNoise(12, 1, 512)
	b := buffer.FromChannels(append([]float64(nil), inL...), append([]float64(nil), inR...))
	bl := buffer.FromChannels(append([]float64(nil), inL...))
	br := buffer.FromChannels(append([]float64(nil), inR...))

	for i := 0; i < 3; i++ {
		stereo.Process(b)
		left.Process(bl)
		right.Process(br)
	}

	testutil.RequireSliceNearlyEqual(t, b.Channel(0), bl.Channel(0), 0)
	testutil.RequireSliceNearlyEqual(t, b.Channel(1), br.Channel(0), 0)
}

func TestLowCutPrepareValidates(t *testing.T) {
	if err := NewLowCut().Prepare(core.ProcessSpec{}); err == nil {
		t.Fatal("expected error for empty spec")
	}
}

func TestLowCutPrepareResizesMemory(t *testing.T) {
	l := preparedLowCut(t, 2)
	l.SetFrequency(200)

	warm := buffer.FromChannels([]float64{0.3}, []float64{0.6})
	l.Process(warm)

	if err := l.Prepare(core.NewProcessSpec(core.WithNumChannels(1))); err != nil {
		t.Fatal(err)
	}
	if len(l.last) != 1 || l.last[0] != 0 {
		t.Fatalf("memory after re-Prepare = %v, want [0]", l.last)
	}
	if err := l.Prepare(core.NewProcessSpec(core.WithNumChannels(2))); err != nil {
		t.Fatal(err)
	}
	if len(l.last) != 2 || l.last[1] != 0 {
		t.Fatalf("memory after growing = %v, want [0 0]", l.last)
	}
}
