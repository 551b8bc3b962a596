package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
	"github.com/cwbudde/vocal-transformer/internal/testutil"
)

func TestSemitonesToRatio(t *testing.T) {
	tests := []struct {
		semitones float64
		want      float64
	}{
		{0, 1},
		{12, 2},
		{-12, 0.5},
		{7, 1.4983070768766815},
	}
	for _, tt := range tests {
		if got := SemitonesToRatio(tt.semitones); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("SemitonesToRatio(%v) = %v, want %v", tt.semitones, got, tt.want)
		}
	}
}

func TestWobbleMatchesReferenceRecurrence(t *testing.T) {
	w := NewWobbleShifter()
	w.SetSemitones(5)

	in := testutil.DeterministicNoise(3, 1, 300)
	b := buffer.New(2, 150)
	copy(b.Channel(0), in[:150])
	copy(b.Channel(1), in[150:])
	w.Process(b)

	ratio := SemitonesToRatio(5)
	phase := 0.0
	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = x * (0.8 + 0.2*math.Sin(phase))
		phase += ratio * 0.1
		if phase > 1000 {
			phase -= 1000
		}
	}

	testutil.RequireSliceNearlyEqual(t, b.Channel(0), want[:150], 1e-15)
	testutil.RequireSliceNearlyEqual(t, b.Channel(1), want[150:], 1e-15)
}

func TestWobbleIsNeverIdentityAtUnityRatio(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64, 512, 4096} {
		w := NewWobbleShifter()
		w.SetPitchRatio(1)

		in := testutil.DeterministicNoise(int64(n), 0.9, n)
		b := buffer.FromChannels(append([]float64(nil), in...))
		w.Process(b)

		changed := false
		for i := range in {
			if in[i] != 0 && b.Channel(0)[i] != in[i] {
				changed = true
				break
			}
		}
		if !changed {
			t.Fatalf("block of %d samples passed through unchanged", n)
		}
	}
}

func TestWobblePhaseWrapsBelowThousand(t *testing.T) {
	w := NewWobbleShifter()
	w.SetSemitones(12)

	b := buffer.New(1, 10000)
	for block := 0; block < 5; block++ {
		w.Process(b)
		if p := w.Phase(); p < 0 || p > 1000 {
			t.Fatalf("phase %v escaped [0, 1000]", p)
		}
	}
}

func TestWobblePhaseContinuesAcrossBlocks(t *testing.T) {
	whole := NewWobbleShifter()
	split := NewWobbleShifter()
	whole.SetSemitones(-3)
	split.SetSemitones(-3)

	in := testutil.DeterministicSine(220, 44100, 0.5, 1000)
	a := buffer.FromChannels(append([]float64(nil), in...))
	whole.Process(a)

	out := append([]float64(nil), in...)
	for start := 0; start < len(out); start += 128 {
		end := start + 128
		if end > len(out) {
			end = len(out)
		}
		split.Process(buffer.FromChannels(out[start:end]))
	}

	testutil.RequireSliceNearlyEqual(t, out, a.Channel(0), 0)
}

func TestWobbleResetAndPrepare(t *testing.T) {
	w := NewWobbleShifter()
	w.SetSemitones(3)
	w.Process(buffer.New(1, 100))
	if w.Phase() == 0 {
		t.Fatal("expected phase to advance")
	}

	if err := w.Prepare(core.NewProcessSpec(core.WithSampleRate(48000))); err != nil {
		t.Fatal(err)
	}
	if w.Phase() != 0 {
		t.Fatalf("phase after Prepare = %v, want 0", w.Phase())
	}
	if err := w.Prepare(core.ProcessSpec{}); err == nil {
		t.Fatal("expected error for empty spec")
	}
}

func TestWobbleRejectsInvalidRatio(t *testing.T) {
	w := NewWobbleShifter()
	for _, ratio := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := w.SetPitchRatio(ratio); err == nil {
			t.Fatalf("SetPitchRatio(%v) error = nil", ratio)
		}
	}
	if err := w.SetSemitones(math.NaN()); err == nil {
		t.Fatal("SetSemitones(NaN) error = nil")
	}
	if w.PitchRatio() != 1 {
		t.Fatalf("PitchRatio() = %v after rejected values, want 1", w.PitchRatio())
	}
}
