package buffer

import "testing"

func TestDeinterleaveInterleaveRoundTrip(t *testing.T) {
	src := []float32{1, -1, 2, -2, 3, -3}
	b := New(2, 0)
	frames := Deinterleave(b, src)
	if frames != 3 {
		t.Fatalf("frames = %d, want 3", frames)
	}
	if b.Channel(0)[2] != 3 || b.Channel(1)[2] != -3 {
		t.Fatalf("unexpected planar data %v", b.Channels())
	}

	dst := make([]float32, len(src))
	if n := Interleave(dst, b); n != 3 {
		t.Fatalf("Interleave wrote %d frames, want 3", n)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst = %v, want %v", dst, src)
		}
	}
}

func TestDeinterleaveDropsPartialFrame(t *testing.T) {
	b := New(2, 0)
	if frames := Deinterleave(b, []float64{1, 2, 3}); frames != 1 {
		t.Fatalf("frames = %d, want 1", frames)
	}
}

func TestInterleaveLimitedByDestination(t *testing.T) {
	b := New(1, 4)
	dst := make([]float64, 2)
	if n := Interleave(dst, b); n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
}
