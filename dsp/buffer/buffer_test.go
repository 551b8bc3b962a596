package buffer

import "testing"

func TestNewZeroFilled(t *testing.T) {
	b := New(2, 8)
	if b.NumChannels() != 2 || b.NumFrames() != 8 {
		t.Fatalf("shape = %dx%d, want 2x8", b.NumChannels(), b.NumFrames())
	}
	for ch := 0; ch < b.NumChannels(); ch++ {
		for i, v := range b.Channel(ch) {
			if v != 0 {
				t.Fatalf("Channel(%d)[%d] = %v, want 0", ch, i, v)
			}
		}
	}
}

func TestNewNegativeShape(t *testing.T) {
	b := New(-1, -1)
	if b.NumChannels() != 0 || b.NumFrames() != 0 {
		t.Fatalf("shape = %dx%d, want 0x0", b.NumChannels(), b.NumFrames())
	}
}

func TestChannelsDoNotOverlap(t *testing.T) {
	b := New(2, 4)
	for i := range b.Channel(0) {
		b.Channel(0)[i] = 1
	}
	for i, v := range b.Channel(1) {
		if v != 0 {
			t.Fatalf("Channel(1)[%d] = %v, want 0", i, v)
		}
	}
	b.Resize(2)
	b.Channel(0)[1] = 5
	if b.Channel(1)[0] != 0 {
		t.Fatal("channel 0 write leaked into channel 1 after shrink")
	}
}

func TestFromChannelsSharesMemory(t *testing.T) {
	l := []float64{1, 2, 3}
	r := []float64{4, 5}
	b := FromChannels(l, r)
	if b.NumFrames() != 2 {
		t.Fatalf("NumFrames() = %d, want 2", b.NumFrames())
	}
	b.Channel(0)[0] = 99
	if l[0] != 99 {
		t.Fatal("FromChannels should share underlying memory")
	}
}

func TestResizeWithinCapacityDoesNotAllocate(t *testing.T) {
	b := New(2, 512)
	allocs := testing.AllocsPerRun(100, func() {
		b.Resize(128)
		b.Resize(512)
	})
	if allocs != 0 {
		t.Fatalf("Resize allocated %.0f times, want 0", allocs)
	}
}

func TestResizeZeroesExposedFrames(t *testing.T) {
	b := New(1, 4)
	copy(b.Channel(0), []float64{1, 2, 3, 4})
	b.Resize(2)
	b.Resize(4)
	want := []float64{1, 2, 0, 0}
	for i, v := range b.Channel(0) {
		if v != want[i] {
			t.Fatalf("Channel(0) = %v, want %v", b.Channel(0), want)
		}
	}
}

func TestResizeGrowPreservesData(t *testing.T) {
	b := New(2, 2)
	b.Channel(1)[1] = 7
	b.Resize(16)
	if b.NumFrames() != 16 {
		t.Fatalf("NumFrames() = %d, want 16", b.NumFrames())
	}
	if b.Channel(1)[1] != 7 {
		t.Fatal("Resize did not preserve data")
	}
}

func TestCopyIsDeep(t *testing.T) {
	b := New(1, 3)
	b.Channel(0)[0] = 1
	c := b.Copy()
	c.Channel(0)[0] = 2
	if b.Channel(0)[0] != 1 {
		t.Fatal("Copy shares memory with original")
	}
}

func TestClearChannel(t *testing.T) {
	b := New(2, 3)
	for ch := 0; ch < 2; ch++ {
		for i := range b.Channel(ch) {
			b.Channel(ch)[i] = 1
		}
	}
	b.ClearChannel(1)
	if b.Channel(0)[2] != 1 || b.Channel(1)[2] != 0 {
		t.Fatalf("unexpected contents %v", b.Channels())
	}
}
