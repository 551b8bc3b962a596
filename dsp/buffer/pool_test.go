package buffer

import "testing"

func TestPoolGetReturnsZeroed(t *testing.T) {
	p := NewPool()

	b := p.Get(2, 8)
	if b.NumChannels() != 2 || b.NumFrames() != 8 {
		t.Fatalf("shape = %dx%d, want 2x8", b.NumChannels(), b.NumFrames())
	}
	b.Channel(1)[3] = 42
	p.Put(b)

	b = p.Get(2, 8)
	for ch := 0; ch < 2; ch++ {
		for i, v := range b.Channel(ch) {
			if v != 0 {
				t.Fatalf("Channel(%d)[%d] = %v, want 0", ch, i, v)
			}
		}
	}
	p.Put(b)
}

func TestPoolReshapesChannelCount(t *testing.T) {
	p := NewPool()
	b := p.Get(1, 4)
	p.Put(b)
	b = p.Get(2, 4)
	if b.NumChannels() != 2 {
		t.Fatalf("NumChannels() = %d, want 2", b.NumChannels())
	}
	p.Put(b)
}

func TestPoolPutNil(t *testing.T) {
	NewPool().Put(nil)
}
