package buffer

// Block is a planar multi-channel float64 audio buffer.
// Stages mutate its channels in place.
type Block struct {
	data     []float64
	channels [][]float64
	frames   int
}

// New returns a zero-filled Block with the given shape.
// Negative arguments are treated as zero.
func New(numChannels, numFrames int) *Block {
	if numChannels < 0 {
		numChannels = 0
	}
	if numFrames < 0 {
		numFrames = 0
	}
	b := &Block{}
	b.alloc(numChannels, numFrames)
	return b
}

// FromChannels wraps existing channel slices without copying.
// The frame count is the length of the shortest channel.
func FromChannels(channels ...[]float64) *Block {
	frames := 0
	for i, ch := range channels {
		if i == 0 || len(ch) < frames {
			frames = len(ch)
		}
	}
	b := &Block{channels: make([][]float64, len(channels)), frames: frames}
	for i, ch := range channels {
		b.channels[i] = ch[:frames]
	}
	return b
}

func (b *Block) alloc(numChannels, numFrames int) {
	b.data = make([]float64, numChannels*numFrames)
	b.channels = make([][]float64, numChannels)
	b.frames = numFrames
	b.slice()
}

func (b *Block) slice() {
	stride := 0
	if len(b.channels) > 0 {
		stride = cap(b.data) / len(b.channels)
	}
	for ch := range b.channels {
		start := ch * stride
		b.channels[ch] = b.data[start : start+b.frames : start+stride]
	}
}

// NumChannels returns the channel count.
func (b *Block) NumChannels() int {
	return len(b.channels)
}

// NumFrames returns the number of samples per channel.
func (b *Block) NumFrames() int {
	return b.frames
}

// Channel returns the samples of channel ch.
func (b *Block) Channel(ch int) []float64 {
	return b.channels[ch]
}

// Channels returns all channel slices.
func (b *Block) Channels() [][]float64 {
	return b.channels
}

// FrameCapacity returns how many frames fit without reallocating.
func (b *Block) FrameCapacity() int {
	if b.data == nil || len(b.channels) == 0 {
		return b.frames
	}
	return cap(b.data) / len(b.channels)
}

// Resize changes the frame count, reusing capacity when possible.
// Newly exposed samples are zeroed. Blocks created by FromChannels are
// reallocated on any growth.
func (b *Block) Resize(numFrames int) {
	if numFrames < 0 {
		numFrames = 0
	}
	if numFrames == b.frames {
		return
	}
	if b.data != nil && numFrames <= b.FrameCapacity() {
		old := b.frames
		b.frames = numFrames
		b.slice()
		for _, ch := range b.channels {
			for i := old; i < numFrames; i++ {
				ch[i] = 0
			}
		}
		return
	}

	prev := b.channels
	b.alloc(len(prev), numFrames)
	for ch := range prev {
		copy(b.channels[ch], prev[ch])
	}
}

// Reshape changes both channel count and frame count. Contents are zeroed.
func (b *Block) Reshape(numChannels, numFrames int) {
	if numChannels == len(b.channels) && b.data != nil && numFrames <= b.FrameCapacity() {
		b.frames = numFrames
		b.slice()
		b.Zero()
		return
	}
	b.alloc(numChannels, numFrames)
}

// Zero sets all samples to 0.
func (b *Block) Zero() {
	for ch := range b.channels {
		b.ClearChannel(ch)
	}
}

// ClearChannel sets the samples of one channel to 0.
func (b *Block) ClearChannel(ch int) {
	s := b.channels[ch]
	for i := range s {
		s[i] = 0
	}
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	c := New(len(b.channels), b.frames)
	for ch := range b.channels {
		copy(c.channels[ch], b.channels[ch])
	}
	return c
}
