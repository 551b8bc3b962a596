package buffer

// Sample is the set of interleaved sample types the conversion helpers accept.
type Sample interface {
	~float32 | ~float64
}

// Deinterleave fills b from interleaved src, one frame per b.NumChannels()
// values. The block is resized to hold every complete frame in src.
// It returns the number of frames read.
func Deinterleave[T Sample](b *Block, src []T) int {
	numCh := b.NumChannels()
	if numCh == 0 {
		return 0
	}
	frames := len(src) / numCh
	b.Resize(frames)
	for ch := 0; ch < numCh; ch++ {
		dst := b.channels[ch]
		for i := range dst {
			dst[i] = float64(src[i*numCh+ch])
		}
	}
	return frames
}

// Interleave writes b into dst in interleaved order and returns the number
// of frames written, limited by len(dst).
func Interleave[T Sample](dst []T, b *Block) int {
	numCh := b.NumChannels()
	if numCh == 0 {
		return 0
	}
	frames := len(dst) / numCh
	if b.frames < frames {
		frames = b.frames
	}
	for ch := 0; ch < numCh; ch++ {
		src := b.channels[ch]
		for i := 0; i < frames; i++ {
			dst[i*numCh+ch] = T(src[i])
		}
	}
	return frames
}
