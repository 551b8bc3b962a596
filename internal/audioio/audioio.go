// Package audioio decodes WAV and MP3 files into planar blocks and writes
// 16-bit PCM WAV.
package audioio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
)

// ErrUnsupportedFormat is returned for files that are neither WAV nor MP3.
var ErrUnsupportedFormat = errors.New("audioio: unsupported format")

const wavPCMFormat = 1

// Clip is decoded audio with its sample rate.
type Clip struct {
	Block      *buffer.Block
	SampleRate float64
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.Block.NumFrames()) / c.SampleRate
}

// ReadFile decodes path, choosing the decoder by file extension.
func ReadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audioio: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return DecodeWAV(f)
	case ".mp3":
		return DecodeMP3(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// DecodeWAV reads an integer PCM WAV stream.
func DecodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV stream", ErrUnsupportedFormat)
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audioio: decode wav: %w", err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: missing channel count", ErrUnsupportedFormat)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}
	scale := 1 / math.Pow(2, float64(bitDepth-1))

	channels := pcm.Format.NumChannels
	frames := len(pcm.Data) / channels
	b := buffer.New(channels, frames)
	for ch := 0; ch < channels; ch++ {
		dst := b.Channel(ch)
		for i := range dst {
			v := pcm.Data[i*channels+ch]
			if bitDepth == 8 {
				v -= 128
			}
			dst[i] = float64(v) * scale
		}
	}
	return &Clip{Block: b, SampleRate: float64(pcm.Format.SampleRate)}, nil
}

// DecodeMP3 reads an MP3 stream. The decoder always yields stereo.
func DecodeMP3(r io.Reader) (*Clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("audioio: decode mp3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audioio: decode mp3: %w", err)
	}

	const bytesPerFrame = 4 // two 16-bit little-endian samples
	frames := len(raw) / bytesPerFrame
	pcm := make([]int16, frames*2)
	for i := range pcm {
		pcm[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}

	b := buffer.New(2, frames)
	left, right := b.Channel(0), b.Channel(1)
	for i := 0; i < frames; i++ {
		left[i] = float64(pcm[2*i]) / 32768
		right[i] = float64(pcm[2*i+1]) / 32768
	}
	return &Clip{Block: b, SampleRate: float64(dec.SampleRate())}, nil
}

// WriteWAV encodes c as 16-bit PCM. Samples are clipped to [-1, 1].
func WriteWAV(w io.WriteSeeker, c *Clip) error {
	channels := c.Block.NumChannels()
	frames := c.Block.NumFrames()
	if channels < 1 {
		return fmt.Errorf("audioio: write wav: no channels")
	}
	rate := int(math.Round(c.SampleRate))
	if rate <= 0 {
		return fmt.Errorf("audioio: write wav: invalid sample rate %f", c.SampleRate)
	}

	data := make([]int, frames*channels)
	for ch := 0; ch < channels; ch++ {
		for i, v := range c.Block.Channel(ch) {
			data[i*channels+ch] = int(math.Round(clip(v) * 32767))
		}
	}

	enc := wav.NewEncoder(w, rate, 16, channels, wavPCMFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audioio: write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audioio: write wav: %w", err)
	}
	return nil
}

// WriteFile creates path and writes c to it as 16-bit WAV.
func WriteFile(path string, c *Clip) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audioio: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("audioio: %w", cerr)
		}
	}()
	return WriteWAV(f, c)
}

func clip(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	case math.IsNaN(v):
		return 0
	}
	return v
}
