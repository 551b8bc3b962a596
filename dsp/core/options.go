package core

import "fmt"

const (
	defaultSampleRate   = 44100
	defaultMaxBlockSize = 512
	defaultNumChannels  = 2
)

// ProcessSpec describes the stream a processor is prepared for.
// It is passed to every stage's Prepare before the first block.
type ProcessSpec struct {
	SampleRate   float64
	MaxBlockSize int
	NumChannels  int
}

// ProcessOption mutates a ProcessSpec.
type ProcessOption func(*ProcessSpec)

// DefaultProcessSpec returns a stereo 44.1 kHz spec with 512-frame blocks.
func DefaultProcessSpec() ProcessSpec {
	return ProcessSpec{
		SampleRate:   defaultSampleRate,
		MaxBlockSize: defaultMaxBlockSize,
		NumChannels:  defaultNumChannels,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessOption {
	return func(spec *ProcessSpec) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			spec.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block size the host expects to deliver.
func WithMaxBlockSize(blockSize int) ProcessOption {
	return func(spec *ProcessSpec) {
		if blockSize > 0 {
			spec.MaxBlockSize = blockSize
		}
	}
}

// WithNumChannels sets the channel count.
func WithNumChannels(channels int) ProcessOption {
	return func(spec *ProcessSpec) {
		if channels > 0 {
			spec.NumChannels = channels
		}
	}
}

// NewProcessSpec applies zero or more options to the default spec.
func NewProcessSpec(opts ...ProcessOption) ProcessSpec {
	spec := DefaultProcessSpec()
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}
	return spec
}

// Validate reports whether the spec can be used to prepare a processor.
func (s ProcessSpec) Validate() error {
	if s.SampleRate <= 0 || !IsFinite(s.SampleRate) {
		return fmt.Errorf("process spec: sample rate must be > 0 and finite: %f", s.SampleRate)
	}
	if s.MaxBlockSize <= 0 {
		return fmt.Errorf("process spec: max block size must be > 0: %d", s.MaxBlockSize)
	}
	if s.NumChannels <= 0 {
		return fmt.Errorf("process spec: channel count must be > 0: %d", s.NumChannels)
	}
	return nil
}
