package analysis

import (
	"fmt"
	"math"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
)

const (
	defaultFFTSize        = 4096
	defaultRolloffPercent = 0.85
)

// Report holds level and spectral-shape statistics for one signal.
//
//nolint:revive
type Report struct {
	Frames     int
	SampleRate float64

	DC             float64
	RMS            float64
	RMS_dB         float64
	Peak           float64
	Peak_dB        float64
	CrestFactor    float64
	CrestFactor_dB float64
	ZeroCrossings  int

	Centroid float64 // Hz
	Rolloff  float64 // Hz
}

type config struct {
	fftSize        int
	rolloffPercent float64
}

// Option configures Analyze.
type Option func(*config) error

// WithFFTSize sets the analysis frame length. It must be a power of two >= 16.
func WithFFTSize(n int) Option {
	return func(c *config) error {
		if n < 16 || n&(n-1) != 0 {
			return fmt.Errorf("analysis: FFT size must be a power of two >= 16: %d", n)
		}
		c.fftSize = n
		return nil
	}
}

// WithRolloffPercent sets the energy fraction used for the roll-off frequency.
func WithRolloffPercent(p float64) Option {
	return func(c *config) error {
		if p <= 0 || p > 1 || math.IsNaN(p) {
			return fmt.Errorf("analysis: roll-off percent must be in (0, 1]: %f", p)
		}
		c.rolloffPercent = p
		return nil
	}
}

// Analyze computes a Report for a mono signal.
func Analyze(signal []float64, sampleRate float64, opts ...Option) (Report, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return Report{}, fmt.Errorf("analysis: sample rate must be > 0 and finite: %f", sampleRate)
	}
	cfg := config{fftSize: defaultFFTSize, rolloffPercent: defaultRolloffPercent}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return Report{}, err
		}
	}

	r := levels(signal)
	r.SampleRate = sampleRate
	if len(signal) == 0 {
		return r, nil
	}

	mag, err := MagnitudeSpectrum(signal, cfg.fftSize)
	if err != nil {
		return Report{}, err
	}
	r.Centroid = Centroid(mag, sampleRate)
	r.Rolloff = Rolloff(mag, sampleRate, cfg.rolloffPercent)
	return r, nil
}

// AnalyzeBlock analyzes the mono mix (channel average) of b.
func AnalyzeBlock(b *buffer.Block, sampleRate float64, opts ...Option) (Report, error) {
	return Analyze(Mixdown(b), sampleRate, opts...)
}

// Mixdown returns the per-frame average of all channels of b.
func Mixdown(b *buffer.Block) []float64 {
	out := make([]float64, b.NumFrames())
	nch := b.NumChannels()
	if nch == 0 {
		return out
	}
	for _, ch := range b.Channels() {
		for i, v := range ch {
			out[i] += v
		}
	}
	if nch > 1 {
		inv := 1 / float64(nch)
		for i := range out {
			out[i] *= inv
		}
	}
	return out
}

func levels(signal []float64) Report {
	r := Report{
		Frames:         len(signal),
		RMS_dB:         math.Inf(-1),
		Peak_dB:        math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
	if len(signal) == 0 {
		return r
	}

	var sum, sumSq float64
	for i, x := range signal {
		sum += x
		sumSq += x * x
		if a := math.Abs(x); a > r.Peak {
			r.Peak = a
		}
		if i > 0 && signal[i-1]*x < 0 {
			r.ZeroCrossings++
		}
	}
	n := float64(len(signal))
	r.DC = sum / n
	r.RMS = math.Sqrt(sumSq / n)
	r.RMS_dB = core.LinearToDB(r.RMS)
	r.Peak_dB = core.LinearToDB(r.Peak)
	if r.RMS > 0 {
		r.CrestFactor = r.Peak / r.RMS
		r.CrestFactor_dB = core.LinearToDB(r.CrestFactor)
	}
	return r
}
