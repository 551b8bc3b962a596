package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Clone returns an independent copy of each channel.
func Clone(channels ...[]float64) [][]float64 {
	out := make([][]float64, len(channels))
	for i, ch := range channels {
		out[i] = append([]float64(nil), ch...)
	}
	return out
}

// RMS returns the root-mean-square level of data, or 0 for an empty slice.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}
