package analysis

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// HannWindow returns a periodic Hann window of length n.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// MagnitudeSpectrum returns the one-sided magnitude spectrum of signal
// (fftSize/2 + 1 bins), averaged over Hann-windowed frames with 50%
// overlap. Signals shorter than one frame are zero padded.
func MagnitudeSpectrum(signal []float64, fftSize int) ([]float64, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("analysis: FFT size must be a power of two: %d", fftSize)
	}
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	bins := fftSize/2 + 1
	window := HannWindow(fftSize)
	frame := make([]float64, fftSize)
	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)
	re := make([]float64, bins)
	im := make([]float64, bins)
	mag := make([]float64, bins)
	acc := make([]float64, bins)

	hop := fftSize / 2
	frames := 0
	for start := 0; start == 0 || start+fftSize <= len(signal); start += hop {
		n := copy(frame, signal[start:])
		for i := n; i < fftSize; i++ {
			frame[i] = 0
		}
		vecmath.MulBlockInPlace(frame, window)
		for i, v := range frame {
			in[i] = complex(v, 0)
		}
		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("analysis: %w", err)
		}
		for k := 0; k < bins; k++ {
			re[k] = real(out[k])
			im[k] = imag(out[k])
		}
		vecmath.Magnitude(mag, re, im)
		vecmath.AddBlockInPlace(acc, mag)
		frames++
	}

	vecmath.ScaleBlock(acc, acc, 1/float64(frames))
	return acc, nil
}

func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Centroid returns the magnitude-weighted mean frequency in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}
	var sum, weighted float64
	for i, v := range magnitude {
		sum += v
		weighted += binFreq(i, sampleRate, n) * v
	}
	if sum == 0 {
		return 0
	}
	return weighted / sum
}

// Rolloff returns the frequency below which percent of the spectral
// energy (sum of squared magnitudes) lies.
func Rolloff(magnitude []float64, sampleRate, percent float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}
	var total float64
	for _, v := range magnitude {
		total += v * v
	}
	if total == 0 {
		return 0
	}
	threshold := percent * total
	var cum float64
	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}
