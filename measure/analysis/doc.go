// Package analysis summarizes rendered audio: level statistics in the time
// domain and spectral shape (centroid, roll-off) from an averaged,
// Hann-windowed FFT magnitude spectrum.
package analysis
