// Package effects provides the per-block stages of the vocal chain.
//
// Subpackages:
//   - github.com/cwbudde/vocal-transformer/dsp/effects/pitch
//   - github.com/cwbudde/vocal-transformer/dsp/effects/reverb
//
// Stages in this package:
//   - Gain: static linear scale (input and output trim).
//   - LowCut: one-pole style low-cut approximation with per-channel memory.
//   - FormantShifter: static brightness/darkness gain standing in for formant shift.
//   - VoiceMultiplier: delayed-copy unison on one shared history line.
//   - ToneControl: one-pole tilt between low-pass and high-pass blends.
//   - Distortion: tanh soft clip with amount-driven dry/wet mix.
//
// Every stage exposes Prepare(core.ProcessSpec), Reset() and
// Process(*buffer.Block), processes in place, and never allocates in
// Process. Each has a documented neutral setting at which Process returns
// without touching the block.
//
// Building with the fastmath tag swaps the distortion's tanh for an
// approximation from github.com/meko-christian/algo-approx.
package effects
