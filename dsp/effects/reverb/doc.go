// Package reverb provides the algorithmic reverberator at the end of the
// vocal chain.
//
// Reverb is a Schroeder/Freeverb-style network of eight damped comb filters
// feeding four series allpasses per channel. The right channel uses combs
// and allpasses offset by a fixed stereo spread. It is configured by a
// Parameters value (room size, damping, wet and dry level, width, freeze)
// and exposes separate mono and stereo processing paths.
package reverb
