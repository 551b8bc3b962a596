// Package vocal assembles the character voice pipeline.
//
// A [Store] holds the live control values and is safe for concurrent use by
// a control goroutine while the audio goroutine calls [Pipeline.Process].
// Each block the pipeline takes one [Snapshot] of the store, optionally
// nudges five parameters toward the selected [Character] preset with
// [Blend], writes the blended values back, and then runs its stages in a
// fixed order:
//
//	input gain -> low cut -> pitch wobble -> formant -> voices
//	-> tone -> distortion -> reverb -> output gain
//
// Only mono and stereo layouts with matching input and output channel
// counts are supported.
package vocal
