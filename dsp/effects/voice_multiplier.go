package effects

import (
	"fmt"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
	"github.com/cwbudde/vocal-transformer/dsp/delay"
)

const (
	// MinVoices and MaxVoices bound the voice count.
	MinVoices = 1
	MaxVoices = 4

	voiceHistorySeconds = 0.05
	voiceDelayScale     = 10.0
	voiceMixGain        = 0.7
)

// VoiceMultiplier fattens a signal by summing delayed copies of it.
//
// All channels share one history line. Each channel first writes its whole
// block into the line, then every extra voice v adds
//
//	line[cursor - floor(10*detune*v) - i] * 0.7/voiceCount
//
// to output sample i. Reads are relative to the post-write cursor, so with
// more than one channel the cursor advances once per sample per channel.
type VoiceMultiplier struct {
	line       *delay.Line
	voiceCount int
	detune     float64
}

// NewVoiceMultiplier returns a single-voice (bypassed) multiplier.
func NewVoiceMultiplier() *VoiceMultiplier {
	return &VoiceMultiplier{voiceCount: MinVoices}
}

// Prepare sizes the history line to 50 ms at the spec's sample rate and clears it.
func (v *VoiceMultiplier) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	size := int(spec.SampleRate * voiceHistorySeconds)
	if size < 1 {
		return fmt.Errorf("voice multiplier: sample rate too low for history line: %f", spec.SampleRate)
	}
	if v.line == nil {
		line, err := delay.New(size)
		if err != nil {
			return fmt.Errorf("voice multiplier: %w", err)
		}
		v.line = line
		return nil
	}
	return v.line.Resize(size)
}

// Reset zero-fills the history line and rewinds its cursor.
func (v *VoiceMultiplier) Reset() {
	if v.line != nil {
		v.line.Reset()
	}
}

// SetVoiceCount sets the number of voices, clamped to [MinVoices, MaxVoices].
func (v *VoiceMultiplier) SetVoiceCount(n int) {
	v.voiceCount = core.ClampInt(n, MinVoices, MaxVoices)
}

// VoiceCount returns the number of voices.
func (v *VoiceMultiplier) VoiceCount() int { return v.voiceCount }

// SetDetune sets the per-voice delay scale in [0, 1].
func (v *VoiceMultiplier) SetDetune(detune float64) error {
	if !core.IsFinite(detune) {
		return fmt.Errorf("voice multiplier detune must be finite: %f", detune)
	}
	v.detune = detune
	return nil
}

// Detune returns the per-voice delay scale.
func (v *VoiceMultiplier) Detune() float64 { return v.detune }

// HistoryLen returns the history line length in samples, or 0 before Prepare.
func (v *VoiceMultiplier) HistoryLen() int {
	if v.line == nil {
		return 0
	}
	return v.line.Len()
}

// Cursor returns the history line's write position.
func (v *VoiceMultiplier) Cursor() int {
	if v.line == nil {
		return 0
	}
	return v.line.Cursor()
}

// Process adds the extra voices to b in place.
func (v *VoiceMultiplier) Process(b *buffer.Block) {
	if v.voiceCount <= 1 || v.line == nil {
		return
	}
	gain := voiceMixGain / float64(v.voiceCount)
	for _, data := range b.Channels() {
		for _, x := range data {
			v.line.Write(x)
		}
		for voice := 1; voice < v.voiceCount; voice++ {
			delaySamples := int(voiceDelayScale * v.detune * float64(voice))
			for i := range data {
				data[i] += v.line.Read(delaySamples+i) * gain
			}
		}
	}
}
