package vocal

import "github.com/cwbudde/vocal-transformer/dsp/core"

// Blend moves current toward target by strength.
//
// Continuous fields are interpolated in their normalized [0, 1] range and
// mapped back. VoiceCount is interpolated in voices and truncated toward
// zero. Strength is clamped to [0, 1]; 1 returns the target exactly.
func Blend(current, target Preset, strength float64) Preset {
	s := core.Clamp(strength, 0, 1)
	return Preset{
		PitchShift:   blendParam(ParamPitchShift, current.PitchShift, target.PitchShift, s),
		FormantShift: blendParam(ParamFormantShift, current.FormantShift, target.FormantShift, s),
		VoiceCount:   int(core.Jmap(s, float64(current.VoiceCount), float64(target.VoiceCount))),
		Detune:       blendParam(ParamDetune, current.Detune, target.Detune, s),
		Reverb:       blendParam(ParamReverb, current.Reverb, target.Reverb, s),
	}
}

func blendParam(id ParamID, current, target, strength float64) float64 {
	if strength == 1 {
		return target
	}
	d := descriptors[id]
	return d.Denormalize(core.Jmap(strength, d.Normalize(current), d.Normalize(target)))
}

func (s Snapshot) presetFields() Preset {
	return Preset{
		PitchShift:   s.PitchSemitones,
		FormantShift: s.FormantShift,
		VoiceCount:   s.VoiceCount,
		Detune:       s.Detune,
		Reverb:       s.ReverbWet,
	}
}

func (s *Snapshot) applyPreset(p Preset) {
	s.PitchSemitones = p.PitchShift
	s.FormantShift = p.FormantShift
	s.VoiceCount = p.VoiceCount
	s.Detune = p.Detune
	s.ReverbWet = p.Reverb
}
