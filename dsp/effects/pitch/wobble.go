package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
)

const (
	wobbleBias      = 0.8
	wobbleDepth     = 0.2
	wobbleRateScale = 0.1
	wobblePhaseWrap = 1000.0
)

// WobbleShifter stands in for a pitch shifter by amplitude-modulating the
// signal at a rate proportional to the pitch ratio:
//
//	x *= 0.8 + 0.2*sin(phase)
//	phase += ratio * 0.1
//
// The phase wraps by 1000 (not 2π) and is carried across channels and
// blocks. The modulation depth is fixed, so even a ratio of 1 changes the
// signal.
type WobbleShifter struct {
	ratio          float64
	phase          float64
	phaseIncrement float64
}

// NewWobbleShifter returns a shifter at unity ratio.
func NewWobbleShifter() *WobbleShifter {
	w := &WobbleShifter{ratio: 1}
	w.Reset()
	return w
}

// SemitonesToRatio converts a pitch offset in semitones to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// Prepare resets the modulator; the stage does not depend on sample rate.
func (w *WobbleShifter) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	w.Reset()
	return nil
}

// Reset rewinds the phase and restores a unit increment.
func (w *WobbleShifter) Reset() {
	w.phase = 0
	w.phaseIncrement = 1
}

// SetPitchRatio sets the ratio and the phase increment with it.
func (w *WobbleShifter) SetPitchRatio(ratio float64) error {
	if ratio <= 0 || !core.IsFinite(ratio) {
		return fmt.Errorf("pitch ratio must be > 0 and finite: %f", ratio)
	}
	w.ratio = ratio
	w.phaseIncrement = ratio
	return nil
}

// SetSemitones sets the ratio from a semitone offset.
func (w *WobbleShifter) SetSemitones(semitones float64) error {
	return w.SetPitchRatio(SemitonesToRatio(semitones))
}

// PitchRatio returns the current ratio.
func (w *WobbleShifter) PitchRatio() float64 { return w.ratio }

// Phase returns the modulator phase.
func (w *WobbleShifter) Phase() float64 { return w.phase }

// Process modulates b in place, channel after channel, with one running phase.
func (w *WobbleShifter) Process(b *buffer.Block) {
	step := w.phaseIncrement * wobbleRateScale
	phase := w.phase
	for _, data := range b.Channels() {
		for i := range data {
			data[i] *= wobbleBias + wobbleDepth*math.Sin(phase)
			phase += step
			if phase > wobblePhaseWrap {
				phase -= wobblePhaseWrap
			}
		}
	}
	w.phase = phase
}
