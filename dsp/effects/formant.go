package effects

import (
	"fmt"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
)

// FormantNeutral is the shift value at which FormantShifter does nothing.
const FormantNeutral = 0.5

// FormantShifter approximates a formant shift with a static gain:
// brighter (louder) above neutral, darker (quieter) below.
type FormantShifter struct {
	shift float64
}

// NewFormantShifter returns a shifter at the neutral position.
func NewFormantShifter() *FormantShifter {
	return &FormantShifter{shift: FormantNeutral}
}

// Prepare is a no-op; the shifter holds no stream state.
func (f *FormantShifter) Prepare(core.ProcessSpec) error { return nil }

// Reset is a no-op; the shifter holds no stream state.
func (f *FormantShifter) Reset() {}

// SetShift sets the shift in [0, 1]; 0.5 is neutral.
func (f *FormantShifter) SetShift(shift float64) error {
	if !core.IsFinite(shift) {
		return fmt.Errorf("formant shift must be finite: %f", shift)
	}
	f.shift = shift
	return nil
}

// Shift returns the current shift.
func (f *FormantShifter) Shift() float64 { return f.shift }

// GainFactor returns the factor applied to every sample.
func (f *FormantShifter) GainFactor() float64 {
	switch {
	case f.shift > FormantNeutral:
		return 1.0 + 0.2*(f.shift-FormantNeutral)
	case f.shift < FormantNeutral:
		return 0.8 + 0.4*f.shift
	default:
		return 1
	}
}

// Process applies the gain to b in place.
func (f *FormantShifter) Process(b *buffer.Block) {
	if f.shift == FormantNeutral {
		return
	}
	scaleBlock(b, f.GainFactor())
}
