package effects

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
)

// Gain multiplies every sample by a fixed linear factor.
type Gain struct {
	gain float64
}

// NewGain returns a Gain with the given linear factor.
func NewGain(gain float64) (*Gain, error) {
	g := &Gain{}
	if err := g.SetGain(gain); err != nil {
		return nil, err
	}
	return g, nil
}

// SetGain sets the linear factor.
func (g *Gain) SetGain(gain float64) error {
	if !core.IsFinite(gain) {
		return fmt.Errorf("gain must be finite: %f", gain)
	}
	g.gain = gain
	return nil
}

// Gain returns the linear factor.
func (g *Gain) Gain() float64 { return g.gain }

// Prepare is a no-op; Gain holds no stream state.
func (g *Gain) Prepare(core.ProcessSpec) error { return nil }

// Reset is a no-op; Gain holds no stream state.
func (g *Gain) Reset() {}

// Process scales every channel of b in place.
func (g *Gain) Process(b *buffer.Block) {
	scaleBlock(b, g.gain)
}

func scaleBlock(b *buffer.Block, gain float64) {
	if gain == 1 {
		return
	}
	for _, ch := range b.Channels() {
		vecmath.ScaleBlock(ch, ch, gain)
	}
}
