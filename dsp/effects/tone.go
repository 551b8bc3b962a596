package effects

import (
	"fmt"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
)

const (
	toneNeutralLow  = 0.49
	toneNeutralHigh = 0.51
	toneCenter      = 0.5
	toneHighPassK   = 0.8
	toneLowPassIn   = 0.2
	toneLowPassMem  = 0.8
)

// ToneControl tilts the spectrum with a one-pole shelf approximation.
// Above the centre it blends in a first-difference high pass, below it a
// one-pole low pass. The memory holds the previous output, one cell per channel.
type ToneControl struct {
	amount float64
	last   []float64
}

// NewToneControl returns a tone control at the neutral position.
func NewToneControl() *ToneControl {
	return &ToneControl{amount: toneCenter}
}

// Prepare allocates one memory cell per channel and clears them.
func (t *ToneControl) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	t.last = core.EnsureLen(t.last, spec.NumChannels)
	t.Reset()
	return nil
}

// Reset clears the per-channel memory.
func (t *ToneControl) Reset() {
	core.Zero(t.last)
}

// SetAmount sets the tone position in [0, 1].
func (t *ToneControl) SetAmount(amount float64) error {
	if !core.IsFinite(amount) {
		return fmt.Errorf("tone amount must be finite: %f", amount)
	}
	t.amount = amount
	return nil
}

// Amount returns the tone position.
func (t *ToneControl) Amount() float64 { return t.amount }

// Process filters b in place. Channels beyond the prepared count are left untouched.
func (t *ToneControl) Process(b *buffer.Block) {
	if t.amount > toneNeutralLow && t.amount < toneNeutralHigh {
		return
	}
	n := b.NumChannels()
	if len(t.last) < n {
		n = len(t.last)
	}
	for ch := 0; ch < n; ch++ {
		data := b.Channel(ch)
		last := t.last[ch]
		if t.amount > toneCenter {
			high := (t.amount - toneCenter) * 2
			for i, x := range data {
				hp := toneHighPassK * (x - last)
				last = x*(1-high) + hp*high
				data[i] = last
			}
		} else {
			low := (toneCenter - t.amount) * 2
			for i, x := range data {
				lp := toneLowPassIn*x + toneLowPassMem*last
				last = x*(1-low) + lp*low
				data[i] = last
			}
		}
		t.last[ch] = core.FlushDenormals(last)
	}
}
