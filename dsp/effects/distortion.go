package effects

import (
	"fmt"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
)

const (
	// DistortionBypassAmount is the amount at or below which Distortion does nothing.
	DistortionBypassAmount = 0.001

	distortionDriveRange = 20.0
)

// Distortion is a tanh soft clipper with a dry/wet crossfade driven by a
// single amount: drive = 1 + 20*amount and mix = amount.
type Distortion struct {
	amount float64
}

// NewDistortion returns a bypassed distortion.
func NewDistortion() *Distortion {
	return &Distortion{}
}

// Prepare is a no-op; the waveshaper is memoryless.
func (d *Distortion) Prepare(core.ProcessSpec) error { return nil }

// Reset is a no-op; the waveshaper is memoryless.
func (d *Distortion) Reset() {}

// SetAmount sets the amount in [0, 1].
func (d *Distortion) SetAmount(amount float64) error {
	if !core.IsFinite(amount) {
		return fmt.Errorf("distortion amount must be finite: %f", amount)
	}
	d.amount = amount
	return nil
}

// Amount returns the current amount.
func (d *Distortion) Amount() float64 { return d.amount }

// Drive returns the input drive derived from the amount.
func (d *Distortion) Drive() float64 {
	return 1 + distortionDriveRange*d.amount
}

// ProcessSample shapes one sample. It ignores the bypass threshold.
func (d *Distortion) ProcessSample(x float64) float64 {
	distorted := mathTanh(x * d.Drive())
	return x*(1-d.amount) + distorted*d.amount
}

// Process shapes b in place.
func (d *Distortion) Process(b *buffer.Block) {
	if d.amount <= DistortionBypassAmount {
		return
	}
	drive := d.Drive()
	wet := d.amount
	dry := 1 - wet
	for _, data := range b.Channels() {
		for i, x := range data {
			data[i] = x*dry + mathTanh(x*drive)*wet
		}
	}
}
