package effects

import (
	"fmt"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
)

const (
	// LowCutOffHz is the frequency at or below which LowCut does nothing.
	LowCutOffHz = 21.0

	lowCutAlphaBase  = 0.01
	lowCutAlphaSlope = 0.5
	lowCutAlphaRefHz = 1000.0
	lowCutAlphaMax   = 0.99
)

// LowCut is a one-pole style low-cut stage.
//
// The per-sample recurrence is
//
//	y = alpha * (last + x - last)
//	last = x
//
// which reduces to a scale by alpha; the carried input memory only
// contributes floating-point rounding. Memory is kept per channel.
type LowCut struct {
	frequency float64
	last      []float64
}

// NewLowCut returns a LowCut set to the off position.
func NewLowCut() *LowCut {
	return &LowCut{frequency: 20}
}

// Prepare allocates one memory cell per channel and clears them.
func (l *LowCut) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	l.last = core.EnsureLen(l.last, spec.NumChannels)
	l.Reset()
	return nil
}

// Reset clears the per-channel memory.
func (l *LowCut) Reset() {
	core.Zero(l.last)
}

// SetFrequency sets the cutoff in Hz. Values at or below LowCutOffHz
// switch the stage off.
func (l *LowCut) SetFrequency(hz float64) error {
	if !core.IsFinite(hz) {
		return fmt.Errorf("low cut frequency must be finite: %f", hz)
	}
	l.frequency = hz
	return nil
}

// Frequency returns the cutoff in Hz.
func (l *LowCut) Frequency() float64 { return l.frequency }

// Alpha returns the coefficient derived from the current frequency.
func (l *LowCut) Alpha() float64 {
	alpha := lowCutAlphaBase + lowCutAlphaSlope*(l.frequency/lowCutAlphaRefHz)
	if alpha > lowCutAlphaMax {
		alpha = lowCutAlphaMax
	}
	return alpha
}

// Process filters b in place. Channels beyond the prepared count are left untouched.
func (l *LowCut) Process(b *buffer.Block) {
	if l.frequency <= LowCutOffHz {
		return
	}
	alpha := l.Alpha()
	n := b.NumChannels()
	if len(l.last) < n {
		n = len(l.last)
	}
	for ch := 0; ch < n; ch++ {
		data := b.Channel(ch)
		last := l.last[ch]
		for i, x := range data {
			data[i] = alpha * (last + x - last)
			last = x
		}
		l.last[ch] = last
	}
}
