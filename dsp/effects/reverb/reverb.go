package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/vocal-transformer/dsp/core"
)

const (
	numCombs     = 8
	numAllpasses = 4
	stereoSpread = 23

	referenceSampleRate = 44100.0

	fixedGain         = 0.015
	wetScale          = 3.0
	dryScale          = 2.0
	roomScale         = 0.28
	roomOffset        = 0.7
	dampScale         = 0.4
	allpassFeedback   = 0.5
	freezeThreshold   = 0.5
	combDenormalFloor = 1e-23
)

// Legacy tuning values calibrated for 44.1 kHz.
var (
	combTunings    = [numCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = [numAllpasses]int{556, 441, 341, 225}
)

// Parameters configures a Reverb. All fields are in [0, 1].
type Parameters struct {
	RoomSize   float64
	Damping    float64
	WetLevel   float64
	DryLevel   float64
	Width      float64
	FreezeMode float64
}

// DefaultParameters returns the reverb's power-on settings.
func DefaultParameters() Parameters {
	return Parameters{
		RoomSize: 0.5,
		Damping:  0.5,
		WetLevel: 0.33,
		DryLevel: 0.4,
		Width:    1.0,
	}
}

// Reverb is a stereo Schroeder/Freeverb-style reverb.
type Reverb struct {
	params Parameters

	gain     float64
	wetGain1 float64
	wetGain2 float64
	dryGain  float64
	feedback float64
	damping  float64

	combs   [2][numCombs]comb
	allpass [2][numAllpasses]allpass
}

type allpass struct {
	buffer []float64
	index  int
}

func (a *allpass) setSize(size int) {
	if size < 1 {
		size = 1
	}
	if size <= cap(a.buffer) {
		a.buffer = a.buffer[:size]
	} else {
		a.buffer = make([]float64, size)
	}
	a.reset()
}

func (a *allpass) process(input float64) float64 {
	buffered := a.buffer[a.index]
	a.buffer[a.index] = input + buffered*allpassFeedback
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return buffered - input
}

func (a *allpass) reset() {
	core.Zero(a.buffer)
	a.index = 0
}

type comb struct {
	filterStore float64
	buffer      []float64
	index       int
}

func (c *comb) setSize(size int) {
	if size < 1 {
		size = 1
	}
	if size <= cap(c.buffer) {
		c.buffer = c.buffer[:size]
	} else {
		c.buffer = make([]float64, size)
	}
	c.reset()
}

func (c *comb) process(input, damp, feedback float64) float64 {
	output := c.buffer[c.index]
	c.filterStore = output*(1-damp) + c.filterStore*damp
	if math.Abs(c.filterStore) < combDenormalFloor {
		c.filterStore = 0
	}
	c.buffer[c.index] = input + c.filterStore*feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return output
}

func (c *comb) reset() {
	core.Zero(c.buffer)
	c.index = 0
	c.filterStore = 0
}

// New constructs a reverb tuned for sampleRate with default parameters.
func New(sampleRate float64) (*Reverb, error) {
	r := &Reverb{}
	if err := r.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}
	r.SetParameters(DefaultParameters())
	return r, nil
}

// SetSampleRate resizes the delay network for sampleRate and clears it.
func (r *Reverb) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("reverb sample rate must be > 0 and finite: %f", sampleRate)
	}
	scale := sampleRate / referenceSampleRate
	for i := 0; i < numCombs; i++ {
		r.combs[0][i].setSize(int(float64(combTunings[i]) * scale))
		r.combs[1][i].setSize(int(float64(combTunings[i]+stereoSpread) * scale))
	}
	for i := 0; i < numAllpasses; i++ {
		r.allpass[0][i].setSize(int(float64(allpassTunings[i]) * scale))
		r.allpass[1][i].setSize(int(float64(allpassTunings[i]+stereoSpread) * scale))
	}
	return nil
}

// SetParameters updates all parameters. Cheap enough to call every block.
func (r *Reverb) SetParameters(p Parameters) {
	r.params = p
	wet := p.WetLevel * wetScale
	r.wetGain1 = 0.5 * wet * (1 + p.Width)
	r.wetGain2 = 0.5 * wet * (1 - p.Width)
	r.dryGain = p.DryLevel * dryScale

	if p.FreezeMode >= freezeThreshold {
		r.gain = 0
		r.feedback = 1
		r.damping = 0
		return
	}
	r.gain = fixedGain
	r.feedback = p.RoomSize*roomScale + roomOffset
	r.damping = p.Damping * dampScale
}

// Parameters returns the current parameters.
func (r *Reverb) Parameters() Parameters { return r.params }

// Reset clears all delay/filter state.
func (r *Reverb) Reset() {
	for ch := range r.combs {
		for i := range r.combs[ch] {
			r.combs[ch][i].reset()
		}
		for i := range r.allpass[ch] {
			r.allpass[ch][i].reset()
		}
	}
}

// ProcessMono applies the mono path to buf in place.
func (r *Reverb) ProcessMono(buf []float64) {
	combs := &r.combs[0]
	aps := &r.allpass[0]
	for i, in := range buf {
		x := in * r.gain
		var acc float64
		for j := range combs {
			acc += combs[j].process(x, r.damping, r.feedback)
		}
		for j := range aps {
			acc = aps[j].process(acc)
		}
		buf[i] = acc*r.wetGain1 + in*r.dryGain
	}
}

// ProcessStereo applies the stereo path to left and right in place.
// Only the common prefix of the two slices is processed.
func (r *Reverb) ProcessStereo(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		inL, inR := left[i], right[i]
		x := (inL + inR) * r.gain

		var outL, outR float64
		for j := 0; j < numCombs; j++ {
			outL += r.combs[0][j].process(x, r.damping, r.feedback)
			outR += r.combs[1][j].process(x, r.damping, r.feedback)
		}
		for j := 0; j < numAllpasses; j++ {
			outL = r.allpass[0][j].process(outL)
			outR = r.allpass[1][j].process(outR)
		}

		left[i] = outL*r.wetGain1 + outR*r.wetGain2 + inL*r.dryGain
		right[i] = outR*r.wetGain1 + outL*r.wetGain2 + inR*r.dryGain
	}
}
