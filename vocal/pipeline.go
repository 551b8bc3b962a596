package vocal

import (
	"errors"
	"fmt"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
	"github.com/cwbudde/vocal-transformer/dsp/effects"
	"github.com/cwbudde/vocal-transformer/dsp/effects/pitch"
	"github.com/cwbudde/vocal-transformer/dsp/effects/reverb"
)

var (
	// ErrUnsupportedLayout is returned for anything other than matching
	// mono or stereo input and output.
	ErrUnsupportedLayout = errors.New("vocal: unsupported channel layout")
	// ErrNotPrepared is returned by Process before a successful Prepare.
	ErrNotPrepared = errors.New("vocal: pipeline not prepared")
)

const (
	defaultInputGain  = 0.9
	defaultOutputGain = 1.0

	reverbRoomSize = 0.5
	reverbDamping  = 0.5
	reverbWidth    = 1.0
	reverbDryDuck  = 0.5
)

// SupportsLayout reports whether the pipeline can run with the given
// input and output channel counts.
func SupportsLayout(inputs, outputs int) bool {
	return inputs == outputs && (inputs == 1 || inputs == 2)
}

type config struct {
	inputGain  float64
	outputGain float64
	store      *Store
}

// Option configures a Pipeline.
type Option func(*config) error

// WithInputGain sets the linear gain applied before the first stage.
func WithInputGain(gain float64) Option {
	return func(c *config) error {
		if !core.IsFinite(gain) {
			return fmt.Errorf("vocal: input gain must be finite: %f", gain)
		}
		c.inputGain = gain
		return nil
	}
}

// WithOutputGain sets the linear gain applied after the reverb.
func WithOutputGain(gain float64) Option {
	return func(c *config) error {
		if !core.IsFinite(gain) {
			return fmt.Errorf("vocal: output gain must be finite: %f", gain)
		}
		c.outputGain = gain
		return nil
	}
}

// WithStore makes the pipeline read its controls from s, so a control
// goroutine holding s can steer it.
func WithStore(s *Store) Option {
	return func(c *config) error {
		if s == nil {
			return errors.New("vocal: store must not be nil")
		}
		c.store = s
		return nil
	}
}

// Pipeline owns one instance of every stage and runs them in order.
// A Pipeline is not safe for concurrent Process calls; its Store is.
type Pipeline struct {
	store *Store

	inputGain  *effects.Gain
	lowCut     *effects.LowCut
	pitch      *pitch.WobbleShifter
	formant    *effects.FormantShifter
	voices     *effects.VoiceMultiplier
	tone       *effects.ToneControl
	distortion *effects.Distortion
	reverb     *reverb.Reverb
	outputGain *effects.Gain

	spec     core.ProcessSpec
	prepared bool
}

// New builds an unprepared pipeline.
func New(opts ...Option) (*Pipeline, error) {
	cfg := config{
		inputGain:  defaultInputGain,
		outputGain: defaultOutputGain,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.store == nil {
		cfg.store = NewStore()
	}

	in, err := effects.NewGain(cfg.inputGain)
	if err != nil {
		return nil, fmt.Errorf("vocal: %w", err)
	}
	out, err := effects.NewGain(cfg.outputGain)
	if err != nil {
		return nil, fmt.Errorf("vocal: %w", err)
	}
	spec := core.DefaultProcessSpec()
	rev, err := reverb.New(spec.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("vocal: %w", err)
	}

	return &Pipeline{
		store:      cfg.store,
		inputGain:  in,
		lowCut:     effects.NewLowCut(),
		pitch:      pitch.NewWobbleShifter(),
		formant:    effects.NewFormantShifter(),
		voices:     effects.NewVoiceMultiplier(),
		tone:       effects.NewToneControl(),
		distortion: effects.NewDistortion(),
		reverb:     rev,
		outputGain: out,
		spec:       spec,
	}, nil
}

// Store returns the pipeline's parameter store.
func (p *Pipeline) Store() *Store { return p.store }

// Spec returns the spec of the last successful Prepare.
func (p *Pipeline) Spec() core.ProcessSpec { return p.spec }

// Prepared reports whether Process may be called.
func (p *Pipeline) Prepared() bool { return p.prepared }

// TailLengthSeconds reports how long the output rings after the input
// stops. The reverb tail is not reported.
func (p *Pipeline) TailLengthSeconds() float64 { return 0 }

// Prepare sizes every stage for spec and clears all stream state.
// It must be called before the first Process and whenever the sample
// rate or channel count changes.
func (p *Pipeline) Prepare(spec core.ProcessSpec) error {
	p.prepared = false
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("vocal: %w", err)
	}
	if !SupportsLayout(spec.NumChannels, spec.NumChannels) {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, spec.NumChannels)
	}

	stages := []interface{ Prepare(core.ProcessSpec) error }{
		p.inputGain, p.lowCut, p.pitch, p.formant,
		p.voices, p.tone, p.distortion, p.outputGain,
	}
	for _, s := range stages {
		if err := s.Prepare(spec); err != nil {
			return fmt.Errorf("vocal: %w", err)
		}
	}
	if err := p.reverb.SetSampleRate(spec.SampleRate); err != nil {
		return fmt.Errorf("vocal: %w", err)
	}

	p.spec = spec
	p.Reset()
	p.prepared = true
	return nil
}

// Reset clears stage state without resizing anything.
func (p *Pipeline) Reset() {
	p.inputGain.Reset()
	p.lowCut.Reset()
	p.pitch.Reset()
	p.formant.Reset()
	p.voices.Reset()
	p.tone.Reset()
	p.distortion.Reset()
	p.reverb.Reset()
	p.outputGain.Reset()
}

// Process runs one block through every stage in place.
func (p *Pipeline) Process(b *buffer.Block) error {
	return p.ProcessInputs(b, b.NumChannels())
}

// ProcessInputs is Process for a block whose first numInputs channels
// carry input. The remaining channels are cleared before processing.
func (p *Pipeline) ProcessInputs(b *buffer.Block, numInputs int) error {
	if !p.prepared {
		return ErrNotPrepared
	}
	ch := b.NumChannels()
	if ch < 1 || ch > 2 || ch > p.spec.NumChannels || numInputs < 0 || numInputs > ch {
		return fmt.Errorf("%w: %d in, %d out", ErrUnsupportedLayout, numInputs, ch)
	}
	for i := numInputs; i < ch; i++ {
		b.ClearChannel(i)
	}

	snap := p.store.Snapshot()
	if snap.Character != Normal && snap.Strength > 0 {
		if target, ok := snap.Character.Preset(); ok {
			blended := Blend(snap.presetFields(), target, snap.Strength)
			p.store.commit(blended)
			snap.applyPreset(blended)
		}
	}

	if err := p.configure(&snap); err != nil {
		return fmt.Errorf("vocal: %w", err)
	}

	p.inputGain.Process(b)
	p.lowCut.Process(b)
	p.pitch.Process(b)
	p.formant.Process(b)
	p.voices.Process(b)
	p.tone.Process(b)
	p.distortion.Process(b)
	if ch == 1 {
		p.reverb.ProcessMono(b.Channel(0))
	} else {
		p.reverb.ProcessStereo(b.Channel(0), b.Channel(1))
	}
	p.outputGain.Process(b)
	return nil
}

// configure pushes the snapshot into the stages. Store values are
// clamped, so an error here means the snapshot was built by hand.
func (p *Pipeline) configure(s *Snapshot) error {
	p.voices.SetVoiceCount(s.VoiceCount)
	for _, err := range [...]error{
		p.lowCut.SetFrequency(s.LowCutHz),
		p.pitch.SetSemitones(s.PitchSemitones),
		p.formant.SetShift(s.FormantShift),
		p.voices.SetDetune(s.Detune),
		p.tone.SetAmount(s.Tone),
		p.distortion.SetAmount(s.Distortion),
	} {
		if err != nil {
			return err
		}
	}
	p.reverb.SetParameters(reverb.Parameters{
		RoomSize: reverbRoomSize,
		Damping:  reverbDamping,
		WetLevel: s.ReverbWet,
		DryLevel: 1 - s.ReverbWet*reverbDryDuck,
		Width:    reverbWidth,
	})
	return nil
}
