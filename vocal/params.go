package vocal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/cwbudde/vocal-transformer/dsp/core"
)

// ErrUnknownParam is returned when a parameter name or ID is not recognized.
var ErrUnknownParam = errors.New("vocal: unknown parameter")

// ParamID identifies one control parameter.
type ParamID int

const (
	ParamCharacter ParamID = iota
	ParamCharacterStrength
	ParamPitchShift
	ParamFormantShift
	ParamVoiceCount
	ParamDetune
	ParamReverb
	ParamDistortion
	ParamLowCut
	ParamTone

	numParams
)

// ParamKind describes how a parameter value is quantized.
type ParamKind int

const (
	// KindFloat values are continuous.
	KindFloat ParamKind = iota
	// KindInt values are rounded to the nearest integer.
	KindInt
	// KindChoice values are indices into a fixed list of names.
	KindChoice
)

// Descriptor describes one parameter's name, range and default.
type Descriptor struct {
	ID      ParamID
	Name    string
	Label   string
	Kind    ParamKind
	Min     float64
	Max     float64
	Default float64
}

var descriptors = [numParams]Descriptor{
	{ParamCharacter, "character", "Character", KindChoice, 0, float64(numCharacters - 1), 0},
	{ParamCharacterStrength, "character_strength", "Character Strength", KindFloat, 0, 1, 1},
	{ParamPitchShift, "pitch_shift", "Pitch Shift", KindFloat, -12, 12, 0},
	{ParamFormantShift, "formant_shift", "Formant Shift", KindFloat, 0, 1, 0.5},
	{ParamVoiceCount, "voice_count", "Voice Count", KindInt, 1, 4, 1},
	{ParamDetune, "detune", "Detune", KindFloat, 0, 1, 0},
	{ParamReverb, "reverb", "Reverb", KindFloat, 0, 1, 0.2},
	{ParamDistortion, "distortion", "Distortion", KindFloat, 0, 1, 0},
	{ParamLowCut, "low_cut", "Low Cut", KindFloat, 20, 1000, 20},
	{ParamTone, "tone", "Tone", KindFloat, 0, 1, 0.5},
}

// Params returns all parameter IDs in declaration order.
func Params() []ParamID {
	ids := make([]ParamID, numParams)
	for i := range ids {
		ids[i] = ParamID(i)
	}
	return ids
}

// Valid reports whether id names a parameter.
func (id ParamID) Valid() bool {
	return id >= 0 && id < numParams
}

// Descriptor returns the parameter's descriptor.
// It panics if id is not valid.
func (id ParamID) Descriptor() Descriptor {
	return descriptors[id]
}

func (id ParamID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ParamID(%d)", int(id))
	}
	return descriptors[id].Name
}

// ParseParam looks up a parameter by its name.
func ParseParam(name string) (ParamID, error) {
	name = strings.TrimSpace(name)
	for i := range descriptors {
		if descriptors[i].Name == name {
			return descriptors[i].ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// Sanitize clamps v into the parameter's range and quantizes it by kind.
func (d Descriptor) Sanitize(v float64) float64 {
	if d.Kind != KindFloat {
		v = math.Round(v)
	}
	return core.Clamp(v, d.Min, d.Max)
}

// Normalize maps v from the parameter's range to [0, 1].
func (d Descriptor) Normalize(v float64) float64 {
	return core.Normalize(v, d.Min, d.Max)
}

// Denormalize maps t in [0, 1] back into the parameter's range.
func (d Descriptor) Denormalize(t float64) float64 {
	return core.Jmap(t, d.Min, d.Max)
}

// Snapshot is a consistent per-block copy of every control value.
type Snapshot struct {
	Character      Character
	Strength       float64
	PitchSemitones float64
	FormantShift   float64
	VoiceCount     int
	Detune         float64
	ReverbWet      float64
	Distortion     float64
	LowCutHz       float64
	Tone           float64
}

// DefaultSnapshot returns the snapshot of a freshly created Store.
func DefaultSnapshot() Snapshot {
	return NewStore().Snapshot()
}

// Store is the live parameter store. Every value is held in its own atomic
// cell so reads from the audio path never block writers.
type Store struct {
	values [numParams]atomic.Uint64
}

// NewStore returns a Store holding every parameter's default value.
func NewStore() *Store {
	s := &Store{}
	s.ResetDefaults()
	return s
}

// ResetDefaults restores every parameter to its default value.
func (s *Store) ResetDefaults() {
	for i := range descriptors {
		s.store(ParamID(i), descriptors[i].Default)
	}
}

func (s *Store) store(id ParamID, v float64) {
	s.values[id].Store(math.Float64bits(v))
}

func (s *Store) load(id ParamID) float64 {
	return math.Float64frombits(s.values[id].Load())
}

// Get returns the current value of id, or 0 if id is not valid.
func (s *Store) Get(id ParamID) float64 {
	if !id.Valid() {
		return 0
	}
	return s.load(id)
}

// Set clamps v into range and stores it.
func (s *Store) Set(id ParamID, v float64) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownParam, int(id))
	}
	if math.IsNaN(v) {
		return fmt.Errorf("vocal: %s: value is NaN", id)
	}
	s.store(id, descriptors[id].Sanitize(v))
	return nil
}

// SetByName is Set addressed by parameter name.
func (s *Store) SetByName(name string, v float64) error {
	id, err := ParseParam(name)
	if err != nil {
		return err
	}
	return s.Set(id, v)
}

// SetCharacter selects a character preset.
func (s *Store) SetCharacter(c Character) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCharacter, int(c))
	}
	s.store(ParamCharacter, float64(c))
	return nil
}

// Character returns the selected character.
func (s *Store) Character() Character {
	return Character(s.load(ParamCharacter))
}

// Snapshot reads every parameter once.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Character:      Character(s.load(ParamCharacter)),
		Strength:       s.load(ParamCharacterStrength),
		PitchSemitones: s.load(ParamPitchShift),
		FormantShift:   s.load(ParamFormantShift),
		VoiceCount:     int(s.load(ParamVoiceCount)),
		Detune:         s.load(ParamDetune),
		ReverbWet:      s.load(ParamReverb),
		Distortion:     s.load(ParamDistortion),
		LowCutHz:       s.load(ParamLowCut),
		Tone:           s.load(ParamTone),
	}
}

// Values returns every parameter keyed by name.
func (s *Store) Values() map[string]float64 {
	out := make(map[string]float64, numParams)
	for i := range descriptors {
		out[descriptors[i].Name] = s.load(ParamID(i))
	}
	return out
}

// commit writes blended preset fields back through the range guards.
func (s *Store) commit(p Preset) {
	s.store(ParamPitchShift, descriptors[ParamPitchShift].Sanitize(p.PitchShift))
	s.store(ParamFormantShift, descriptors[ParamFormantShift].Sanitize(p.FormantShift))
	s.store(ParamVoiceCount, descriptors[ParamVoiceCount].Sanitize(float64(p.VoiceCount)))
	s.store(ParamDetune, descriptors[ParamDetune].Sanitize(p.Detune))
	s.store(ParamReverb, descriptors[ParamReverb].Sanitize(p.Reverb))
}
