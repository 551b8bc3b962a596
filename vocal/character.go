package vocal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownCharacter is returned when a character name or index is not recognized.
var ErrUnknownCharacter = errors.New("vocal: unknown character")

// Character selects one of the built-in voice presets.
type Character int

const (
	Normal Character = iota
	Robot
	Alien
	Child
	Giant
	Elder
	Choir

	numCharacters
)

var characterNames = [numCharacters]string{
	"Normal", "Robot", "Alien", "Child", "Giant", "Elder", "Choir",
}

// Preset holds the target values a character pulls the controls toward.
type Preset struct {
	PitchShift   float64 `json:"pitch_shift"`
	FormantShift float64 `json:"formant_shift"`
	VoiceCount   int     `json:"voice_count"`
	Detune       float64 `json:"detune"`
	Reverb       float64 `json:"reverb"`
}

var presets = [numCharacters]Preset{
	Normal: {PitchShift: 0, FormantShift: 0.5, VoiceCount: 1, Detune: 0, Reverb: 0.2},
	Robot:  {PitchShift: -2, FormantShift: 0.5, VoiceCount: 1, Detune: 0, Reverb: 0.1},
	Alien:  {PitchShift: 3, FormantShift: 0.7, VoiceCount: 2, Detune: 0.7, Reverb: 0.6},
	Child:  {PitchShift: 4, FormantShift: 0.8, VoiceCount: 1, Detune: 0.2, Reverb: 0.3},
	Giant:  {PitchShift: -6, FormantShift: 0.2, VoiceCount: 1, Detune: 0, Reverb: 0.5},
	Elder:  {PitchShift: -1, FormantShift: 0.3, VoiceCount: 1, Detune: 0.3, Reverb: 0.4},
	Choir:  {PitchShift: 0, FormantShift: 0.5, VoiceCount: 4, Detune: 0.4, Reverb: 0.8},
}

// Characters returns every character in index order.
func Characters() []Character {
	out := make([]Character, numCharacters)
	for i := range out {
		out[i] = Character(i)
	}
	return out
}

// Valid reports whether c is a known character.
func (c Character) Valid() bool {
	return c >= 0 && c < numCharacters
}

func (c Character) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Character(%d)", int(c))
	}
	return characterNames[c]
}

// Preset returns the character's target values. The second result is
// false when c is not a known character.
func (c Character) Preset() (Preset, bool) {
	if !c.Valid() {
		return Preset{}, false
	}
	return presets[c], true
}

// ParseCharacter accepts a character name (case-insensitive) or its index.
func ParseCharacter(s string) (Character, error) {
	s = strings.TrimSpace(s)
	for i, name := range characterNames {
		if strings.EqualFold(name, s) {
			return Character(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Character(n).Valid() {
		return Character(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCharacter, s)
}
