package vocal

import (
	"errors"
	"math"
	"testing"
)

func TestDefaults(t *testing.T) {
	want := Snapshot{
		Character:      Normal,
		Strength:       1,
		PitchSemitones: 0,
		FormantShift:   0.5,
		VoiceCount:     1,
		Detune:         0,
		ReverbWet:      0.2,
		Distortion:     0,
		LowCutHz:       20,
		Tone:           0.5,
	}
	if got := DefaultSnapshot(); got != want {
		t.Fatalf("DefaultSnapshot() = %+v, want %+v", got, want)
	}
}

func TestDescriptorsAreIndexedByID(t *testing.T) {
	for _, id := range Params() {
		d := id.Descriptor()
		if d.ID != id {
			t.Fatalf("descriptor for %d has ID %d", id, d.ID)
		}
		if d.Default < d.Min || d.Default > d.Max {
			t.Fatalf("%s default %v outside [%v, %v]", d.Name, d.Default, d.Min, d.Max)
		}
		got, err := ParseParam(d.Name)
		if err != nil || got != id {
			t.Fatalf("ParseParam(%q) = %v, %v", d.Name, got, err)
		}
	}
}

func TestStoreSetSanitizes(t *testing.T) {
	tests := []struct {
		name string
		id   ParamID
		in   float64
		want float64
	}{
		{"pitch above range", ParamPitchShift, 20, 12},
		{"pitch below range", ParamPitchShift, -13, -12},
		{"low cut floor", ParamLowCut, 5, 20},
		{"voice count rounds up", ParamVoiceCount, 2.6, 3},
		{"voice count rounds down", ParamVoiceCount, 2.4, 2},
		{"voice count clamps", ParamVoiceCount, 9, 4},
		{"character rounds", ParamCharacter, 3.7, 4},
		{"character clamps", ParamCharacter, 42, 6},
		{"tone in range", ParamTone, 0.75, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			if err := s.Set(tt.id, tt.in); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if got := s.Get(tt.id); got != tt.want {
				t.Fatalf("Get() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	s := NewStore()
	if err := s.Set(numParams, 1); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("Set(invalid id) error = %v, want ErrUnknownParam", err)
	}
	if err := s.SetByName("gain", 1); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("SetByName(gain) error = %v, want ErrUnknownParam", err)
	}
	if err := s.Set(ParamTone, math.NaN()); err == nil {
		t.Fatal("Set(NaN) returned nil error")
	}
	if got := s.Get(ParamTone); got != 0.5 {
		t.Fatalf("tone changed to %v after rejected writes", got)
	}
	if err := s.SetCharacter(Character(-1)); !errors.Is(err, ErrUnknownCharacter) {
		t.Fatalf("SetCharacter(-1) error = %v, want ErrUnknownCharacter", err)
	}
}

func TestStoreSnapshotReflectsWrites(t *testing.T) {
	s := NewStore()
	if err := s.SetCharacter(Giant); err != nil {
		t.Fatal(err)
	}
	if err := s.SetByName("voice_count", 3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetByName("low_cut", 250); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.Character != Giant || snap.VoiceCount != 3 || snap.LowCutHz != 250 {
		t.Fatalf("Snapshot() = %+v", snap)
	}
	if s.Character() != Giant {
		t.Fatalf("Character() = %v, want Giant", s.Character())
	}
}

func TestStoreValuesAndReset(t *testing.T) {
	s := NewStore()
	_ = s.Set(ParamDistortion, 0.4)

	vals := s.Values()
	if len(vals) != int(numParams) {
		t.Fatalf("len(Values()) = %d, want %d", len(vals), numParams)
	}
	if vals["distortion"] != 0.4 {
		t.Fatalf(`Values()["distortion"] = %v, want 0.4`, vals["distortion"])
	}

	s.ResetDefaults()
	if got := s.Get(ParamDistortion); got != 0 {
		t.Fatalf("distortion after ResetDefaults = %v, want 0", got)
	}
}

func TestParamIDString(t *testing.T) {
	if got := ParamFormantShift.String(); got != "formant_shift" {
		t.Fatalf("String() = %q", got)
	}
	if got := ParamID(99).String(); got != "ParamID(99)" {
		t.Fatalf("String() = %q", got)
	}
}
