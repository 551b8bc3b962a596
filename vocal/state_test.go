package vocal

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	src := NewStore()
	_ = src.SetCharacter(Elder)
	_ = src.Set(ParamCharacterStrength, 0.35)
	_ = src.Set(ParamLowCut, 180)
	_ = src.Set(ParamVoiceCount, 3)

	var buf bytes.Buffer
	if err := SaveState(&buf, src); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	dst := NewStore()
	if err := LoadState(&buf, dst); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got, want := dst.Snapshot(), src.Snapshot(); got != want {
		t.Fatalf("restored snapshot = %+v, want %+v", got, want)
	}
}

func TestLoadStatePartialAndClamped(t *testing.T) {
	s := NewStore()
	in := `{"version": 1, "params": {"tone": 0.9, "pitch_shift": 40}}`
	if err := LoadState(strings.NewReader(in), s); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got := s.Get(ParamTone); got != 0.9 {
		t.Fatalf("tone = %v, want 0.9", got)
	}
	if got := s.Get(ParamPitchShift); got != 12 {
		t.Fatalf("pitch_shift = %v, want clamped 12", got)
	}
	if got := s.Get(ParamReverb); got != 0.2 {
		t.Fatalf("reverb = %v, want untouched default 0.2", got)
	}
}

func TestLoadStateRejectsUnknownNames(t *testing.T) {
	s := NewStore()
	in := `{"version": 1, "params": {"tone": 0.9, "wah": 1}}`
	err := LoadState(strings.NewReader(in), s)
	if !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("LoadState() error = %v, want ErrUnknownParam", err)
	}
	if got := s.Get(ParamTone); got != 0.5 {
		t.Fatalf("tone = %v; rejected state must not be applied", got)
	}
}

func TestLoadStateRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"version": 2, "params": {}}`,
	} {
		if err := LoadState(strings.NewReader(in), NewStore()); err == nil {
			t.Fatalf("LoadState(%q) returned nil error", in)
		}
	}
}
