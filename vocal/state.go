package vocal

import (
	"encoding/json"
	"fmt"
	"io"
)

const stateVersion = 1

type stateFile struct {
	Version int                `json:"version"`
	Params  map[string]float64 `json:"params"`
}

// SaveState writes every parameter of s to w as JSON.
func SaveState(w io.Writer, s *Store) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stateFile{Version: stateVersion, Params: s.Values()}); err != nil {
		return fmt.Errorf("vocal: save state: %w", err)
	}
	return nil
}

// LoadState reads JSON written by SaveState into s. Parameters missing
// from the input keep their current values. Unknown names are rejected
// before anything is written.
func LoadState(r io.Reader, s *Store) error {
	var st stateFile
	if err := json.NewDecoder(r).Decode(&st); err != nil {
		return fmt.Errorf("vocal: load state: %w", err)
	}
	if st.Version != stateVersion {
		return fmt.Errorf("vocal: load state: unsupported version %d", st.Version)
	}

	ids := make(map[ParamID]float64, len(st.Params))
	for name, v := range st.Params {
		id, err := ParseParam(name)
		if err != nil {
			return fmt.Errorf("vocal: load state: %w", err)
		}
		ids[id] = v
	}
	for id, v := range ids {
		if err := s.Set(id, v); err != nil {
			return fmt.Errorf("vocal: load state: %w", err)
		}
	}
	return nil
}
