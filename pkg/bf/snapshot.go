package bf

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// State is a restorable capture of a machine's tape and cursor. The loaded
// program is deliberately not part of the state; a restored machine picks up
// whatever program its caller loads next.
type State struct {
	ID      string
	SavedAt time.Time
	Tape    []byte
	Cursor  int
}

// Snapshot captures the current tape and cursor under a fresh identity.
func (m *Machine) Snapshot() State {
	tape := make([]byte, len(m.Tape))
	copy(tape, m.Tape)
	return State{
		ID:      uuid.NewString(),
		SavedAt: time.Now(),
		Tape:    tape,
		Cursor:  m.Cursor,
	}
}

// Restore applies a saved state to the machine. The snapshot's tape must be
// the same size as the machine's.
func (m *Machine) Restore(s State) error {
	if len(s.Tape) != len(m.Tape) {
		return fmt.Errorf("snapshot tape is %d cells, machine has %d", len(s.Tape), len(m.Tape))
	}
	if s.Cursor < 0 || s.Cursor >= len(m.Tape) {
		return fmt.Errorf("snapshot cursor %d is outside the tape", s.Cursor)
	}
	copy(m.Tape, s.Tape)
	m.Cursor = s.Cursor
	return nil
}

// Save gob-encodes the state.
func (s State) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// LoadState decodes a state written by Save.
func LoadState(r io.Reader) (State, error) {
	var s State
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// SaveFile writes the state to the given path.
func (s State) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadStateFile reads a state written by SaveFile.
func LoadStateFile(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return State{}, err
	}
	defer f.Close()
	return LoadState(f)
}
