package bf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRestore(t *testing.T) {
	m := NewMachine(32)
	require.NoError(t, m.Load(Program{Inc, Inc, MoveRight, Inc}))
	require.NoError(t, m.Run())

	snap := m.Snapshot()
	require.NotEmpty(t, snap.ID)
	require.False(t, snap.SavedAt.IsZero())

	// Disturb the machine, then roll back.
	require.NoError(t, m.Load(Program{Dec, MoveRight, Inc, Inc}))
	require.NoError(t, m.Run())

	require.NoError(t, m.Restore(snap))
	require.Equal(t, 1, m.Cursor)
	require.Equal(t, byte(2), m.Tape[0])
	require.Equal(t, byte(1), m.Tape[1])
	require.Equal(t, byte(0), m.Tape[2])
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	m := NewMachine(32)
	require.NoError(t, m.Load(Program{Inc, MoveRight, Inc, Inc, Inc}))
	require.NoError(t, m.Run())

	path := filepath.Join(t.TempDir(), "state.snap")
	snap := m.Snapshot()
	require.NoError(t, snap.SaveFile(path))

	loaded, err := LoadStateFile(path)
	require.NoError(t, err)
	require.Equal(t, snap.ID, loaded.ID)
	require.Equal(t, snap.Cursor, loaded.Cursor)
	require.Equal(t, snap.Tape, loaded.Tape)

	fresh := NewMachine(32)
	require.NoError(t, fresh.Restore(loaded))
	require.Equal(t, byte(3), fresh.Tape[1])
	require.Equal(t, 1, fresh.Cursor)
}

func TestRestoreRejectsSizeMismatch(t *testing.T) {
	small := NewMachine(8)
	big := NewMachine(16)
	err := big.Restore(small.Snapshot())
	require.ErrorContains(t, err, "8 cells")
}
