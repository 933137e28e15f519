package bf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProgramIgnoresComments(t *testing.T) {
	prog, err := ParseProgram("read one ,\nadd two ++\nthen write .")
	require.NoError(t, err)
	require.Equal(t, Program{Read, Inc, Inc, Write}, prog)
}

func TestParseProgramAllOps(t *testing.T) {
	prog, err := ParseProgram("><+-[],.")
	require.NoError(t, err)
	require.Equal(t, Program{MoveRight, MoveLeft, Inc, Dec, LoopBegin, LoopEnd, Read, Write}, prog)
	require.Equal(t, "><+-[],.", prog.String())
}

func TestParseProgramUnbalanced(t *testing.T) {
	_, err := ParseProgram("+]")
	require.ErrorContains(t, err, "unmatched ] at byte 1")

	_, err = ParseProgram("[[-]")
	require.ErrorContains(t, err, "unmatched [ at byte 0")
}

func TestDumpWraps(t *testing.T) {
	prog := Program{Inc, Inc, Inc, Inc, Inc, Inc, Inc, Inc, Inc, Inc}
	require.Equal(t, "++++\n++++\n++", prog.Dump(4))
	require.Equal(t, "++++++++++", prog.Dump(0)[:10])
}
