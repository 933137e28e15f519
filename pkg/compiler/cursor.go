package compiler

import "bfc/pkg/bf"

// Cursor tracks, at compile time, the cell the generated code's tape pointer
// will be on. Every pointer move the generator emits comes out of MoveTo or
// Shift, so the tracked position cannot drift from the machine's. Loop
// bodies must net to zero movement, which the statement lowerings arrange by
// opening and closing every bracket on the same tracked cell.
type Cursor struct {
	pos int
}

// Pos returns the tracked cell offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// MoveTo returns the run of moves that brings the pointer from the tracked
// position to offset, and retargets the tracker.
func (c *Cursor) MoveTo(offset int) bf.Program {
	delta := offset - c.pos
	c.pos = offset
	switch {
	case delta > 0:
		return repeat(bf.MoveRight, delta)
	case delta < 0:
		return repeat(bf.MoveLeft, -delta)
	}
	return nil
}

// Shift returns a single physical move without changing the tracked offset.
// A move statement shifts the whole coordinate frame: afterwards every
// variable and scratch offset denotes the cell one step over, so relative
// positions are exactly as tracked.
func (c *Cursor) Shift(op bf.Op) bf.Program {
	if op != bf.MoveRight && op != bf.MoveLeft {
		panic("Shift takes MoveRight or MoveLeft")
	}
	return bf.Program{op}
}

func repeat(op bf.Op, n int) bf.Program {
	out := make(bf.Program, n)
	for i := range out {
		out[i] = op
	}
	return out
}
