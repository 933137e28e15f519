package compiler

import (
	"testing"

	"bfc/pkg/bf"
)

func TestCursorMoveTo(t *testing.T) {
	c := &Cursor{}

	if got := c.MoveTo(3).String(); got != ">>>" {
		t.Errorf("MoveTo(3) = %q, want \">>>\"", got)
	}
	if c.Pos() != 3 {
		t.Errorf("Pos after MoveTo(3): expected 3, got %d", c.Pos())
	}

	if got := c.MoveTo(1).String(); got != "<<" {
		t.Errorf("MoveTo(1) = %q, want \"<<\"", got)
	}
	if c.Pos() != 1 {
		t.Errorf("Pos after MoveTo(1): expected 1, got %d", c.Pos())
	}

	if moves := c.MoveTo(1); len(moves) != 0 {
		t.Errorf("MoveTo(1) from 1 emitted %q, want nothing", moves.String())
	}
}

func TestCursorShift(t *testing.T) {
	c := &Cursor{}
	c.MoveTo(2)

	if got := c.Shift(bf.MoveRight).String(); got != ">" {
		t.Errorf("Shift(MoveRight) = %q, want \">\"", got)
	}
	// The frame moved with the pointer, so the tracked offset is unchanged.
	if c.Pos() != 2 {
		t.Errorf("Pos after Shift: expected 2, got %d", c.Pos())
	}

	if got := c.Shift(bf.MoveLeft).String(); got != "<" {
		t.Errorf("Shift(MoveLeft) = %q, want \"<\"", got)
	}
	if c.Pos() != 2 {
		t.Errorf("Pos after Shift: expected 2, got %d", c.Pos())
	}
}

func TestCursorShiftRejectsNonMoves(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Shift(Inc) did not panic")
		}
	}()
	(&Cursor{}).Shift(bf.Inc)
}
