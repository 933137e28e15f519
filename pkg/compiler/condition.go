package compiler

import (
	"fmt"

	"bfc/pkg/bf"
)

// Condition lowering. Every condition is computed into a single flag cell
// that ends up 1 when the condition holds and 0 when it does not, so the
// statement lowerings can branch with one nonzero-loop on that cell. The
// flag cell is zeroed before computing into it, which lets a while loop
// recompute its condition into the same cell on every pass.

// copyCell leaves dst holding src's value without destroying src: src is
// drained into dst and a temp at once, then the temp is drained back into
// src. dst must hold zero on entry.
func (cg *CodeGen) copyCell(src, dst int) error {
	t, err := cg.syms.CheckoutScratch()
	if err != nil {
		return err
	}

	cg.moveTo(src)
	cg.emit(bf.LoopBegin, bf.Dec)
	cg.moveTo(dst)
	cg.emit(bf.Inc)
	cg.moveTo(t)
	cg.emit(bf.Inc)
	cg.moveTo(src)
	cg.emit(bf.LoopEnd)

	cg.moveTo(t)
	cg.emit(bf.LoopBegin, bf.Dec)
	cg.moveTo(src)
	cg.emit(bf.Inc)
	cg.moveTo(t)
	cg.emit(bf.LoopEnd)

	cg.syms.ReleaseScratch(t)
	return nil
}

// lowerCompare computes one comparison into flag. The variable's value is
// copied to a scratch cell, the constant is subtracted there, and the
// difference cell is tested: for == the flag starts at 1 and a nonzero
// difference clears it, for != the flag starts at 0 and a nonzero
// difference sets it. The variable keeps its value either way.
func (cg *CodeGen) lowerCompare(cmp Compare, flag int) error {
	off := cg.syms.Resolve(cmp.Var)

	d, err := cg.syms.CheckoutScratch()
	if err != nil {
		return fmt.Errorf("line %d: %w", cmp.Line, err)
	}
	if err := cg.copyCell(off, d); err != nil {
		return fmt.Errorf("line %d: %w", cmp.Line, err)
	}

	cg.moveTo(d)
	cg.emitRepeat(bf.Dec, int(cmp.Value))

	cg.zero(flag)
	if cmp.Op == CompareEq {
		cg.emit(bf.Inc)
	}

	// One pass: adjust the flag, then drain the difference so the loop
	// cannot run twice.
	cg.moveTo(d)
	cg.emit(bf.LoopBegin)
	cg.moveTo(flag)
	if cmp.Op == CompareEq {
		cg.emit(bf.Dec)
	} else {
		cg.emit(bf.Inc)
	}
	cg.moveTo(d)
	cg.emit(bf.LoopBegin, bf.Dec, bf.LoopEnd)
	cg.emit(bf.LoopEnd)

	cg.syms.ReleaseScratch(d)
	return nil
}

// andInto folds other into flag: flag keeps 1 only when both cells held 1.
// Both cells are 0/1 on entry; other ends zeroed.
func (cg *CodeGen) andInto(flag, other int, line int) error {
	t, err := cg.syms.CheckoutScratch()
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}

	// t = flag, flag = 0
	cg.moveTo(flag)
	cg.emit(bf.LoopBegin, bf.Dec)
	cg.moveTo(t)
	cg.emit(bf.Inc)
	cg.moveTo(flag)
	cg.emit(bf.LoopEnd)

	// if t was set, flag takes other's value
	cg.moveTo(t)
	cg.emit(bf.LoopBegin, bf.Dec)
	cg.moveTo(other)
	cg.emit(bf.LoopBegin, bf.Dec)
	cg.moveTo(flag)
	cg.emit(bf.Inc)
	cg.moveTo(other)
	cg.emit(bf.LoopEnd)
	cg.moveTo(t)
	cg.emit(bf.LoopEnd)

	// other still holds its value when flag was 0
	cg.zero(other)

	cg.syms.ReleaseScratch(t)
	return nil
}

// lowerCondition computes a whole conjunction into flag. Comparisons are
// lowered left to right, each into its own scratch flag, and folded into
// the result as they complete; every comparison is always evaluated.
func (cg *CodeGen) lowerCondition(cond Cond, flag int) error {
	if len(cond.Compares) == 0 {
		return fmt.Errorf("%w: condition has no comparisons", ErrMalformedAST)
	}

	if err := cg.lowerCompare(cond.Compares[0], flag); err != nil {
		return err
	}
	for _, cmp := range cond.Compares[1:] {
		f2, err := cg.syms.CheckoutScratch()
		if err != nil {
			return fmt.Errorf("line %d: %w", cmp.Line, err)
		}
		if err := cg.lowerCompare(cmp, f2); err != nil {
			return err
		}
		if err := cg.andInto(flag, f2, cmp.Line); err != nil {
			return err
		}
		cg.syms.ReleaseScratch(f2)
	}
	return nil
}
