package compiler

import (
	"errors"
	"fmt"

	"bfc/pkg/bf"
)

// ErrMalformedAST marks statements or conditions the generator cannot lower,
// such as a condition with no comparisons. The parser never builds these;
// they come from hand-assembled ASTs.
var ErrMalformedAST = errors.New("malformed AST")

// CodeGen walks an AST and emits tape-machine ops. All pointer movement
// goes through the Cursor so the tracked position stays in lockstep with
// the machine; branch and loop bodies always open and close their brackets
// on the same cell, which keeps the tracking valid on every path.
type CodeGen struct {
	prog bf.Program
	cur  *Cursor
	syms *SymbolTable
}

func newCodeGen(syms *SymbolTable, cur *Cursor) *CodeGen {
	return &CodeGen{syms: syms, cur: cur}
}

func (cg *CodeGen) emit(ops ...bf.Op) {
	cg.prog = append(cg.prog, ops...)
}

func (cg *CodeGen) emitRepeat(op bf.Op, n int) {
	cg.prog = append(cg.prog, repeat(op, n)...)
}

func (cg *CodeGen) moveTo(offset int) {
	cg.prog = append(cg.prog, cg.cur.MoveTo(offset)...)
}

// zero drains the cell at offset and leaves the cursor there.
func (cg *CodeGen) zero(offset int) {
	cg.moveTo(offset)
	cg.emit(bf.LoopBegin, bf.Dec, bf.LoopEnd)
}

// setCell stores a constant at offset, regardless of what the cell held.
func (cg *CodeGen) setCell(offset int, value byte) {
	cg.zero(offset)
	cg.emitRepeat(bf.Inc, int(value))
}

func (cg *CodeGen) genStmts(stmts []Stmt) error {
	for _, s := range stmts {
		if err := cg.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) genStmt(stmt Stmt) error {
	switch s := stmt.(type) {
	case *AssignStmt:
		cg.setCell(cg.syms.Resolve(s.Name), s.Value)

	case *MoveStmt:
		op := bf.MoveRight
		if s.Op == MOVE_LEFT {
			op = bf.MoveLeft
		}
		cg.prog = append(cg.prog, cg.cur.Shift(op)...)

	case *InputStmt:
		cg.moveTo(cg.syms.Resolve(s.Name))
		cg.emit(bf.Read)

	case *OutputStmt:
		cg.moveTo(cg.syms.Resolve(s.Name))
		cg.emit(bf.Write)

	case *IfStmt:
		return cg.genIf(s)

	case *WhileStmt:
		return cg.genWhile(s)

	default:
		return fmt.Errorf("%w: unknown statement node %T", ErrMalformedAST, stmt)
	}
	return nil
}

// genIf branches on a flag cell holding the condition. The then-branch is a
// loop that runs at most once: the body clears the flag before the bracket
// closes. An else-branch gets a companion cell preset to 1 that the
// then-branch clears, so exactly one of the two loops runs.
func (cg *CodeGen) genIf(s *IfStmt) error {
	flag, err := cg.syms.CheckoutScratch()
	if err != nil {
		return fmt.Errorf("line %d: %w", s.Line, err)
	}

	if s.Else == nil {
		if err := cg.lowerCondition(s.Cond, flag); err != nil {
			return err
		}
		cg.moveTo(flag)
		cg.emit(bf.LoopBegin)
		if err := cg.genStmts(s.Then); err != nil {
			return err
		}
		cg.moveTo(flag)
		cg.emit(bf.Dec, bf.LoopEnd)
		cg.syms.ReleaseScratch(flag)
		return nil
	}

	elseFlag, err := cg.syms.CheckoutScratch()
	if err != nil {
		return fmt.Errorf("line %d: %w", s.Line, err)
	}

	if err := cg.lowerCondition(s.Cond, flag); err != nil {
		return err
	}
	cg.moveTo(elseFlag)
	cg.emit(bf.Inc)

	cg.moveTo(flag)
	cg.emit(bf.LoopBegin)
	if err := cg.genStmts(s.Then); err != nil {
		return err
	}
	cg.moveTo(elseFlag)
	cg.emit(bf.Dec)
	cg.moveTo(flag)
	cg.emit(bf.Dec, bf.LoopEnd)

	cg.moveTo(elseFlag)
	cg.emit(bf.LoopBegin)
	if err := cg.genStmts(s.Else); err != nil {
		return err
	}
	cg.moveTo(elseFlag)
	cg.emit(bf.Dec, bf.LoopEnd)

	cg.syms.ReleaseScratch(elseFlag)
	cg.syms.ReleaseScratch(flag)
	return nil
}

// genWhile keeps the condition in one flag cell: computed before the loop,
// recomputed into the same cell at the end of every pass. The closing
// bracket sits on the flag, so the loop continues exactly while the
// recomputed condition holds.
func (cg *CodeGen) genWhile(s *WhileStmt) error {
	flag, err := cg.syms.CheckoutScratch()
	if err != nil {
		return fmt.Errorf("line %d: %w", s.Line, err)
	}

	if err := cg.lowerCondition(s.Cond, flag); err != nil {
		return err
	}
	cg.moveTo(flag)
	cg.emit(bf.LoopBegin)
	if err := cg.genStmts(s.Body); err != nil {
		return err
	}
	if err := cg.lowerCondition(s.Cond, flag); err != nil {
		return err
	}
	cg.moveTo(flag)
	cg.emit(bf.LoopEnd)

	cg.syms.ReleaseScratch(flag)
	return nil
}

// Generate lowers a statement list onto the tape machine. The symbol table
// is the caller's: passing the same table into later calls keeps variable
// placement stable, which the console session relies on.
func Generate(stmts []Stmt, syms *SymbolTable) (bf.Program, error) {
	return generate(stmts, syms, &Cursor{})
}

func generate(stmts []Stmt, syms *SymbolTable, cur *Cursor) (bf.Program, error) {
	cg := newCodeGen(syms, cur)
	if err := cg.genStmts(stmts); err != nil {
		return nil, err
	}
	return cg.prog, nil
}
