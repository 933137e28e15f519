package compiler

import (
	"fmt"

	"bfc/pkg/bf"
)

// Session compiles console input incrementally. Variables and the tracked
// cursor survive across Eval calls, so each call returns only the delta
// program for its statements; running the deltas in order on one machine
// behaves like compiling and running the concatenated source.
type Session struct {
	syms *SymbolTable
	cur  Cursor
}

func NewSession(scratchCells ...int) *Session {
	return &Session{syms: NewSymbolTable(scratchCells...)}
}

// Eval compiles one source fragment against the session state. On error the
// tracked cursor and scratch pool are rolled back, so a failed fragment can
// simply be corrected and retried.
func (s *Session) Eval(src string) (bf.Program, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	stmts, err := Parse(tokens, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	cur := s.cur
	prog, err := generate(stmts, s.syms, &cur)
	if err != nil {
		s.syms.resetScratch()
		return nil, fmt.Errorf("codegen: %w", err)
	}
	s.cur = cur
	return prog, nil
}

// Symbols exposes the session's symbol table for inspection.
func (s *Session) Symbols() *SymbolTable {
	return s.syms
}

// CursorPos returns the tracked cell the next fragment will start from.
func (s *Session) CursorPos() int {
	return s.cur.Pos()
}
