package compiler

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultScratchCells is the size of the scratch pool at the front of the tape.
const DefaultScratchCells = 16

// ErrScratchExhausted is returned when a construct needs a scratch cell and
// the pool has none left. In practice that means conditions nested deeper
// than the pool is sized for.
var ErrScratchExhausted = errors.New("scratch pool exhausted")

// SymbolTable maps variable names to tape offsets and manages the scratch
// pool. Offsets 0..scratchCells-1 are scratch, handed out and returned in
// LIFO order; variables get monotonically increasing offsets above the pool
// and are never freed.
//
// All offsets are relative to the current coordinate frame; a move statement
// shifts the frame, not the table.
type SymbolTable struct {
	vars         map[string]int
	nextVar      int
	scratchCells int
	inUse        int // scratch cells currently checked out, always 0..inUse-1
}

func NewSymbolTable(scratchCells ...int) *SymbolTable {
	n := DefaultScratchCells
	if len(scratchCells) > 0 {
		n = scratchCells[0]
	}
	return &SymbolTable{
		vars:         make(map[string]int),
		nextVar:      n,
		scratchCells: n,
	}
}

// Resolve returns the tape offset of name, assigning the next free cell the
// first time a name is seen. A fresh variable's cell holds zero because the
// tape starts zeroed and variable cells are never reused.
func (s *SymbolTable) Resolve(name string) int {
	if off, ok := s.vars[name]; ok {
		return off
	}
	off := s.nextVar
	s.nextVar++
	s.vars[name] = off
	return off
}

// Lookup returns the offset of name without creating it.
func (s *SymbolTable) Lookup(name string) (int, bool) {
	off, ok := s.vars[name]
	return off, ok
}

// CheckoutScratch reserves the lowest free scratch cell. The cell is
// guaranteed to hold zero: the pool starts zeroed and ReleaseScratch only
// takes back cells whose code path has drained them.
func (s *SymbolTable) CheckoutScratch() (int, error) {
	if s.inUse == s.scratchCells {
		return 0, fmt.Errorf("%w: all %d cells are in use", ErrScratchExhausted, s.scratchCells)
	}
	off := s.inUse
	s.inUse++
	return off, nil
}

// ReleaseScratch returns the most recent checkout to the pool. Releasing
// out of LIFO order is a code generator bug, not an input error.
func (s *SymbolTable) ReleaseScratch(offset int) {
	if offset != s.inUse-1 {
		panic(fmt.Sprintf("ReleaseScratch(%d) out of order; most recent checkout is %d", offset, s.inUse-1))
	}
	s.inUse--
}

// ScratchCells returns the size of the scratch pool, which is also the
// offset of the first variable cell.
func (s *SymbolTable) ScratchCells() int {
	return s.scratchCells
}

// resetScratch abandons all outstanding checkouts. Only safe when the
// half-lowered program holding them is being discarded, as the console does
// after a failed fragment; code that actually runs always releases what it
// checked out.
func (s *SymbolTable) resetScratch() {
	s.inUse = 0
}

// A Variable pairs a name with its tape offset.
type Variable struct {
	Name   string
	Offset int
}

// Variables lists every known variable in tape order.
func (s *SymbolTable) Variables() []Variable {
	out := make([]Variable, 0, len(s.vars))
	for name, off := range s.vars {
		out = append(out, Variable{Name: name, Offset: off})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scratch: %d cells (offsets 0..%d), %d in use\n", s.scratchCells, s.scratchCells-1, s.inUse)
	if len(s.vars) == 0 {
		sb.WriteString("Variables: (none)\n")
		return sb.String()
	}
	sb.WriteString("Variables:\n")
	for _, v := range s.Variables() {
		fmt.Fprintf(&sb, "  %-20s cell %d\n", v.Name, v.Offset)
	}
	return sb.String()
}
