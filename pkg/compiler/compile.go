package compiler

import (
	"fmt"

	"bfc/pkg/bf"
)

// Options adjust a single compilation.
type Options struct {
	// Optimize runs the peephole pass over the generated program.
	Optimize bool

	// ScratchCells overrides the scratch pool size; 0 means DefaultScratchCells.
	ScratchCells int
}

// Compile runs the full pipeline over src with default options.
func Compile(src string) (bf.Program, error) {
	return CompileWithOptions(src, Options{})
}

// CompileWithOptions runs lex, parse, and codegen, then optionally the
// peephole pass over the result.
func CompileWithOptions(src string, opts Options) (bf.Program, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	stmts, err := Parse(tokens, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var syms *SymbolTable
	if opts.ScratchCells > 0 {
		syms = NewSymbolTable(opts.ScratchCells)
	} else {
		syms = NewSymbolTable()
	}

	prog, err := Generate(stmts, syms)
	if err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}

	if opts.Optimize {
		prog = bf.Optimize(prog)
	}
	return prog, nil
}
