// Package asm assembles a small cell-addressed text format into tape-machine
// programs. The format exists for hand-written programs and for inspecting
// what the compiler's idioms expand to:
//
//	#define NAME VALUE    substitute NAME with VALUE in operands
//	add  CELL N           CELL += N
//	sub  CELL N           CELL -= N
//	set  CELL N           CELL  = N
//	copy SRC DST...       drain SRC into every DST; SRC ends zero
//	rs   N                shift the origin N cells right
//	ls   N                shift the origin N cells left
//	loop                  begin a loop at the origin
//	end                   close a loop at the origin
//	read CELL             CELL = one input byte
//	write CELL            output CELL
//	# ...                 comment
//
// Cell operands are nonnegative offsets from the current origin. Every
// instruction returns the cursor to the origin, so instructions compose
// without any position bookkeeping; rs and ls move the origin itself.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"bfc/pkg/bf"
)

type Assembler struct {
	defines map[string]int
	listing []ListingLine
}

// A ListingLine pairs one source line with the ops it produced, for
// inspecting what each instruction expands to.
type ListingLine struct {
	Line   int
	Source string
	Ops    bf.Program
}

func NewAssembler() *Assembler {
	return &Assembler{defines: make(map[string]int)}
}

// Assemble is a convenience wrapper around a one-shot Assembler.
func Assemble(src string) (bf.Program, error) {
	return NewAssembler().Assemble(src)
}

func (a *Assembler) Assemble(src string) (bf.Program, error) {
	a.defines = make(map[string]int)
	a.listing = nil
	lines := strings.Split(src, "\n")
	if err := a.pass1(lines); err != nil {
		return nil, err
	}
	return a.pass2(lines)
}

// Listing reports which ops each source line of the most recent Assemble
// produced. Lines that emit nothing do not appear.
func (a *Assembler) Listing() []ListingLine {
	return a.listing
}

// pass1 collects #define substitutions.
func (a *Assembler) pass1(lines []string) error {
	for i, raw := range lines {
		lineNo := i + 1
		fields := splitLine(raw)
		if len(fields) == 0 || fields[0] != "#define" {
			continue
		}
		if len(fields) != 3 {
			return fmt.Errorf("#define expects a name and a value on line %d", lineNo)
		}
		name := fields[1]
		val, err := strconv.Atoi(fields[2])
		if err != nil || val < 0 {
			return fmt.Errorf("invalid #define value %q on line %d", fields[2], lineNo)
		}
		if _, exists := a.defines[name]; exists {
			return fmt.Errorf("duplicate #define %q on line %d", name, lineNo)
		}
		a.defines[name] = val
	}
	return nil
}

// pass2 emits ops line by line.
func (a *Assembler) pass2(lines []string) (bf.Program, error) {
	var prog bf.Program
	depth := 0

	for i, raw := range lines {
		lineNo := i + 1
		fields := splitLine(raw)
		if len(fields) == 0 || fields[0] == "#define" {
			continue
		}

		mnemonic := fields[0]
		operands := fields[1:]
		start := len(prog)

		switch mnemonic {
		case "add":
			cell, n, err := a.cellAndCount(mnemonic, operands, lineNo)
			if err != nil {
				return nil, err
			}
			prog = appendAt(prog, cell, repeat(bf.Inc, n)...)

		case "sub":
			cell, n, err := a.cellAndCount(mnemonic, operands, lineNo)
			if err != nil {
				return nil, err
			}
			prog = appendAt(prog, cell, repeat(bf.Dec, n)...)

		case "set":
			cell, n, err := a.cellAndCount(mnemonic, operands, lineNo)
			if err != nil {
				return nil, err
			}
			body := append(bf.Program{bf.LoopBegin, bf.Dec, bf.LoopEnd}, repeat(bf.Inc, n)...)
			prog = appendAt(prog, cell, body...)

		case "copy":
			if len(operands) < 2 {
				return nil, fmt.Errorf("copy expects a source and at least one destination on line %d", lineNo)
			}
			cells := make([]int, len(operands))
			for j, op := range operands {
				cell, err := a.cell(op, lineNo)
				if err != nil {
					return nil, err
				}
				cells[j] = cell
			}
			prog = appendCopy(prog, cells[0], cells[1:])

		case "rs", "ls":
			if len(operands) != 1 {
				return nil, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, lineNo)
			}
			n, err := a.cell(operands[0], lineNo)
			if err != nil {
				return nil, err
			}
			dir := bf.MoveRight
			if mnemonic == "ls" {
				dir = bf.MoveLeft
			}
			prog = append(prog, repeat(dir, n)...)

		case "loop":
			if len(operands) != 0 {
				return nil, fmt.Errorf("loop expects 0 operands on line %d", lineNo)
			}
			depth++
			prog = append(prog, bf.LoopBegin)

		case "end":
			if len(operands) != 0 {
				return nil, fmt.Errorf("end expects 0 operands on line %d", lineNo)
			}
			if depth == 0 {
				return nil, fmt.Errorf("end without a matching loop on line %d", lineNo)
			}
			depth--
			prog = append(prog, bf.LoopEnd)

		case "read":
			cell, err := a.singleCell(mnemonic, operands, lineNo)
			if err != nil {
				return nil, err
			}
			prog = appendAt(prog, cell, bf.Read)

		case "write":
			cell, err := a.singleCell(mnemonic, operands, lineNo)
			if err != nil {
				return nil, err
			}
			prog = appendAt(prog, cell, bf.Write)

		default:
			return nil, fmt.Errorf("unknown instruction on line %d: %s", lineNo, mnemonic)
		}

		if len(prog) > start {
			a.listing = append(a.listing, ListingLine{
				Line:   lineNo,
				Source: strings.TrimSpace(raw),
				Ops:    prog[start:len(prog):len(prog)],
			})
		}
	}

	if depth > 0 {
		return nil, fmt.Errorf("%d loop(s) left open at end of input", depth)
	}
	return prog, nil
}

// splitLine tokenizes one line, dropping everything from the first comment
// field on. "#define" survives because pass1 looks for it by name.
func splitLine(raw string) []string {
	fields := strings.Fields(raw)
	for i, f := range fields {
		if strings.HasPrefix(f, "#") && f != "#define" {
			return fields[:i]
		}
	}
	return fields
}

// cell resolves one operand through the #define table to a nonnegative
// offset.
func (a *Assembler) cell(operand string, lineNo int) (int, error) {
	if v, ok := a.defines[operand]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(operand)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid cell offset %q on line %d", operand, lineNo)
	}
	return v, nil
}

func (a *Assembler) singleCell(mnemonic string, operands []string, lineNo int) (int, error) {
	if len(operands) != 1 {
		return 0, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, lineNo)
	}
	return a.cell(operands[0], lineNo)
}

func (a *Assembler) cellAndCount(mnemonic string, operands []string, lineNo int) (int, int, error) {
	if len(operands) != 2 {
		return 0, 0, fmt.Errorf("%s expects 2 operands on line %d", mnemonic, lineNo)
	}
	cell, err := a.cell(operands[0], lineNo)
	if err != nil {
		return 0, 0, err
	}
	n, err := a.cell(operands[1], lineNo)
	if err != nil {
		return 0, 0, err
	}
	return cell, n, nil
}

func repeat(op bf.Op, n int) bf.Program {
	out := make(bf.Program, n)
	for i := range out {
		out[i] = op
	}
	return out
}

// appendAt wraps body in a round trip from the origin to cell and back.
func appendAt(prog bf.Program, cell int, body ...bf.Op) bf.Program {
	prog = append(prog, repeat(bf.MoveRight, cell)...)
	prog = append(prog, body...)
	return append(prog, repeat(bf.MoveLeft, cell)...)
}

// appendCopy emits the drain loop: while src is nonzero, decrement it and
// increment every destination, touching the origin between cells.
func appendCopy(prog bf.Program, src int, dsts []int) bf.Program {
	prog = append(prog, repeat(bf.MoveRight, src)...)
	prog = append(prog, bf.LoopBegin, bf.Dec)
	prog = append(prog, repeat(bf.MoveLeft, src)...)
	for _, d := range dsts {
		prog = append(prog, repeat(bf.MoveRight, d)...)
		prog = append(prog, bf.Inc)
		prog = append(prog, repeat(bf.MoveLeft, d)...)
	}
	prog = append(prog, repeat(bf.MoveRight, src)...)
	prog = append(prog, bf.LoopEnd)
	return append(prog, repeat(bf.MoveLeft, src)...)
}
