package bf

import (
	"fmt"
	"strings"
)

// Op is one primitive operation of the tape machine.
type Op byte

const (
	MoveRight Op = iota // >  move the cursor one cell right
	MoveLeft            // <  move the cursor one cell left
	Inc                 // +  increment the current cell (mod 256)
	Dec                 // -  decrement the current cell (mod 256)
	LoopBegin           // [  skip past the matching ] if the current cell is zero
	LoopEnd             // ]  jump back to the matching [ if the current cell is nonzero
	Read                // ,  store one input byte in the current cell
	Write               // .  emit the current cell as one output byte
)

// opSymbols is indexed by Op.
var opSymbols = [...]byte{
	MoveRight: '>',
	MoveLeft:  '<',
	Inc:       '+',
	Dec:       '-',
	LoopBegin: '[',
	LoopEnd:   ']',
	Read:      ',',
	Write:     '.',
}

func (op Op) String() string {
	if int(op) < len(opSymbols) {
		return string(opSymbols[op])
	}
	return fmt.Sprintf("Op(%d)", byte(op))
}

// Program is an ordered sequence of primitive operations.
type Program []Op

// String renders the program as a single line of machine symbols.
func (p Program) String() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, op := range p {
		if int(op) < len(opSymbols) {
			b.WriteByte(opSymbols[op])
		}
	}
	return b.String()
}

// Dump renders the program wrapped to at most width symbols per line. A width
// of zero or less falls back to 72.
func (p Program) Dump(width int) string {
	if width <= 0 {
		width = 72
	}
	text := p.String()
	var b strings.Builder
	b.Grow(len(text) + len(text)/width + 1)
	for len(text) > width {
		b.WriteString(text[:width])
		b.WriteByte('\n')
		text = text[width:]
	}
	b.WriteString(text)
	return b.String()
}

// ParseProgram reads machine symbols from text. Any byte that is not one of
// the eight symbols is ignored, so program files may carry free-form
// comments. Unbalanced brackets are an error reported with the byte offset of
// the offender.
func ParseProgram(text string) (Program, error) {
	prog := make(Program, 0, len(text))
	var open []int // byte offsets of unmatched [
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '>':
			prog = append(prog, MoveRight)
		case '<':
			prog = append(prog, MoveLeft)
		case '+':
			prog = append(prog, Inc)
		case '-':
			prog = append(prog, Dec)
		case '[':
			open = append(open, i)
			prog = append(prog, LoopBegin)
		case ']':
			if len(open) == 0 {
				return nil, fmt.Errorf("unmatched ] at byte %d", i)
			}
			open = open[:len(open)-1]
			prog = append(prog, LoopEnd)
		case ',':
			prog = append(prog, Read)
		case '.':
			prog = append(prog, Write)
		}
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("unmatched [ at byte %d", open[len(open)-1])
	}
	return prog, nil
}
