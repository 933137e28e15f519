package bf

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultTapeCells is the tape size used when NewMachine is not given one.
const DefaultTapeCells = 30000

// ErrMaxSteps is returned by Run when the configured step budget runs out
// before the program halts.
var ErrMaxSteps = errors.New("step budget exhausted")

// Machine executes programs on a byte tape with a single cursor. Cell
// arithmetic wraps modulo 256. Input and Output default to an empty source
// and os.Stdout; tests and the interactive console swap in buffers.
type Machine struct {
	Tape   []byte
	Cursor int

	Input  io.Reader
	Output io.Writer

	MaxSteps int // 0 means unlimited
	Steps    int // ops executed since the last Reset

	prog    Program
	pc      int
	matches []int // for each bracket, the index of its partner
}

// NewMachine returns a machine with a zeroed tape. An optional argument
// overrides the tape size.
func NewMachine(tapeCells ...int) *Machine {
	cells := DefaultTapeCells
	if len(tapeCells) > 0 && tapeCells[0] > 0 {
		cells = tapeCells[0]
	}
	return &Machine{Tape: make([]byte, cells)}
}

// Load installs a program and rewinds the program counter. The tape and
// cursor are left alone so callers can run fragments against accumulated
// state; use Reset for a cold start.
func (m *Machine) Load(p Program) error {
	matches := make([]int, len(p))
	var open []int
	for i, op := range p {
		switch op {
		case LoopBegin:
			open = append(open, i)
		case LoopEnd:
			if len(open) == 0 {
				return fmt.Errorf("unmatched ] at op %d", i)
			}
			j := open[len(open)-1]
			open = open[:len(open)-1]
			matches[i] = j
			matches[j] = i
		}
	}
	if len(open) > 0 {
		return fmt.Errorf("unmatched [ at op %d", open[len(open)-1])
	}
	m.prog = p
	m.matches = matches
	m.pc = 0
	return nil
}

// Reset zeroes the tape and discards the loaded program.
func (m *Machine) Reset() {
	m.Tape = make([]byte, len(m.Tape))
	m.Cursor = 0
	m.Steps = 0
	m.prog = nil
	m.matches = nil
	m.pc = 0
}

// Halted reports whether the program counter has run off the end of the
// loaded program.
func (m *Machine) Halted() bool {
	return m.pc >= len(m.prog)
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

// Step executes one operation.
func (m *Machine) Step() error {
	if m.Halted() {
		return nil
	}

	switch op := m.prog[m.pc]; op {
	case MoveRight:
		m.Cursor++
		if m.Cursor >= len(m.Tape) {
			return fmt.Errorf("cursor ran off the right end of the tape at op %d", m.pc)
		}
	case MoveLeft:
		m.Cursor--
		if m.Cursor < 0 {
			return fmt.Errorf("cursor ran off the left end of the tape at op %d", m.pc)
		}
	case Inc:
		m.Tape[m.Cursor]++
	case Dec:
		m.Tape[m.Cursor]--
	case LoopBegin:
		if m.Tape[m.Cursor] == 0 {
			m.pc = m.matches[m.pc]
		}
	case LoopEnd:
		if m.Tape[m.Cursor] != 0 {
			m.pc = m.matches[m.pc]
		}
	case Read:
		b, err := m.readByte()
		if err != nil {
			return err
		}
		m.Tape[m.Cursor] = b
	case Write:
		if _, err := m.outputSink().Write([]byte{m.Tape[m.Cursor]}); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	default:
		return fmt.Errorf("invalid op %d at op %d", byte(op), m.pc)
	}

	m.pc++
	m.Steps++
	return nil
}

// readByte pulls one byte from Input. End of input stores zero, which gives
// read-until-zero loops a natural termination.
func (m *Machine) readByte() (byte, error) {
	if m.Input == nil {
		return 0, nil
	}
	var buf [1]byte
	if _, err := io.ReadFull(m.Input, buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read input: %w", err)
	}
	return buf[0], nil
}

// Run steps the loaded program to completion, stopping at the first error or
// when the step budget is exhausted.
func (m *Machine) Run() error {
	for !m.Halted() {
		if m.MaxSteps > 0 && m.Steps >= m.MaxSteps {
			return fmt.Errorf("after %d steps: %w", m.Steps, ErrMaxSteps)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
