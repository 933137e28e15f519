package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/xyproto/env/v2"

	"bfc/pkg/bf"
	"bfc/pkg/compiler"
	"bfc/pkg/utils"
)

const (
	promptMain = "==> "
	promptCont = "... "

	// Per-fragment step budget unless BFC_MAX_STEPS says otherwise. A loop
	// whose condition never falsifies would otherwise hang the console.
	defaultStepBudget = 10_000_000
)

const banner = "bfc console\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands."

const helpText = `
Console commands:
  :help          Show this help
  :quit          Exit
  :reset         Fresh session and machine
  :tape [n]      Dump the first n tape cells (default 32)
  :code          Show the last compiled fragment
  :save FILE     Snapshot the machine state to FILE
  :load FILE     Restore machine state from FILE
`

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// outWriter passes program output through to stdout and remembers the last
// byte, so the next prompt can start on a fresh line.
type outWriter struct {
	wrote int
	last  byte
}

func (w *outWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		w.wrote += len(p)
		w.last = p[len(p)-1]
	}
	return os.Stdout.Write(p)
}

// console holds one compiler session and one machine. Variable cells and the
// tape survive from fragment to fragment until :reset.
type console struct {
	sess *compiler.Session
	m    *bf.Machine
	out  *outWriter
	last bf.Program
}

func newConsole() *console {
	c := &console{}
	c.reset()
	return c
}

func (c *console) reset() {
	if n := env.Int("BFC_SCRATCH_CELLS", 0); n > 0 {
		c.sess = compiler.NewSession(n)
	} else {
		c.sess = compiler.NewSession()
	}
	c.m = bf.NewMachine(env.Int("BFC_TAPE_SIZE", 0))
	c.m.MaxSteps = env.Int("BFC_MAX_STEPS", defaultStepBudget)
	c.out = &outWriter{}
	c.m.Output = c.out
	c.last = nil
}

// eval lowers one entered statement list and runs it against the
// accumulated tape.
func (c *console) eval(code string) {
	prog, err := c.sess.Eval(code)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return
	}
	c.last = prog
	if err := c.m.Load(prog); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return
	}
	c.out.wrote = 0
	c.m.Steps = 0
	if err := c.m.Run(); err != nil {
		if c.out.wrote > 0 && c.out.last != '\n' {
			fmt.Println()
		}
		fmt.Fprintln(os.Stderr, red(err.Error()))
		fmt.Fprintln(os.Stderr, "machine stopped mid-fragment; :reset for a clean start")
		return
	}
	if c.out.wrote > 0 && c.out.last != '\n' {
		fmt.Println()
	}
}

// meta handles a :command line. It reports whether the console should exit.
func (c *console) meta(code string) bool {
	fields := strings.Fields(code)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Print(helpText)
	case ":reset":
		c.reset()
		fmt.Println("session and machine reset")
	case ":tape":
		c.dumpTape(arg)
	case ":code":
		if c.last == nil {
			fmt.Println("nothing compiled yet")
		} else {
			fmt.Println(c.last.Dump(0))
		}
	case ":save":
		if arg == "" {
			fmt.Println("usage: :save FILE")
			break
		}
		st := c.m.Snapshot()
		if err := st.SaveFile(arg); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		fmt.Printf("saved state %s -> %s\n", st.ID, arg)
	case ":load":
		if arg == "" {
			fmt.Println("usage: :load FILE")
			break
		}
		st, err := bf.LoadStateFile(arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		if err := c.m.Restore(st); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		fmt.Printf("restored state %s, cursor at %d\n", st.ID, c.m.Cursor)
	default:
		fmt.Println("unknown command. Type :help for commands.")
	}
	return false
}

func (c *console) dumpTape(arg string) {
	n := 32
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			fmt.Println("usage: :tape [n]")
			return
		}
		n = v
	}
	if n > len(c.m.Tape) {
		n = len(c.m.Tape)
	}
	for i := 0; i < n; i += 16 {
		end := i + 16
		if end > n {
			end = n
		}
		fmt.Printf("%5d:", i)
		for j := i; j < end; j++ {
			fmt.Printf(" %3d", c.m.Tape[j])
		}
		fmt.Println()
	}
	fmt.Printf("cursor at %d\n", c.m.Cursor)
}

// incomplete reports whether src stops at an unexpected end of input, in
// which case the console keeps reading continuation lines. Any other failure
// is left for eval to report against the full buffer.
func incomplete(src string) bool {
	tokens, err := compiler.Lex(src)
	if err != nil {
		return false
	}
	_, err = compiler.Parse(tokens, src)
	return errors.Is(err, compiler.ErrUnexpectedEOF)
}

func readStmts(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(promptMain)
		} else {
			line, err = ln.Prompt(promptCont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C lands here and abandons the buffer.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if incomplete(src) {
			continue
		}
		return src, true
	}
}

func main() {
	fmt.Println(banner)

	histPath := utils.ExpandHome(env.Str("BFC_HISTFILE", "~/.bfc_history"))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	c := newConsole()

	for {
		code, ok := readStmts(ln)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if c.meta(trimmed) {
				return
			}
			continue
		}

		c.eval(code)
	}
}
