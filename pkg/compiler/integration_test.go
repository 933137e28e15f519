package compiler_test

import (
	"bytes"
	"strings"
	"testing"

	"bfc/pkg/bf"
	"bfc/pkg/compiler"
)

func runProgram(t *testing.T, prog bf.Program, input string) string {
	m := bf.NewMachine(2048)
	m.Input = strings.NewReader(input)
	var out bytes.Buffer
	m.Output = &out
	m.MaxSteps = 2000000

	if err := m.Load(prog); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

// TestIntegration_CompileAndRun pushes one program through the whole public
// pipeline and checks its observable behavior on the machine.
func TestIntegration_CompileAndRun(t *testing.T) {
	src := `
// Classify each input byte until the stream runs dry:
// an 'A' is echoed, anything else becomes '!'.
strict = 1
input(ch)
while ch != 0 {
	if ch == 65 && strict == 1 {
		output(ch)
	} else {
		mark = 33
		output(mark)
	}
	input(ch)
}
nl = 10
output(nl)
`
	prog, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if got, want := runProgram(t, prog, "AxA"), "A!A\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	// End of input right away: the loop body never runs.
	if got, want := runProgram(t, prog, ""), "\n"; got != want {
		t.Errorf("empty input: output = %q, want %q", got, want)
	}
}

// TestIntegration_TextRoundTrip renders a compiled program to its textual
// symbols, parses it back, and checks the reparsed program behaves the same.
func TestIntegration_TextRoundTrip(t *testing.T) {
	src := "x = 3; if x == 3 { output(x) } else { x = 0; output(x) }"
	prog, err := compiler.Compile(src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	direct := runProgram(t, prog, "")
	if direct != "\x03" {
		t.Fatalf("output = %q, want a single byte 3", direct)
	}

	reparsed, err := bf.ParseProgram(prog.String())
	if err != nil {
		t.Fatalf("ParseProgram failed on rendered output: %v", err)
	}
	if got := runProgram(t, reparsed, ""); got != direct {
		t.Errorf("reparsed program output = %q, want %q", got, direct)
	}
}

// TestIntegration_SessionMatchesBatch compiles a program in one shot and as
// console-style fragments, and expects identical observable behavior.
func TestIntegration_SessionMatchesBatch(t *testing.T) {
	fragments := []string{
		"x = 2",
		"while x != 0 { output(x) if x == 2 { x = 1 } else { x = 0 } }",
		"output(x)",
	}

	batch, err := compiler.Compile(strings.Join(fragments, "\n"))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	want := runProgram(t, batch, "")

	s := compiler.NewSession()
	m := bf.NewMachine(2048)
	var out bytes.Buffer
	m.Output = &out
	m.MaxSteps = 2000000
	for _, frag := range fragments {
		prog, err := s.Eval(frag)
		if err != nil {
			t.Fatalf("Eval(%q) failed: %v", frag, err)
		}
		if err := m.Load(prog); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if err := m.Run(); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	}

	if got := out.String(); got != want {
		t.Errorf("fragment output = %q, batch output = %q", got, want)
	}
}
