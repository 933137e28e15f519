package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bfc/pkg/asm"
	"bfc/pkg/bf"
	"bfc/pkg/compiler"
	"bfc/pkg/utils"
)

func main() {
	inPath := flag.String("in", "", "input source file path")
	outPath := flag.String("out", "", "output program file path (default: input with .bf extension)")
	optimize := flag.Bool("O", false, "cancel adjacent inverse ops in the output")
	runProgram := flag.Bool("run", false, "run the produced program on the tape machine")
	runBFPath := flag.String("run-bf", "", "run an existing program file on the tape machine")
	tapeCells := flag.Int("tape", 0, "tape size in cells (0 = default)")
	flag.Parse()

	if *runProgram && *runBFPath != "" {
		fmt.Fprintln(os.Stderr, "use either -run or -run-bf, not both")
		os.Exit(2)
	}

	producedOutput := ""
	if *inPath != "" {
		source, err := os.ReadFile(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", *inPath, err)
			os.Exit(1)
		}

		var prog bf.Program
		if strings.HasSuffix(*inPath, ".bfa") {
			prog, err = asm.Assemble(string(source))
			if err != nil {
				fmt.Fprintf(os.Stderr, "assembly failed: %v\n", err)
				os.Exit(1)
			}
		} else {
			prog, err = compiler.Compile(string(source))
			if err != nil {
				fmt.Fprintf(os.Stderr, "compilation failed: %v\n", err)
				os.Exit(1)
			}
		}
		if *optimize {
			prog = bf.Optimize(prog)
		}

		output := *outPath
		if output == "" {
			output = utils.WithExt(*inPath, ".bf")
		}

		if err := writeProgram(output, prog); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write program file %q: %v\n", output, err)
			os.Exit(1)
		}

		fmt.Printf("compiled %d ops -> %s\n", len(prog), output)
		producedOutput = output
	}

	if *inPath == "" && *runBFPath == "" && !*runProgram {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in to compile, -run to run the produced program, or -run-bf <file> to run an existing program")
		flag.Usage()
		os.Exit(2)
	}

	runTarget := ""
	switch {
	case *runBFPath != "":
		runTarget = *runBFPath
	case *runProgram:
		if producedOutput == "" {
			fmt.Fprintln(os.Stderr, "-run requires -in, or use -run-bf <file>")
			os.Exit(2)
		}
		runTarget = producedOutput
	default:
		return
	}

	if err := runProgramFile(runTarget, *tapeCells); err != nil {
		fmt.Fprintf(os.Stderr, "run failed for %q: %v\n", runTarget, err)
		os.Exit(1)
	}
}

func writeProgram(path string, p bf.Program) error {
	return os.WriteFile(path, []byte(p.String()+"\n"), 0o644)
}

func runProgramFile(path string, tapeCells int) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	prog, err := bf.ParseProgram(string(text))
	if err != nil {
		return err
	}

	m := bf.NewMachine(tapeCells)
	m.Input = os.Stdin
	m.Output = os.Stdout
	if err := m.Load(prog); err != nil {
		return err
	}
	if err := m.Run(); err != nil {
		return err
	}

	fmt.Printf("run complete (%s): cursor=%d steps=%d\n", path, m.Cursor, m.Steps)
	return nil
}
