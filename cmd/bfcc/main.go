package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"bfc/pkg/asm"
	"bfc/pkg/bf"
	"bfc/pkg/compiler"
)

const versionString = "bfcc 0.3.0"

var rootCmd = &cobra.Command{
	Use:           "bfcc",
	Short:         "Compiler and assembler for the tape machine",
	Long: `bfcc compiles the structured source language, assembles cell-level
assembly, and runs the resulting programs on the tape machine.

Settings resolve in order: flags, then BFC_* environment variables, then
bfc.toml in the working directory, then built-in defaults.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	buildOutput   string
	buildOptimize bool
	buildScratch  int
)

var buildCmd = &cobra.Command{
	Use:   "build [source]",
	Short: "Compile a source file to program text",
	Long: `Build compiles a source file and writes the program text. With no
argument the source comes from build.source in bfc.toml. Output goes to
stdout unless -o or the manifest's build.output says otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

var (
	asmOutput  string
	asmListing bool
)

var asmCmd = &cobra.Command{
	Use:   "asm <file.bfa>",
	Short: "Assemble cell-level assembly to program text",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsm,
}

var (
	runTape     int
	runMaxSteps int
	runOptimize bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile or parse a file and execute it",
	Long: `Run executes a program on a fresh machine with stdin and stdout
attached. The file's extension picks the front end: .bfa assembles, .bf
parses program text directly, anything else compiles as source.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionString)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output path (default stdout)")
	buildCmd.Flags().BoolVarP(&buildOptimize, "optimize", "O", false, "cancel adjacent inverse ops in the output")
	buildCmd.Flags().IntVar(&buildScratch, "scratch", 0, "scratch pool size in cells (0 = default)")
	rootCmd.AddCommand(buildCmd)

	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "output path (default stdout)")
	asmCmd.Flags().BoolVar(&asmListing, "listing", false, "print a per-line listing to stderr")
	rootCmd.AddCommand(asmCmd)

	runCmd.Flags().IntVar(&runTape, "tape", 0, "tape size in cells (0 = default)")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "step budget, 0 means unlimited")
	runCmd.Flags().BoolVarP(&runOptimize, "optimize", "O", false, "optimize before running")
	rootCmd.AddCommand(runCmd)

	rootCmd.AddCommand(versionCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	man, found, err := compiler.LoadManifest(compiler.ManifestName)
	if err != nil {
		return err
	}

	source := ""
	output := ""
	if len(args) == 1 {
		source = args[0]
	} else if found && man.Build.Source != "" {
		// The [build] table names the project's main artifact.
		source = man.Build.Source
		output = man.Build.Output
	}
	if source == "" {
		return fmt.Errorf("no source file given and no build.source in %s", compiler.ManifestName)
	}

	opts := compiler.Options{}
	if found {
		opts.Optimize = man.Build.Optimize
		opts.ScratchCells = man.Build.ScratchCells
	}
	if env.Has("BFC_OPTIMIZE") {
		opts.Optimize = env.Bool("BFC_OPTIMIZE")
	}
	if n := env.Int("BFC_SCRATCH_CELLS", 0); n > 0 {
		opts.ScratchCells = n
	}
	if cmd.Flags().Changed("optimize") {
		opts.Optimize = buildOptimize
	}
	if cmd.Flags().Changed("scratch") {
		opts.ScratchCells = buildScratch
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	prog, err := compiler.CompileWithOptions(string(data), opts)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}

	if cmd.Flags().Changed("output") {
		output = buildOutput
	}
	return writeProgram(prog, output)
}

func runAsm(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	a := asm.NewAssembler()
	prog, err := a.Assemble(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if asmListing {
		for _, ln := range a.Listing() {
			fmt.Fprintf(os.Stderr, "%4d  %-30s %s\n", ln.Line, ln.Source, ln.Ops)
		}
	}
	return writeProgram(prog, asmOutput)
}

func runRun(cmd *cobra.Command, args []string) error {
	man, found, err := compiler.LoadManifest(compiler.ManifestName)
	if err != nil {
		return err
	}

	var prog bf.Program
	switch filepath.Ext(args[0]) {
	case ".bfa":
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		prog, err = asm.Assemble(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
	case ".bf":
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		prog, err = bf.ParseProgram(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		opts := compiler.Options{}
		if n := env.Int("BFC_SCRATCH_CELLS", 0); n > 0 {
			opts.ScratchCells = n
		}
		prog, err = compiler.CompileWithOptions(string(data), opts)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
	}

	optimize := false
	if env.Has("BFC_OPTIMIZE") {
		optimize = env.Bool("BFC_OPTIMIZE")
	}
	if cmd.Flags().Changed("optimize") {
		optimize = runOptimize
	}
	if optimize {
		prog = bf.Optimize(prog)
	}

	tape := 0
	maxSteps := 0
	if found {
		tape = man.Run.TapeSize
		maxSteps = man.Run.MaxSteps
	}
	if n := env.Int("BFC_TAPE_SIZE", 0); n > 0 {
		tape = n
	}
	if n := env.Int("BFC_MAX_STEPS", 0); n > 0 {
		maxSteps = n
	}
	if cmd.Flags().Changed("tape") {
		tape = runTape
	}
	if cmd.Flags().Changed("max-steps") {
		maxSteps = runMaxSteps
	}

	m := bf.NewMachine(tape)
	m.Input = os.Stdin
	m.Output = os.Stdout
	m.MaxSteps = maxSteps
	if err := m.Load(prog); err != nil {
		return err
	}
	return m.Run()
}

// writeProgram prints the program to stdout, or writes it to path with a
// one-line summary.
func writeProgram(p bf.Program, path string) error {
	text := p.String() + "\n"
	if path == "" {
		_, err := os.Stdout.WriteString(text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d ops -> %s\n", len(p), path)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bfcc:", err)
		os.Exit(1)
	}
}
