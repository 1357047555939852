package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// compiler.go - High-level pipeline orchestration: source -> tokens ->
// AST -> assembly -> binary.
//
// Kept close to the teacher's Compiler/CompileFile: one struct carrying
// options and a stats tracker, one method per phase, -v gated through
// log.Printf. The phase sequence itself changes to this compiler's four
// stages (tokenize, parse+typecheck, codegen, gcc assemble/link), and
// buildBinary drops the teacher's -nostartfiles -no-pie (that freestanding
// -binary layout fit Lotus's own hand-written _start; this compiler's
// output defines a normal `main` and links against the host C runtime,
// per spec.md §6).

// Compiler drives one source file through the full pipeline.
type Compiler struct {
	Options *CompilerOptions
	Stats   *CompilationStats
}

// NewCompiler builds a Compiler for the given options.
func NewCompiler(opts *CompilerOptions) *Compiler {
	return &Compiler{Options: opts}
}

// CompileFile compiles a single C source file through the full pipeline.
func (c *Compiler) CompileFile(inputPath string) error {
	c.Stats = NewCompilationStats(inputPath)
	SetCurrentFile(inputPath)

	if c.Options.Verbose {
		log.Printf("compiling: input=%s output=%s", inputPath, c.Options.OutPath)
	}

	contents, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}
	lines := strings.Split(string(contents), "\n")
	c.Stats.SourceBytes = len(contents)
	c.Stats.SourceLines = len(lines)

	tokenStart := time.Now()
	head := Tokenize(lines, 0)
	tokenCount := 0
	for t := head.Next; t != nil && t.Kind != End; t = t.Next {
		tokenCount++
	}
	c.Stats.RecordTokenization(time.Since(tokenStart), tokenCount)

	if c.Options.TokenDump {
		fmt.Println("=== Token Stream ===")
		i := 0
		for t := head.Next; t != nil; t = t.Next {
			fmt.Printf("[%d] %d:%d %s\n", i, t.Line, t.Column, t.String())
			i++
		}
		return nil
	}

	parseStart := time.Now()
	program, lits := Parse(head, lines)
	funcCount, globalCount := 0, 0
	for _, node := range program {
		switch node.(type) {
		case *FuncDecl:
			funcCount++
		case *GlobalVarDecl:
			globalCount++
		}
	}
	c.Stats.RecordParsing(time.Since(parseStart), funcCount, globalCount)

	codegenStart := time.Now()
	asm := Generate(program, lits)
	c.Stats.RecordCodegen(time.Since(codegenStart), strings.Count(asm, "\n"), len(asm))

	if c.Options.PrintAsm {
		err := c.writeAssembly(asm)
		c.printStats()
		return err
	}

	if err := c.buildBinary(asm); err != nil {
		return err
	}

	if c.Options.Run {
		c.printStats()
		return c.runBinary()
	}

	c.printStats()
	return nil
}

func (c *Compiler) printStats() {
	c.Stats.Finalize()
	if c.Options.Verbose {
		c.Stats.Print()
	}
}

// writeAssembly writes the generated listing to an .s file.
func (c *Compiler) writeAssembly(asm string) error {
	asmOut := c.Options.OutPath
	if asmOut == "a.out" {
		asmOut = "a.s"
	} else if filepath.Ext(asmOut) == "" {
		asmOut += ".s"
	}

	if err := os.WriteFile(asmOut, []byte(asm), 0644); err != nil {
		return fmt.Errorf("failed to write assembly file: %w", err)
	}
	if c.Options.Verbose {
		log.Printf("assembly written to: %s", asmOut)
	}
	return nil
}

// buildBinary hands the generated assembly to gcc, which assembles,
// links against the host C runtime, and produces the final executable.
func (c *Compiler) buildBinary(asm string) error {
	tmpAsm := filepath.Join(os.TempDir(), "cc86_tmp.s")
	if err := os.WriteFile(tmpAsm, []byte(asm), 0644); err != nil {
		return fmt.Errorf("failed to write temporary assembly: %w", err)
	}
	defer os.Remove(tmpAsm)

	assembleStart := time.Now()
	cmd := exec.Command("gcc", "-o", c.Options.OutPath, tmpAsm)

	if c.Options.Verbose {
		log.Printf("assembling: %s", strings.Join(cmd.Args, " "))
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("assembly failed:\n%s", string(out))
		}
		return fmt.Errorf("assembly failed: %w", err)
	}

	outputBytes := 0
	if info, statErr := os.Stat(c.Options.OutPath); statErr == nil {
		outputBytes = int(info.Size())
	}
	c.Stats.RecordAssemble(time.Since(assembleStart), c.Options.OutPath, outputBytes)

	if c.Options.Verbose {
		if len(out) > 0 {
			log.Printf("assembler output:\n%s", string(out))
		}
		log.Printf("binary written to: %s", c.Options.OutPath)
	}
	return nil
}

// runBinary executes the compiled binary with inherited stdio.
func (c *Compiler) runBinary() error {
	if c.Options.Verbose {
		log.Printf("executing: %s", c.Options.OutPath)
	}

	path := c.Options.OutPath
	if !strings.Contains(path, "/") {
		path = "./" + path
	}
	cmd := exec.Command(path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			if c.Options.Verbose {
				log.Printf("program exited with code: %d", exitErr.ExitCode())
			}
			return nil
		}
		return fmt.Errorf("failed to execute binary: %w", err)
	}
	return nil
}
