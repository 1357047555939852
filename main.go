package main

import (
	"fmt"
	"io"
	"os"
)

// main.go - Entry point: command-line parsing, version display, and
// compilation orchestration.

func main() {
	os.Exit(run())
}

// run orchestrates CLI parsing and compilation, returning a process exit code.
func run() int {
	opts, args, err := ParseFlags()
	if err != nil {
		return 2
	}

	if opts.ShowVersion {
		fmt.Printf("cc86 version %s\n", CompilerVersion)
		return 0
	}

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		printUsage(os.Stderr)
		return 1
	}

	compiler := NewCompiler(opts)
	if err := compiler.CompileFile(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		return 1
	}

	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cc86 [flags] <file.c>")
	fmt.Fprintln(w, "Run 'cc86 -h' for help")
}
