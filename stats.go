package main

import (
	"fmt"
	"time"
)

// stats.go - Compilation timing and size metrics, reported under -v.
//
// Trimmed from the teacher's CompilationStats: the import/stdlib-call
// counters have no meaning (this compiler has no module system), but
// the phase-by-phase timing and the tokenize/parse/codegen size metrics
// are kept verbatim in shape, generalized to this compiler's four
// phases (tokenize, parse, codegen, assemble+link via gcc).

// CompilationStats tracks per-phase timing and size metrics for one
// compilation, printed only when -v is set.
type CompilationStats struct {
	StartTime    time.Time
	TokenizeTime time.Duration
	ParseTime    time.Duration
	CodegenTime  time.Duration
	AssembleTime time.Duration
	TotalTime    time.Duration

	SourceFile  string
	SourceLines int
	SourceBytes int

	TokenCount int

	FunctionCount int
	GlobalCount   int

	AssemblyLines int
	AssemblyBytes int

	OutputFile  string
	OutputBytes int
}

// NewCompilationStats starts a stats tracker for sourceFile.
func NewCompilationStats(sourceFile string) *CompilationStats {
	return &CompilationStats{
		StartTime:  time.Now(),
		SourceFile: sourceFile,
	}
}

// RecordTokenization records lexical analysis metrics.
func (cs *CompilationStats) RecordTokenization(duration time.Duration, tokenCount int) {
	cs.TokenizeTime = duration
	cs.TokenCount = tokenCount
}

// RecordParsing records syntax analysis metrics.
func (cs *CompilationStats) RecordParsing(duration time.Duration, funcCount, globalCount int) {
	cs.ParseTime = duration
	cs.FunctionCount = funcCount
	cs.GlobalCount = globalCount
}

// RecordCodegen records code generation metrics.
func (cs *CompilationStats) RecordCodegen(duration time.Duration, asmLines, asmBytes int) {
	cs.CodegenTime = duration
	cs.AssemblyLines = asmLines
	cs.AssemblyBytes = asmBytes
}

// RecordAssemble records the gcc assemble/link phase's duration.
func (cs *CompilationStats) RecordAssemble(duration time.Duration, outputFile string, outputBytes int) {
	cs.AssembleTime = duration
	cs.OutputFile = outputFile
	cs.OutputBytes = outputBytes
}

// Finalize computes total elapsed time.
func (cs *CompilationStats) Finalize() {
	cs.TotalTime = time.Since(cs.StartTime)
}

// Print outputs a formatted statistics report to stdout.
func (cs *CompilationStats) Print() {
	fmt.Println("\n=== Compilation Statistics ===")
	fmt.Printf("Source: %s\n", cs.SourceFile)
	if cs.SourceLines > 0 {
		fmt.Printf("  Lines: %d\n", cs.SourceLines)
	}
	if cs.SourceBytes > 0 {
		fmt.Printf("  Size: %s\n", formatBytes(cs.SourceBytes))
	}

	fmt.Println("\nPhases:")
	if cs.TokenizeTime > 0 {
		fmt.Printf("  Tokenize: %s (%d tokens)\n", cs.TokenizeTime, cs.TokenCount)
	}
	if cs.ParseTime > 0 {
		fmt.Printf("  Parse:    %s (%d functions, %d globals)\n",
			cs.ParseTime, cs.FunctionCount, cs.GlobalCount)
	}
	if cs.CodegenTime > 0 {
		fmt.Printf("  Codegen:  %s (%d lines, %s)\n",
			cs.CodegenTime, cs.AssemblyLines, formatBytes(cs.AssemblyBytes))
	}
	if cs.AssembleTime > 0 {
		fmt.Printf("  Assemble: %s\n", cs.AssembleTime)
	}

	if cs.OutputFile != "" {
		fmt.Printf("\nOutput: %s", cs.OutputFile)
		if cs.OutputBytes > 0 {
			fmt.Printf(" (%s)", formatBytes(cs.OutputBytes))
		}
		fmt.Println()
	}

	fmt.Printf("\nTotal Time: %s\n", cs.TotalTime)
	fmt.Println("==============================")
}

// formatBytes converts a byte count to a human-readable unit.
func formatBytes(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
