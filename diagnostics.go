package main

import (
	"fmt"
	"os"
	"strings"
)

// diagnostics.go - The compiler's one error-reporting primitive.
//
// The teacher's DiagnosticManager collected a whole run's worth of
// errors/warnings, categorized them, and printed them with ANSI color at
// the end. This compiler has no warning taxonomy and no error recovery:
// the grammar in parser.go is unambiguous enough that the first problem
// found is fatal, so the multi-error collector collapses to a single
// fatal primitive that prints the source line and a caret under the
// offending column, then exits - the shape original_source/rscc's own
// diagnostic printer uses, minus color (this compiler never colorizes
// its output).

// currentFileName is the path of the file currently being compiled, set
// by compiler.go before lexing/parsing so fatalAt (called deep inside
// the lexer, which only carries a numeric file index) can name it in a
// diagnostic.
var currentFileName = "<input>"

// SetCurrentFile records the path used in subsequent diagnostics.
func SetCurrentFile(path string) {
	currentFileName = path
}

// fatalAt reports a fatal error at a specific source position and exits.
// fileIndex is accepted for symmetry with the lexer's per-token File
// field (a hook for future multi-file compilation) but this compiler
// only ever has one file open at a time, so the message names
// currentFileName.
func fatalAt(fileIndex, line, col int, lines []string, msg string) {
	_ = fileIndex
	reportFatal(currentFileName, line, col, lines, msg)
}

// fatalf reports a fatal error with no source position - used for
// internal-error conditions (an unreachable switch case) and for
// semantic errors raised during parsing that carry their own message but
// no longer have a convenient lines slice in scope.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Compile Error: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// reportFatal prints the "Compile Error" header, the file:line:column
// locator, the offending source line, and a tab-aware caret under the
// named column, then terminates the process.
func reportFatal(file string, line, col int, lines []string, msg string) {
	fmt.Fprintf(os.Stderr, "Compile Error: %s\n", msg)
	fmt.Fprintf(os.Stderr, "  --> %s:%d:%d\n", file, line, col)

	if line >= 1 && line <= len(lines) {
		src := lines[line-1]
		fmt.Fprintf(os.Stderr, "    %s\n", src)
		fmt.Fprintf(os.Stderr, "    %s^\n", caretPadding(src, col))
	}

	os.Exit(1)
}

// caretPadding builds the whitespace that lines a caret up under column
// col, copying each preceding character's tab-ness so a caret under a
// tab-indented line lands under the right visual column.
func caretPadding(src string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1 && i < len(src); i++ {
		if src[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
