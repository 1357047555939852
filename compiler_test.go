package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// Test actually compiling, assembling, linking and running whole
// programs end to end.
//
// This only exercises the scenarios whose C source and expected exit
// status are bundled in testdata/scenarios.txtar - see DESIGN.md for
// why fixtures live there instead of as Go string literals.  It
// requires a working `gcc` on PATH, same as the compiler itself does.
func TestEndToEndScenarios(t *testing.T) {
	if _, err := exec.LookPath("gcc"); err != nil {
		t.Skip("gcc not found on PATH")
	}

	arc, err := txtar.ParseFile("testdata/scenarios.txtar")
	if err != nil {
		t.Fatalf("failed to load fixtures: %v", err)
	}

	sources := map[string]string{}
	wantExit := map[string]int{}
	for _, f := range arc.Files {
		name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
		switch {
		case strings.HasSuffix(f.Name, ".c"):
			sources[name] = string(f.Data)
		case strings.HasSuffix(f.Name, ".exit"):
			n, err := strconv.Atoi(strings.TrimSpace(string(f.Data)))
			if err != nil {
				t.Fatalf("%s: bad expected exit status %q: %v", f.Name, f.Data, err)
			}
			wantExit[name] = n
		}
	}

	for name, src := range sources {
		name, src := name, src
		want, ok := wantExit[name]
		if !ok {
			t.Fatalf("%s: no matching .exit fixture", name)
		}

		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cFile := filepath.Join(dir, name+".c")
			if err := os.WriteFile(cFile, []byte(src), 0644); err != nil {
				t.Fatalf("writing source: %v", err)
			}

			binPath := filepath.Join(dir, name)
			compiler := NewCompiler(&CompilerOptions{OutPath: binPath})
			if err := compiler.CompileFile(cFile); err != nil {
				t.Fatalf("compilation failed: %v", err)
			}

			cmd := exec.Command(binPath)
			err := cmd.Run()
			got := 0
			if exitErr, ok := err.(*exec.ExitError); ok {
				got = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("running compiled binary: %v", err)
			}

			if got != want {
				t.Errorf("%s: exit status = %d, want %d", name, got, want)
			}
		})
	}
}

// TestTokenDumpExitsEarly exercises the -token-dump early-exit path:
// CompileFile should return nil without ever reaching the assembler.
func TestTokenDumpExitsEarly(t *testing.T) {
	dir := t.TempDir()
	cFile := filepath.Join(dir, "x.c")
	if err := os.WriteFile(cFile, []byte("int main(){ return 0; }"), 0644); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	compiler := NewCompiler(&CompilerOptions{TokenDump: true})
	if err := compiler.CompileFile(cFile); err != nil {
		t.Fatalf("token-dump compile should not fail: %v", err)
	}
}

// TestPrintAsmWritesFile exercises the -S path end to end without
// invoking gcc at all.
func TestPrintAsmWritesFile(t *testing.T) {
	dir := t.TempDir()
	cFile := filepath.Join(dir, "x.c")
	if err := os.WriteFile(cFile, []byte("int main(){ return 42; }"), 0644); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	asmPath := filepath.Join(dir, "x.s")
	compiler := NewCompiler(&CompilerOptions{PrintAsm: true, OutPath: asmPath})
	if err := compiler.CompileFile(cFile); err != nil {
		t.Fatalf("assembly-only compile failed: %v", err)
	}

	data, err := os.ReadFile(asmPath)
	if err != nil {
		t.Fatalf("reading generated assembly: %v", err)
	}
	asm := string(data)
	if !strings.Contains(asm, "main:") {
		t.Errorf("generated assembly should define a main label, got:\n%s", asm)
	}
	if !strings.Contains(asm, IntelSyntaxDirective) {
		t.Errorf("generated assembly should open with %q", IntelSyntaxDirective)
	}
}
