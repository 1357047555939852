package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"
)

// compile runs the three pure, in-process pipeline stages (no gcc
// invocation) and returns the generated assembly.
func compile(t *testing.T, src string) string {
	t.Helper()
	lines := strings.Split(src, "\n")
	head := Tokenize(lines, 0)
	program, lits := Parse(head, lines)
	return Generate(program, lits)
}

// We try compiling a handful of valid programs covering the grammar's
// desugaring corners, checking only rough shape - the end-to-end exit
// status assertions live in compiler_test.go's fixture-driven tests.
func TestValidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // a substring the generated assembly must contain
	}{
		{"empty function", "int main(){ return 0; }", "main:"},
		{"forward declaration", "int f(int n); int main(){ return f(1); } int f(int n){ return n; }", ".globl f"},
		{"pointer deref", "int main(){ int x=5; int *p=&x; return *p; }", "main:"},
		{"array subscript", "int main(){ int a[3]; a[0]=9; return a[0]; }", "main:"},
		{"string literal", `int main(){ char *s="hi"; return 0; }`, ".rodata"},
		{"compound assign", "int main(){ int x=1; x+=2; return x; }", "main:"},
		{"prefix increment", "int main(){ int x=1; ++x; return x; }", "main:"},
		{"postfix increment", "int main(){ int x=1; x++; return x; }", "main:"},
		{"sizeof parenthesized type", "int main(){ return sizeof(int); }", "main:"},
		{"sizeof bare expression", "int main(){ int x; return sizeof x; }", "main:"},
		{"short circuit and", "int main(){ return 0 && 1; }", ".LLogic"},
		{"short circuit or", "int main(){ return 1 || 0; }", ".LLogic"},
		{"array initializer", "int main(){ int x[3]={1,2,3}; return x[0]; }", "main:"},
		{"global variable", "int g; int main(){ g=1; return g; }", ".bss"},
		{"while loop", "int main(){ int i=0; while(i<3) i=i+1; return i; }", ".LBegin"},
		{"for loop", "int main(){ int s=0; int i; for(i=0;i<3;i=i+1) s=s+i; return s; }", ".LBegin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm := compile(t, tt.src)
			if !strings.Contains(asm, tt.want) {
				t.Errorf("%s: expected generated assembly to contain %q, got:\n%s", tt.name, tt.want, asm)
			}
		})
	}
}

// TestPointerArithmeticScaling checks that p+1 on an int* advances by
// 4 bytes (the pointee size), not 1 - the compiler scales the integer
// operand of pointer arithmetic by sizeof(*p) rather than emitting a
// byte-granular add.
func TestPointerArithmeticScaling(t *testing.T) {
	asm := compile(t, "int main(){ int a[2]; int *p=a; p=p+1; return 0; }")
	if !strings.Contains(asm, "imul rax, 4") {
		t.Errorf("expected pointer arithmetic on int* to scale by 4 (imul rax, 4), got:\n%s", asm)
	}
}

// TestFatalErrorsExitNonZero spawns this same test binary as a
// subprocess to exercise the fatal-diagnostic path (fatalAt/fatalf call
// os.Exit directly and would otherwise tear down the whole test run).
// This follows the standard crasher-subprocess pattern: the outer test
// re-execs itself with an environment variable set, and the inner
// invocation (gated on that variable, see TestCrasherHelper) drives the
// actual compile attempt and lets its fatal diagnostic exit the process.
func TestFatalErrorsExitNonZero(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"undeclared identifier", "int main(){ return xyzzy; }"},
		{"redeclaration", "int main(){ int x; int x; return 0; }"},
		{"sizeof type without parens", "int main(){ return sizeof int; }"},
		{"assign to non-lvalue", "int main(){ 1 = 2; return 0; }"},
		{"mismatched function redeclaration", "int f(int n); int f(int n, int m){ return n; } int main(){ return 0; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=TestCrasherHelper")
			cmd.Env = append(os.Environ(), "CC86_CRASH_TEST=1", "CC86_CRASH_SRC="+tt.src)
			out, err := cmd.CombinedOutput()

			exitErr, ok := err.(*exec.ExitError)
			if !ok {
				t.Fatalf("%s: expected the subprocess to exit non-zero with a fatal diagnostic, got err=%v output=%s", tt.name, err, out)
			}
			if exitErr.ExitCode() == 0 {
				t.Errorf("%s: expected non-zero exit status", tt.name)
			}
		})
	}
}

// TestCrasherHelper is not a real test: it is invoked as a subprocess
// by TestFatalErrorsExitNonZero to drive a single fatal compile to
// completion (and to os.Exit) without taking down the real test binary.
func TestCrasherHelper(t *testing.T) {
	if os.Getenv("CC86_CRASH_TEST") != "1" {
		t.Skip("only runs as a subprocess of TestFatalErrorsExitNonZero")
	}
	src := os.Getenv("CC86_CRASH_SRC")
	compile(t, src)
}
