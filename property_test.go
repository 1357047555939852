package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// property_test.go - the randomized arithmetic-equivalence property: for
// random well-typed expressions over the full binary-operator set with
// int operands in [-1000,1000], the compiled program's exit status must
// equal the expression evaluated in two's-complement 32-bit arithmetic,
// reduced modulo 256 (an exit status is only ever a single byte).
//
// Uses a fixed-seed math/rand source rather than testing/quick so a
// failure is reproducible without capturing a separate seed - same
// rationale as the fixed scenarios in testdata/scenarios.txtar, but for
// a property that can't be enumerated as a handful of fixtures.

var propertyOps = []string{
	"+", "-", "*", "/", "%", "<<", ">>",
	"&", "|", "^", "&&", "||", "<", "<=", "==", "!=",
}

// evalBinOpInt32 mirrors what this compiler's generated code actually
// computes for each binary operator, over wrapping 32-bit int operands.
func evalBinOpInt32(op string, a, b int32) int32 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	case "%":
		return a % b
	case "<<":
		return a << uint(b)
	case ">>":
		return a >> uint(b)
	case "&":
		return a & b
	case "|":
		return a | b
	case "^":
		return a ^ b
	case "&&":
		if a != 0 && b != 0 {
			return 1
		}
		return 0
	case "||":
		if a != 0 || b != 0 {
			return 1
		}
		return 0
	case "<":
		if a < b {
			return 1
		}
		return 0
	case "<=":
		if a <= b {
			return 1
		}
		return 0
	case "==":
		if a == b {
			return 1
		}
		return 0
	case "!=":
		if a != b {
			return 1
		}
		return 0
	default:
		panic("unhandled operator " + op)
	}
}

// randOperand returns a random int in [-1000,1000]; randShiftAmount
// clamps a shift's right operand to [0,31] so the expression's meaning
// isn't implementation-defined before the compiler even gets a chance to
// be right or wrong about it.
func randOperand(r *rand.Rand) int32 {
	return int32(r.Intn(2001) - 1000)
}

func randShiftAmount(r *rand.Rand) int32 {
	return int32(r.Intn(32))
}

// TestPropertyRandomArithmeticExitStatus is the spec.md §7 randomized
// property: compile `int main(){ return a OP b; }` for random well-typed
// operands and check the process's exit status against the reference
// evaluation, mod 256.
func TestPropertyRandomArithmeticExitStatus(t *testing.T) {
	if _, err := exec.LookPath("gcc"); err != nil {
		t.Skip("gcc not found on PATH")
	}

	r := rand.New(rand.NewSource(20260730))
	const trialsPerOp = 5

	for _, op := range propertyOps {
		op := op
		for trial := 0; trial < trialsPerOp; trial++ {
			a := randOperand(r)
			b := randOperand(r)
			if op == "<<" || op == ">>" {
				b = randShiftAmount(r)
			}
			if (op == "/" || op == "%") && b == 0 {
				b = 1
			}

			want := byte(evalBinOpInt32(op, a, b))
			src := fmt.Sprintf("int main(){ return %d %s %d; }", a, op, b)

			t.Run(fmt.Sprintf("%s/%d_%d", op, a, b), func(t *testing.T) {
				dir := t.TempDir()
				cFile := filepath.Join(dir, "expr.c")
				if err := os.WriteFile(cFile, []byte(src), 0644); err != nil {
					t.Fatalf("writing source: %v", err)
				}

				binPath := filepath.Join(dir, "expr")
				compiler := NewCompiler(&CompilerOptions{OutPath: binPath})
				if err := compiler.CompileFile(cFile); err != nil {
					t.Fatalf("compiling %q: %v", src, err)
				}

				cmd := exec.Command(binPath)
				err := cmd.Run()
				got := byte(0)
				if exitErr, ok := err.(*exec.ExitError); ok {
					got = byte(exitErr.ExitCode())
				} else if err != nil {
					t.Fatalf("running compiled binary for %q: %v", src, err)
				}

				if got != want {
					t.Errorf("%q: exit status = %d, want %d", src, got, want)
				}
			})
		}
	}
}
