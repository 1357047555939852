package main

import (
	"fmt"
	"strings"
)

// codegen.go - The Intel-syntax x86-64 code generator: section builders,
// label/function counters, and the top-level Generate entry point.
//
// Adapted from the teacher's CodeGenerator struct and
// GenerateAssembly/buildFinalAssembly: the per-section strings.Builder
// accumulation and the "walk statements, call one generate<Kind> method
// each" dispatch are kept, but the single-variable-map/freestanding
// -_start layout is replaced by the local/global symbol-table model and
// the .text/.bss/.rodata section layout spec.md §6 names (no .data
// section: every global this compiler accepts is zero-filled, since
// initialized globals are out of scope - see generateGlobalVarDecl in
// functions.go), and every AT&T-syntax instruction string is replaced by
// its Intel-syntax form (emitted once, via emit/emitRaw, instead of each
// caller hand-formatting "%reg"/"$imm").

// CodeGenerator accumulates assembly text while walking the typed AST.
type CodeGenerator struct {
	textSection   strings.Builder
	bssSection    strings.Builder
	rodataSection strings.Builder

	labelCount int // control-flow label counter
	funcCount  int // function begin/end label counter

	currentReturnLabel string // epilogue label of the function currently being generated
}

// NewCodeGenerator creates a fresh code generator instance.
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

// emit appends one instruction line to the current function's text,
// indented to match the teacher's four-space instruction convention.
func (cg *CodeGenerator) emit(format string, args ...any) {
	cg.textSection.WriteString("    ")
	fmt.Fprintf(&cg.textSection, format, args...)
	cg.textSection.WriteString("\n")
}

// emitRaw appends a directive line with no indentation.
func (cg *CodeGenerator) emitRaw(line string) {
	cg.textSection.WriteString(line)
	cg.textSection.WriteString("\n")
}

// emitLabel appends a bare label definition.
func (cg *CodeGenerator) emitLabel(name string) {
	cg.textSection.WriteString(name)
	cg.textSection.WriteString(":\n")
}

// prefixLabel mints "<prefix><n>", the shape of every label family named
// in spec.md §6 (.LBegin3, .LElse1, .LLogic.False2, ...).
func prefixLabel(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}

// Generate is the code generator's entry point: it walks the top-level
// program (a list of FuncDecl/GlobalVarDecl nodes produced by the
// parser) and the literal table it built along the way, and returns the
// complete assembly listing.
func Generate(program []ASTNode, lits *LiteralTable) string {
	cg := NewCodeGenerator()

	for _, node := range program {
		switch n := node.(type) {
		case *FuncDecl:
			cg.generateFuncDecl(n)
		case *GlobalVarDecl:
			cg.generateGlobalVarDecl(n)
		default:
			fatalf("internal error: unexpected top-level node %T", node)
		}
	}

	for _, label := range lits.Order() {
		body := lits.BodyFor(label)
		cg.rodataSection.WriteString(label + ":\n")
		cg.rodataSection.WriteString(fmt.Sprintf("    .string %q\n", body))
	}

	return cg.buildFinalAssembly()
}

// buildFinalAssembly assembles the section builders into one listing in
// the order spec.md §6 lists the sections.
func (cg *CodeGenerator) buildFinalAssembly() string {
	var b strings.Builder
	b.WriteString(IntelSyntaxDirective + "\n")

	if cg.textSection.Len() > 0 {
		b.WriteString(TextSectionDirective + "\n")
		b.WriteString(cg.textSection.String())
	}
	if cg.bssSection.Len() > 0 {
		b.WriteString(BssSectionDirective + "\n")
		b.WriteString(cg.bssSection.String())
	}
	if cg.rodataSection.Len() > 0 {
		b.WriteString(RodataSectionDirective + "\n")
		b.WriteString(cg.rodataSection.String())
	}
	return b.String()
}
