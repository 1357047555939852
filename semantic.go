package main

import (
	"fmt"
	"strings"
)

// semantic.go - The parser's symbol bookkeeping: local-frame offset
// accounting, the global name table (forward-declare/define tracking for
// functions, zero-initialized globals), and the de-duplicated string
// -literal table the code generator drains into .rodata.
//
// Adapted from the teacher's SemanticAnalyzer/SymbolInfo/scope-stack: the
// shape (a table the front end consults and mutates as it walks
// declarations) is kept, and levenshteinDistance/FindSimilar* survive
// almost verbatim for "did you mean" diagnostics, but push/pop lexical
// scoping and unused-variable/shadowing warnings are replaced by spec.md
// §4.3's flat per-function local frame and the global declared/defined
// bookkeeping original_source/rscc performs for functions seen more than
// once (this language has no block scoping: every local lives for the
// whole function, per spec.md §4.3).

// localVar is one local variable's or parameter's slot in the current
// function's stack frame.
type localVar struct {
	Offset int // rbp-Offset is the lowest address of the variable's storage
	Typ    *CType
}

// globalKind distinguishes the two things a file-scope name can be.
type globalKind int

const (
	globalVar globalKind = iota
	globalFunc
)

// globalEntry is one file-scope name: either a variable (always .bss, per
// spec.md §4.3) or a function, whose Declared/Defined pair lets the
// parser accept a prototype followed later by a matching definition
// (or reject a redefinition/conflicting redeclaration), per
// original_source/rscc's forward-declaration bookkeeping.
type globalEntry struct {
	Kind     globalKind
	VarType  *CType
	FuncType *CType // Kind == globalFunc: Args/ReturnType carry the signature
	Declared bool
	Defined  bool
}

// SymbolTable holds the parser's two name spaces - the current function's
// local frame and the file's global names - plus the string-literal pool.
type SymbolTable struct {
	locals   map[string]localVar
	frameMax int

	globals map[string]*globalEntry

	Lits *LiteralTable
}

// NewSymbolTable returns an empty table, ready for a new source file.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		globals: make(map[string]*globalEntry),
		Lits:    NewLiteralTable(),
	}
}

// BeginFunction resets the local frame for a new function body.
func (s *SymbolTable) BeginFunction() {
	s.locals = make(map[string]localVar)
	s.frameMax = 0
}

// alignFor returns the alignment a slot of the given base scalar size
// (1, 4, or 8 - the only scalar sizes this language has) is placed at.
func alignFor(size int) int {
	switch {
	case size >= 8:
		return 8
	case size >= 4:
		return 4
	case size >= 2:
		return 2
	default:
		return 1
	}
}

// alignUp rounds x up to the next multiple of a.
func alignUp(x, a int) int {
	if a <= 1 {
		return x
	}
	return (x + a - 1) / a * a
}

// baseScalarSize returns the element size alignment is computed from: an
// array's own element type, recursively, or the type's own size for
// everything else (a Pointer is 8, an Int 4, a Char 1).
func baseScalarSize(t *CType) int {
	for t.Kind == Array {
		t = t.Pointee
	}
	return t.Size()
}

// DeclareLocal reserves a frame slot for name, aligning the running
// offset to the variable's base scalar size before growing it by the
// variable's full size (element size times length, for an array), per
// spec.md §4.3's local-frame layout. Redeclaration in the same function
// is a compile error.
func (s *SymbolTable) DeclareLocal(name string, t *CType) *localVar {
	if _, exists := s.locals[name]; exists {
		fatalf("redeclaration of %q in this scope", name)
	}
	align := alignFor(baseScalarSize(t))
	s.frameMax = alignUp(s.frameMax, align)
	s.frameMax += t.Size()
	v := localVar{Offset: s.frameMax, Typ: t}
	s.locals[name] = v
	return &v
}

// LookupLocal finds a variable in the current function's frame.
func (s *SymbolTable) LookupLocal(name string) (localVar, bool) {
	v, ok := s.locals[name]
	return v, ok
}

// EndFunction returns the current frame's total size, rounded up to a
// 16-byte boundary so the prologue's `sub rsp, N` preserves the incoming
// alignment, and clears the frame for the next function.
func (s *SymbolTable) EndFunction() int {
	size := alignUp(s.frameMax, 16)
	s.locals = nil
	s.frameMax = 0
	return size
}

// DeclareGlobalVar registers a file-scope variable. A name already bound
// to a function, or re-declared with a conflicting type, is a compile
// error.
func (s *SymbolTable) DeclareGlobalVar(name string, t *CType) {
	if existing, ok := s.globals[name]; ok {
		if existing.Kind != globalVar || !existing.VarType.Equal(t) {
			fatalf("conflicting declaration of %q", name)
		}
		return
	}
	s.globals[name] = &globalEntry{Kind: globalVar, VarType: t}
}

// DeclareFunction records a prototype or definition for name. A second
// definition is a compile error; a second declaration whose signature
// does not match the first is a compile error; a definition following an
// earlier prototype checks the signatures agree.
func (s *SymbolTable) DeclareFunction(name string, sig *CType, hasBody bool) *globalEntry {
	if existing, ok := s.globals[name]; ok {
		if existing.Kind != globalFunc {
			fatalf("%q redeclared as a different kind of symbol", name)
		}
		if !signaturesEqual(existing.FuncType, sig) {
			fatalf("conflicting types for %q", name)
		}
		if hasBody {
			if existing.Defined {
				fatalf("redefinition of %q", name)
			}
			existing.Defined = true
		}
		return existing
	}
	entry := &globalEntry{Kind: globalFunc, FuncType: sig, Declared: true, Defined: hasBody}
	s.globals[name] = entry
	return entry
}

// signaturesEqual compares two Function-kind types by return type and
// full argument-type list. CType.Equal folds Function down to a bare
// Kind tag (it only distinguishes pointer-chain depth and terminal
// kind, per the Type Model's equality rule), so a dedicated comparison
// is needed here to actually catch an arg-count or arg-type mismatch
// between a prototype and its definition.
func signaturesEqual(a, b *CType) bool {
	if !a.ReturnType.Equal(b.ReturnType) {
		return false
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Equal(b.Args[i]) {
			return false
		}
	}
	return true
}

// LookupGlobal finds a file-scope name (variable or function).
func (s *SymbolTable) LookupGlobal(name string) (*globalEntry, bool) {
	e, ok := s.globals[name]
	return e, ok
}

// FindSimilarGlobal returns the closest global name to name for a "did
// you mean" hint, or "" if nothing is close enough.
func (s *SymbolTable) FindSimilarGlobal(name string) string {
	best, bestDist := "", 3
	for cand := range s.globals {
		if d := levenshteinDistance(strings.ToLower(name), strings.ToLower(cand)); d < bestDist {
			bestDist, best = d, cand
		}
	}
	return best
}

// FindSimilarLocal returns the closest local name to name for a "did you
// mean" hint, or "" if nothing is close enough.
func (s *SymbolTable) FindSimilarLocal(name string) string {
	best, bestDist := "", 3
	for cand := range s.locals {
		if d := levenshteinDistance(strings.ToLower(name), strings.ToLower(cand)); d < bestDist {
			bestDist, best = d, cand
		}
	}
	return best
}

// levenshteinDistance computes the edit distance between two strings,
// used for "did you mean?" suggestions on undeclared identifiers.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	d := make([][]int, len(s1)+1)
	for i := range d {
		d[i] = make([]int, len(s2)+1)
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			deletion := d[i-1][j] + 1
			insertion := d[i][j-1] + 1
			substitution := d[i-1][j-1] + cost

			minVal := deletion
			if insertion < minVal {
				minVal = insertion
			}
			if substitution < minVal {
				minVal = substitution
			}
			d[i][j] = minVal
		}
	}

	return d[len(s1)][len(s2)]
}

// LiteralTable de-duplicates string literal bodies into .LCn labels, in
// first-seen order, for codegen.go's final .rodata pass.
type LiteralTable struct {
	labelOf map[string]string
	bodyOf  map[string]string
	order   []string
	next    int
}

// NewLiteralTable returns an empty literal pool.
func NewLiteralTable() *LiteralTable {
	return &LiteralTable{
		labelOf: make(map[string]string),
		bodyOf:  make(map[string]string),
	}
}

// Intern returns the label for body, minting a new .LCn the first time a
// given body is seen and reusing it for identical literals thereafter.
func (lt *LiteralTable) Intern(body string) string {
	if lbl, ok := lt.labelOf[body]; ok {
		return lbl
	}
	lbl := fmt.Sprintf("%s%d", LiteralLabelPrefix, lt.next)
	lt.next++
	lt.labelOf[body] = lbl
	lt.bodyOf[lbl] = body
	lt.order = append(lt.order, lbl)
	return lbl
}

// Order returns the literal labels in first-seen order.
func (lt *LiteralTable) Order() []string {
	return lt.order
}

// BodyFor returns the string body a label was interned for.
func (lt *LiteralTable) BodyFor(label string) string {
	return lt.bodyOf[label]
}
