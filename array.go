package main

// array.go - Array initializer zero-clearing.
//
// The teacher's array.go built Go-slice-like heap-backed dynamic
// arrays (malloc-backed growth/resize) - entirely the wrong shape for C
// fixed-size arrays, so none of ArrayLiteral/ArrayAccess/ArrayDeclaration
// /DynamicArray survive. What is kept and adapted is the one array
// -specific runtime concern this language actually has: zero-clearing a
// local array's storage before running its per-element initializer
// stores, per spec.md §4.3/§4.4. Subscripting (`a[i]`) is not a distinct
// codegen case at all - the parser desugars it to `*(a + i)` at parse
// time, so it is compiled by the ordinary DerefExpr/BinaryExpr paths in
// references.go/arithmetic.go.

// ZeroClearStmt clears Size bytes of a local's storage to zero before an
// array initializer's per-cell assignments run.
type ZeroClearStmt struct {
	noType
	Offset int // frame offset (rbp-Offset is the lowest address of the range)
	Size   int
}

func (*ZeroClearStmt) astNode() {}

// generateZeroClearStmt implements spec.md §4.4's zero-clear strategy:
// rep stosq for large (>=128 byte) ranges, a descending sequence of
// 8/4/2/1-byte immediate-zero stores otherwise.
func (cg *CodeGenerator) generateZeroClearStmt(z *ZeroClearStmt) {
	if z.Size >= 128 {
		words := z.Size / 8
		cg.emit("lea rdi, [rbp-%d]", z.Offset)
		cg.emit("mov rcx, %d", words)
		cg.emit("xor rax, rax")
		cg.emit("rep stosq")
		if rem := z.Size % 8; rem > 0 {
			cg.zeroDescending(z.Offset-words*8, rem)
		}
		return
	}
	cg.zeroDescending(z.Offset, z.Size)
}

// zeroDescending covers [rbp-baseOffset, rbp-baseOffset+size) with the
// largest immediate-zero store that fits at each position, descending
// from 8 bytes down to 1.
func (cg *CodeGenerator) zeroDescending(baseOffset, size int) {
	ptrSize := map[int]string{8: "qword", 4: "dword", 2: "word", 1: "byte"}
	pos := 0
	for _, chunk := range []int{8, 4, 2, 1} {
		for pos+chunk <= size {
			cg.emit("mov %s ptr [rbp-%d], 0", ptrSize[chunk], baseOffset-pos)
			pos += chunk
		}
	}
}
