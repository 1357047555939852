package main

// memory.go - sizeof.
//
// malloc/free (the teacher's MallocCall/FreeCall, libc@PLT calling
// convention) are removed: dynamic allocation is not part of the
// supported C surface (spec.md §6 lists only scalar/pointer/array types
// and the operators named in §4.3 - there is no heap). What remains and
// is adapted from this file is sizeof, which this compiler treats as a
// compile-time constant rather than a runtime node: the operand's type
// is always known by the time `sizeof` is parsed (variable types are
// fixed at declaration, including flexible-array extents, which are
// resolved immediately from the initializer), so the parser folds
// `sizeof x` directly into a NumberLit carrying the byte extent instead
// of emitting any instructions - there is nothing for a code generator
// method to do here.

// sizeofType returns the byte extent sizeof(t) evaluates to, special
// -casing Array so the full extent (element size times length) is
// returned rather than a decayed pointer size, per spec.md §4.3.
func sizeofType(t *CType) int {
	return t.Size()
}
