package main

// references.go - Assignment, cast, comma, address-of and dereference
// expression nodes and their Intel-syntax codegen.
//
// Adapted from the teacher's Reference/Dereference/Assignment structs
// and generateAssignment/generateReference/generateDereference (kept the
// lea-for-address, movq-family-for-load/store shape) but generalized
// from a single-variable-map lookup to the local/global VarRef model,
// converted to Intel syntax, and given the &*/*&-cancellation and
// Array-result special cases spec.md §4.4 requires.

// AssignExpr is `target = value`; CompoundAssignment (`+=` etc.) is not
// a distinct node kind - the parser desugars it into an AssignExpr over
// a synthesized pointer temporary before this stage ever sees it, per
// spec.md §4.3.
type AssignExpr struct {
	typed
	Target ASTNode
	Value  ASTNode
}

func (*AssignExpr) astNode() {}

// CastExpr is an explicit, parser-inserted conversion.
type CastExpr struct {
	typed
	Operand ASTNode
}

func (*CastExpr) astNode() {}

// CommaExpr is `left, right`; it evaluates to the type and value of the
// right operand.
type CommaExpr struct {
	typed
	Left, Right ASTNode
}

func (*CommaExpr) astNode() {}

// AddrExpr is `&operand`.
type AddrExpr struct {
	typed
	Operand ASTNode
}

func (*AddrExpr) astNode() {}

// DerefExpr is `*operand`.
type DerefExpr struct {
	typed
	Pointer ASTNode
}

func (*DerefExpr) astNode() {}

// generateLvalueAddr leaves the address of an lvalue expression in rax.
// Only VarRef and DerefExpr are valid lvalues in this language surface.
func (cg *CodeGenerator) generateLvalueAddr(node ASTNode) {
	switch n := node.(type) {
	case *VarRef:
		if n.IsLocal {
			cg.emit("lea rax, [rbp-%d]", n.Offset)
		} else {
			cg.emit("lea rax, %s[rip]", n.Name)
		}
	case *DerefExpr:
		// The address a dereference yields is simply the pointer value.
		cg.generateExpr(n.Pointer)
	default:
		fatalf("internal error: %T is not an lvalue", node)
	}
}

// generateVarLoad loads a variable's value into rax, except when its
// type is Array: array-typed locals/globals evaluate to their base
// address (no load), per spec.md §4.3's array-decay rule.
func (cg *CodeGenerator) generateVarLoad(v *VarRef) {
	cg.generateLvalueAddr(v)
	if v.Type().Kind == Array {
		return
	}
	cg.loadSized(v.Type().Size())
}

// loadSized reads the value at the address currently in rax into rax,
// sized per the byte width of the value being loaded. A byte-sized load
// still widens into eax (movsx needs a wider destination than its
// source), so it can't route through accName the way storeSized does.
func (cg *CodeGenerator) loadSized(size int) {
	if size == CharSize {
		cg.emit("movsx eax, byte ptr [rax]")
		return
	}
	cg.emit("mov %s, [rax]", accName[size])
}

// storeSized writes rax's value to the address in rdi, sized per size.
func (cg *CodeGenerator) storeSized(size int) {
	cg.emit("mov [rdi], %s", accName[size])
}

func (cg *CodeGenerator) generateAssignExpr(a *AssignExpr) {
	cg.generateExpr(a.Value)
	cg.emit("push rax")
	cg.generateLvalueAddr(a.Target)
	cg.emit("mov rdi, rax")
	cg.emit("pop rax")
	cg.storeSized(a.Type().Size())
}

func (cg *CodeGenerator) generateCastExpr(c *CastExpr) {
	cg.generateExpr(c.Operand)
	from := c.Operand.Type()
	to := c.Typ
	// Only the narrow-to-wide scalar step emits an instruction; widening
	// a 32-bit value to pointer width is free because this codegen keeps
	// 32-bit results in the low 32 bits of the 64-bit register, per
	// original_source/rscc/src/asm.rs's CAST_TABLE.
	if from.Kind == Char && !from.IsPointerLike() && (to.Kind == Int || to.IsPointerLike()) {
		cg.emit("movsx eax, al")
	}
}

func (cg *CodeGenerator) generateAddrExpr(a *AddrExpr) {
	if d, ok := a.Operand.(*DerefExpr); ok {
		// &*y cancels to evaluating y directly.
		cg.generateExpr(d.Pointer)
		return
	}
	cg.generateLvalueAddr(a.Operand)
}

func (cg *CodeGenerator) generateDerefExpr(d *DerefExpr) {
	if a, ok := d.Pointer.(*AddrExpr); ok {
		// *&y cancels to evaluating y directly.
		cg.generateExpr(a.Operand)
		return
	}
	cg.generateExpr(d.Pointer)
	if d.Type().Kind == Array {
		return
	}
	cg.loadSized(d.Type().Size())
}
