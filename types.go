package main

// types.go - The C type model: tagged type records, equality, and the
// common-type rank lattice used for implicit conversions.
//
// Generalized from the teacher's TokenType-keyed size tables down to
// spec's two scalar kinds plus pointer/array/function composition, and
// grounded in original_source/rscc/src/typecell.rs's flattened
// "pointer_end + chains" representation of a pointer-to-...-to-T chain
// (kept here as PointerEnd/Chains rather than rscc's recursive
// Option<Rc<RefCell<TypeCell>>> seen in the older step18 snapshot).

import "fmt"

// Kind is the type tag.
type Kind int

const (
	Invalid Kind = iota
	Int
	Char
	Pointer
	Array
	Function
)

// CType is a tagged type record. Pointer and Array always carry a
// non-nil Pointee; Function always carries ReturnType and Args.
type CType struct {
	Kind       Kind
	Pointee    *CType // Pointer, Array
	ArrayLen   *int   // Array; nil means a flexible array sized by its initializer
	ReturnType *CType // Function
	Args       []*CType

	// Derived, computed once at construction.
	PointerEnd *CType // the non-pointer/non-array type at the end of a pointer chain
	Chains     int    // pointer depth (number of Pointer/Array layers peeled)
}

var (
	IntType  = &CType{Kind: Int}
	CharType = &CType{Kind: Char}
)

func init() {
	IntType.PointerEnd = IntType
	CharType.PointerEnd = CharType
}

// NewPointer builds a pointer-to-pointee type.
func NewPointer(pointee *CType) *CType {
	return &CType{
		Kind:       Pointer,
		Pointee:    pointee,
		PointerEnd: pointee.PointerEnd,
		Chains:     pointee.Chains + 1,
	}
}

// NewArray builds an array-of-length-n-pointee type. length is nil for
// a flexible array whose size is fixed later by its initializer.
func NewArray(pointee *CType, length *int) *CType {
	return &CType{
		Kind:       Array,
		Pointee:    pointee,
		ArrayLen:   length,
		PointerEnd: pointee.PointerEnd,
		Chains:     pointee.Chains + 1,
	}
}

// NewFunction builds a function type.
func NewFunction(ret *CType, args []*CType) *CType {
	return &CType{Kind: Function, ReturnType: ret, Args: args}
}

// Size returns the byte size of the type. Array requires ArrayLen to be
// resolved (fixed by the parser once the initializer, if any, is seen).
func (t *CType) Size() int {
	switch t.Kind {
	case Int:
		return IntSize
	case Char:
		return CharSize
	case Pointer:
		return PointerSize
	case Array:
		n := 0
		if t.ArrayLen != nil {
			n = *t.ArrayLen
		}
		return t.Pointee.Size() * n
	default:
		return 0
	}
}

// Equal implements type equality: the pointer chain length and terminal
// type must coincide. This deliberately folds Array into Pointer for
// comparison purposes, per the Type Model invariant; callers that must
// distinguish "was this declared as an array" (sizeof, &) check Kind
// directly instead of calling Equal.
func (t *CType) Equal(o *CType) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Chains != o.Chains {
		return false
	}
	if t.Chains == 0 {
		return t.Kind == o.Kind
	}
	return t.PointerEnd.Kind == o.PointerEnd.Kind
}

// IsPointerLike reports whether the type decays to, or already is, a
// pointer (Pointer or Array).
func (t *CType) IsPointerLike() bool {
	return t.Kind == Pointer || t.Kind == Array
}

// Decay returns the pointer type an Array decays to in arithmetic and
// argument contexts; non-arrays are returned unchanged.
func (t *CType) Decay() *CType {
	if t.Kind == Array {
		return NewPointer(t.Pointee)
	}
	return t
}

// rank places a scalar/pointer type on the I8 < I32 < U64 lattice used
// to pick the common type of a binary arithmetic operation. Pointer-end
// types are mapped onto the lattice via their own terminal kind, but any
// pointer-chain depth > 0 always outranks both scalars (pointer
// arithmetic is handled before common-type conversion is reached; this
// rank only matters for the scalar Cast-insertion path).
func rank(t *CType) int {
	d := t.Decay()
	if d.Chains > 0 {
		return 2 // treat as U64-class for the purpose of arithmetic promotion
	}
	switch d.Kind {
	case Char:
		return 0 // I8
	case Int:
		return 1 // I32
	default:
		return 1
	}
}

// CommonType returns the type both operands of a binary arithmetic
// operator are converted to, per the I8 < I32 < U64 rank lattice.
func CommonType(a, b *CType) *CType {
	ad, bd := a.Decay(), b.Decay()
	if ad.IsPointerLike() {
		return ad
	}
	if bd.IsPointerLike() {
		return bd
	}
	if rank(ad) >= rank(bd) {
		return ad
	}
	return bd
}

// String renders a type for diagnostics.
func (t *CType) String() string {
	if t == nil {
		return "<invalid>"
	}
	switch t.Kind {
	case Int:
		return "int"
	case Char:
		return "char"
	case Pointer:
		return fmt.Sprintf("%s*", t.Pointee)
	case Array:
		if t.ArrayLen != nil {
			return fmt.Sprintf("%s[%d]", t.Pointee, *t.ArrayLen)
		}
		return fmt.Sprintf("%s[]", t.Pointee)
	case Function:
		return fmt.Sprintf("%s(...)", t.ReturnType)
	default:
		return "<invalid>"
	}
}
