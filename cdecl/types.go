// Package cdecl parses the C-style declarations embedded as mixed XML
// content in Khronos registry documents. A declaration arrives as an
// ordered sequence of raw text runs and wrapped elements (<type>, <enum>,
// <name>); the lexer turns those into classified tokens and the parser
// reduces the tokens to a declared name plus a structured type expression.
package cdecl

// Type is the structured form of a C type expression. A nil Type stands
// for an explicitly absent type, i.e. a plain void return.
type Type interface {
	isType()
	String() string
}

// Named is a base type referenced by name, e.g. uint32_t or VkInstance.
type Named struct {
	Name string
}

// Pointer is a pointer to Elem. ConstElem records const-qualification of
// the pointee, not of the pointer itself.
type Pointer struct {
	Elem      Type
	ConstElem bool
}

// Array is a fixed-size array of Elem.
type Array struct {
	Elem Type
	Len  ArrayLen
}

// FuncPtr is a function-pointer type. Ret is nil for void. Params hold the
// full parameter declarations, parsed recursively by this same package.
type FuncPtr struct {
	Ret    Type
	Params []Decl
}

func (Named) isType()   {}
func (Pointer) isType() {}
func (Array) isType()   {}
func (FuncPtr) isType() {}

// ArrayLen is a fixed array dimension: either an integer literal or a
// reference to a symbolic constant. Consumers can distinguish the two by
// type switch rather than by string inspection.
type ArrayLen interface {
	isArrayLen()
	String() string
}

// LitLen is a literal dimension, e.g. the 4 in float[4].
type LitLen struct {
	Value uint64
}

// ConstLen is a symbolic dimension, e.g. char[VK_MAX_EXTENSION_NAME_SIZE].
type ConstLen struct {
	Name string
}

func (LitLen) isArrayLen()   {}
func (ConstLen) isArrayLen() {}

// Decl is one parsed declaration: the declared identifier and its composed
// type. BitWidth is the bitfield width for struct members, 0 when absent.
type Decl struct {
	Name     string
	Type     Type
	BitWidth int
}

// Void is the bare C void base type. A declaration whose type equals Void
// with no pointer wrapper is an absent type; callers compare against Void
// to normalize that to nil.
var Void Type = Named{Name: "void"}
