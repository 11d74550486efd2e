package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindInteger
	KindFloat32
	KindFloat64
	KindPointer
	KindArray
	KindVector
	KindStruct
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindInteger:
		return "integer"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindVector:
		return "vector"
	case KindStruct:
		return "struct"
	case KindLabel:
		return "label"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind  Kind
	Elem  TypeID // element type for pointer/array/vector
	Count uint32 // array length, vector lane count
	Bits  uint32 // integer bit width
	body  uint32 // struct body index inside the interner (0 = none)
}

// Descriptor helpers ---------------------------------------------------------

// MakeInteger describes a signed-agnostic integer of the given bit width.
func MakeInteger(bits uint32) Type {
	return Type{Kind: KindInteger, Bits: bits}
}

// MakePointer describes a pointer to elem.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeArray describes an array of count elements.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakeVector describes a vector of lanes scalar elements.
func MakeVector(elem TypeID, lanes uint32) Type {
	return Type{Kind: KindVector, Elem: elem, Count: lanes}
}
