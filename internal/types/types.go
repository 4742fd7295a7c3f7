package types

import (
	"fmt"

	"ferrite/internal/source"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota // unknown / error type
	KindUnit
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindTuple
	KindArray
	KindFn
	KindReference
	KindRawPointer
	KindOwn // owning smart pointer with a built-in deref
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTuple:
		return "tuple"
	case KindArray:
		return "array"
	case KindFn:
		return "fn"
	case KindReference:
		return "reference"
	case KindRawPointer:
		return "raw-pointer"
	case KindOwn:
		return "own"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsScalar reports whether the kind is a primitive scalar.
func (k Kind) IsScalar() bool {
	switch k {
	case KindUnit, KindBool, KindInt, KindUint, KindFloat:
		return true
	default:
		return false
	}
}

// Region is a coarse lifetime tag attached to reference types and rvalue
// temporaries. The engine only ever distinguishes the well-known static
// region from front-end-assigned ones; it performs no region inference.
type Region uint32

const (
	RegionNone   Region = 0
	RegionStatic Region = 1
)

func (r Region) IsValid() bool { return r != RegionNone }

func (r Region) String() string {
	switch r {
	case RegionNone:
		return "'?"
	case RegionStatic:
		return "'static"
	default:
		return fmt.Sprintf("'%d", r)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// ArrayDynamicLength marks slices with unknown compile-time length.
const ArrayDynamicLength = ^uint32(0)

// Type is a compact descriptor for any supported type. Which fields are
// meaningful depends on Kind; unused fields stay zero so descriptors can be
// compared and interned directly.
type Type struct {
	Kind    Kind
	Elem    TypeID          // array/slice element, pointee, own payload, fn result
	Count   uint32          // array length, tuple arity, fn param count
	Width   Width           // numeric primitives
	Mutable bool            // references and raw pointers
	Region  Region          // references
	Name    source.StringID // nominal structs/enums
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width (WidthAny for "int").
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeTuple describes a tuple of the given arity.
func MakeTuple(arity uint32) Type {
	return Type{Kind: KindTuple, Count: arity}
}

// MakeArray describes an array/slice of element type. Use ArrayDynamicLength
// for open-ended slices.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakeFn describes a function type by arity and result.
func MakeFn(params uint32, result TypeID) Type {
	return Type{Kind: KindFn, Count: params, Elem: result}
}

// MakeReference describes &T or &mut T in the given region.
func MakeReference(elem TypeID, mutable bool, region Region) Type {
	return Type{Kind: KindReference, Elem: elem, Mutable: mutable, Region: region}
}

// MakeRawPointer describes *const T or *mut T.
func MakeRawPointer(elem TypeID, mutable bool) Type {
	return Type{Kind: KindRawPointer, Elem: elem, Mutable: mutable}
}

// MakeOwn describes an owning smart pointer around elem.
func MakeOwn(elem TypeID) Type {
	return Type{Kind: KindOwn, Elem: elem}
}

// MakeStruct describes a nominal struct type.
func MakeStruct(name source.StringID) Type {
	return Type{Kind: KindStruct, Name: name}
}

// MakeEnum describes a nominal enum type.
func MakeEnum(name source.StringID) Type {
	return Type{Kind: KindEnum, Name: name}
}
