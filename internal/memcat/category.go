// Package memcat categorizes how the storage of an expression or pattern is
// reached: a fresh temporary, a named local, a static item, a pointer
// dereference, a field or element of a larger place, or an enum-variant
// payload. From the categorization it derives the mutability and
// aliasability of the place, which downstream diagnostics turn into messages
// like "cannot assign to immutable binding".
//
// Every entry point is total: unresolved names, missing sub-expressions and
// unsupported shapes degrade to a category-less Cmt instead of failing, so
// the engine survives arbitrarily broken input.
package memcat

import (
	"ferrite/internal/ast"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// BorrowKind differentiates shared vs exclusive borrows.
type BorrowKind uint8

const (
	BorrowImmutable BorrowKind = iota
	BorrowMutable
)

func (k BorrowKind) String() string {
	if k == BorrowMutable {
		return "mut"
	}
	return "imm"
}

// Compatible reports whether two borrows of the same place may coexist.
// Only shared borrows tolerate company.
func (k BorrowKind) Compatible(other BorrowKind) bool {
	return k == BorrowImmutable && other == BorrowImmutable
}

// PointerClass separates borrow-tracked references from raw pointers.
type PointerClass uint8

const (
	BorrowedPtr PointerClass = iota
	UnsafePtr
)

// PointerKind describes the pointer a dereference follows. Borrow and Region
// are meaningful for BorrowedPtr, Mutable for UnsafePtr.
type PointerKind struct {
	Class   PointerClass
	Borrow  BorrowKind
	Region  types.Region
	Mutable bool
}

// mutability reports the mutability category a dereference through this
// pointer yields.
func (pk PointerKind) mutability() MutabilityCategory {
	switch pk.Class {
	case BorrowedPtr:
		if pk.Borrow == BorrowMutable {
			return McDeclared
		}
		return McImmutable
	default:
		if pk.Mutable {
			return McDeclared
		}
		return McImmutable
	}
}

// InteriorClass tags the kind of sub-place within a base place.
type InteriorClass uint8

const (
	InteriorField InteriorClass = iota
	InteriorIndex
	InteriorPattern
)

// InteriorKind describes a sub-place reached without following a pointer.
// Named fields carry Field; tuple-style fields leave Field unset and carry
// the position in Index. Index and pattern interiors use neither.
type InteriorKind struct {
	Class InteriorClass
	Field source.StringID
	Index uint32
}

// MutabilityCategory is the mutability of an address, not of the value
// stored there.
type MutabilityCategory uint8

const (
	McImmutable MutabilityCategory = iota
	McDeclared
	McInherited
)

func (m MutabilityCategory) String() string {
	switch m {
	case McDeclared:
		return "declared"
	case McInherited:
		return "inherited"
	default:
		return "immutable"
	}
}

// Inherit is the mutability a sub-place gets from its base: sub-places never
// redeclare mutability, and immutability is absorbing.
func (m MutabilityCategory) Inherit() MutabilityCategory {
	if m == McImmutable {
		return McImmutable
	}
	return McInherited
}

// IsMutable reports whether the address may be written through.
func (m MutabilityCategory) IsMutable() bool {
	return m != McImmutable
}

// Aliasability reports whether more than one mutable access path to a place
// may exist, and when it may, why.
type Aliasability uint8

const (
	AliasNonAliasable Aliasability = iota
	AliasFreelyBorrowed
	AliasFreelyStatic
	AliasFreelyStaticMut
)

// Freely reports whether the place is freely aliasable, i.e. an exclusive
// borrow of it is illegal.
func (a Aliasability) Freely() bool {
	return a != AliasNonAliasable
}

func (a Aliasability) String() string {
	switch a {
	case AliasFreelyBorrowed:
		return "freely-aliasable(borrowed)"
	case AliasFreelyStatic:
		return "freely-aliasable(static)"
	case AliasFreelyStaticMut:
		return "freely-aliasable(static-mut)"
	default:
		return "non-aliasable"
	}
}

// BlameKind tags the construct responsible for a place's immutability.
type BlameKind uint8

const (
	BlameNone BlameKind = iota
	BlameLocalDeref
	BlameAdtFieldDeref
	BlameImmutableLocal
)

// ImmutabilityBlame points diagnostics at the declaration or construct that
// made a place immutable. Decl is meaningful for BlameLocalDeref and
// BlameImmutableLocal.
type ImmutabilityBlame struct {
	Kind BlameKind
	Decl ast.DeclID
}

// CategoryKind tags how a place's address is derived.
type CategoryKind uint8

const (
	CatRvalue CategoryKind = iota
	CatStaticItem
	CatLocal
	CatDeref
	CatInterior
	CatDowncast
)

func (k CategoryKind) String() string {
	switch k {
	case CatRvalue:
		return "rvalue"
	case CatStaticItem:
		return "static-item"
	case CatLocal:
		return "local"
	case CatDeref:
		return "deref"
	case CatInterior:
		return "interior"
	case CatDowncast:
		return "downcast"
	default:
		return "invalid"
	}
}

// Categorization is one step of address derivation. Which fields are
// meaningful depends on Kind:
//
//	CatRvalue     Region
//	CatStaticItem Decl
//	CatLocal      Decl
//	CatDeref      Base, Pointer
//	CatInterior   Base, Interior
//	CatDowncast   Base, Decl (the variant)
//
// Base is owned exclusively by this categorization; Cmt trees never share
// sub-trees.
type Categorization struct {
	Kind     CategoryKind
	Base     *Cmt
	Pointer  PointerKind
	Interior InteriorKind
	Decl     ast.DeclID
	Region   types.Region
}
