package memcat

import (
	"ferrite/internal/ast"
	"ferrite/internal/types"
)

// Cmt is a categorized memory location for one expression or pattern node.
// Exactly one of Expr/Pat identifies the source node. Cat is nil for
// degenerate places the engine could not categorize (unresolved paths,
// missing operands); such a Cmt is conservative data, not an error.
//
// A Cmt is built once and never mutated; the Base chain inside Cat forms an
// exclusively-owned tree.
type Cmt struct {
	Expr ast.ExprID
	Pat  ast.PatID
	Cat  *Categorization
	Mut  MutabilityCategory
	Type types.TypeID
}

// IsMutable reports whether the place's address allows writes.
func (c Cmt) IsMutable() bool {
	return c.Mut.IsMutable()
}

// Aliasability determines whether an exclusive borrow of the place may be
// taken, by structural recursion over the categorization tree.
func (c Cmt) Aliasability() Aliasability {
	if c.Cat == nil {
		return AliasNonAliasable
	}
	switch c.Cat.Kind {
	case CatDeref:
		if c.Cat.Pointer.Class != BorrowedPtr {
			return AliasNonAliasable
		}
		if c.Cat.Pointer.Borrow == BorrowMutable {
			// Chains through nested &mut indirections: the deref is as
			// aliasable as the place holding the reference.
			return c.Cat.base().Aliasability()
		}
		return AliasFreelyBorrowed
	case CatStaticItem:
		if c.IsMutable() {
			return AliasFreelyStaticMut
		}
		return AliasFreelyStatic
	case CatInterior, CatDowncast:
		return c.Cat.base().Aliasability()
	default:
		return AliasNonAliasable
	}
}

// ImmutabilityBlame attributes the place's immutability to an upstream
// declaration or construct. Only meaningful when IsMutable is false.
func (c Cmt) ImmutabilityBlame() ImmutabilityBlame {
	if c.Cat == nil {
		return ImmutabilityBlame{}
	}
	switch c.Cat.Kind {
	case CatDeref:
		switch {
		case c.Cat.Pointer.Class == BorrowedPtr && c.Cat.Pointer.Borrow == BorrowImmutable:
			base := c.Cat.base()
			if base.Cat == nil {
				return ImmutabilityBlame{}
			}
			switch base.Cat.Kind {
			case CatLocal:
				return ImmutabilityBlame{Kind: BlameLocalDeref, Decl: base.Cat.Decl}
			case CatInterior:
				return ImmutabilityBlame{Kind: BlameAdtFieldDeref}
			default:
				return ImmutabilityBlame{}
			}
		case c.Cat.Pointer.Class == UnsafePtr:
			// Raw pointers carry no provenance to blame.
			return ImmutabilityBlame{}
		default:
			return c.Cat.base().ImmutabilityBlame()
		}
	case CatLocal:
		return ImmutabilityBlame{Kind: BlameImmutableLocal, Decl: c.Cat.Decl}
	case CatInterior, CatDowncast:
		return c.Cat.base().ImmutabilityBlame()
	default:
		return ImmutabilityBlame{}
	}
}

// base returns the owned base Cmt, or a zero Cmt for malformed input.
func (cat *Categorization) base() Cmt {
	if cat == nil || cat.Base == nil {
		return Cmt{}
	}
	return *cat.Base
}
