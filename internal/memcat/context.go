package memcat

import (
	"ferrite/internal/ast"
	"ferrite/internal/infer"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// CopyQuery is the trait-resolution contract the engine consumes: whether
// values of a type are implicitly duplicated rather than moved.
type CopyQuery interface {
	IsCopy(types.TypeID) bool
}

// Context categorizes expressions and patterns against already-computed
// inference data. It holds no mutable state: one context may serve any
// number of ProcessExpr/WalkPat calls, concurrently if the referenced tables
// are no longer being written.
type Context struct {
	Builder *ast.Builder
	Types   *types.Interner
	Strings *source.Interner
	Infer   *infer.Result
	Copy    CopyQuery
	// DefaultMutable is the ambient mutability assumed where no better
	// information exists (deref of a type without a deref relation,
	// degenerate places).
	DefaultMutable bool
}

// exprType returns the best-effort type of expr.
func (mc *Context) exprType(expr ast.ExprID) types.TypeID {
	return mc.Infer.ExprType(expr)
}

// defaultMut is the mutability category degenerate places get.
func (mc *Context) defaultMut() MutabilityCategory {
	if mc.DefaultMutable {
		return McDeclared
	}
	return McImmutable
}

// bare builds the conservative category-less Cmt every unresolvable or
// malformed expression degrades to.
func (mc *Context) bare(expr ast.ExprID) Cmt {
	return Cmt{Expr: expr, Mut: mc.defaultMut(), Type: mc.exprType(expr)}
}

// ProcessExpr categorizes expr with its implicit coercions applied, peeling
// them off back to front: an implicit dereference layers a deref
// categorization on top of whatever the remaining coercions produce, and any
// other coercion turns the expression into a fresh temporary of the
// coercion's target type.
func (mc *Context) ProcessExpr(expr ast.ExprID) Cmt {
	if !expr.IsValid() {
		return mc.bare(expr)
	}
	return mc.processExprAdjusted(expr, mc.Infer.Adjusts(expr))
}

func (mc *Context) processExprAdjusted(expr ast.ExprID, adjusts []infer.Adjust) Cmt {
	if len(adjusts) == 0 {
		return mc.processExprUnadjusted(expr)
	}
	last := adjusts[len(adjusts)-1]
	rest := adjusts[:len(adjusts)-1]
	if last.Kind == infer.AdjustDeref {
		return mc.processDeref(expr, mc.processExprAdjusted(expr, rest))
	}
	ty := last.Type
	if ty == types.NoTypeID {
		ty = mc.exprType(expr)
	}
	return mc.ProcessRvalueScoped(expr, types.RegionStatic, ty)
}

// processExprUnadjusted dispatches on the expression's syntactic shape.
func (mc *Context) processExprUnadjusted(expr ast.ExprID) Cmt {
	node := mc.Builder.Exprs.Get(expr)
	if node == nil {
		return mc.bare(expr)
	}
	switch node.Kind {
	case ast.ExprUnary:
		data, _ := mc.Builder.Exprs.Unary(expr)
		if data == nil || data.Op != ast.UnopDeref {
			return mc.ProcessRvalue(expr)
		}
		if !data.Operand.IsValid() {
			return mc.bare(expr)
		}
		return mc.processDeref(expr, mc.ProcessExpr(data.Operand))

	case ast.ExprMember:
		data, _ := mc.Builder.Exprs.Member(expr)
		if data == nil || data.IsCall {
			// A method call yields a fresh value, never a place.
			return mc.ProcessRvalue(expr)
		}
		if !data.Base.IsValid() {
			return mc.bare(expr)
		}
		base := mc.ProcessExpr(data.Base)
		return mc.interior(expr, base, InteriorKind{Class: InteriorField, Field: data.Name}, mc.exprType(expr))

	case ast.ExprIndex:
		data, _ := mc.Builder.Exprs.Index(expr)
		if data == nil || !data.Base.IsValid() {
			return mc.bare(expr)
		}
		base := mc.ProcessExpr(data.Base)
		return mc.interior(expr, base, InteriorKind{Class: InteriorIndex}, mc.exprType(expr))

	case ast.ExprPath:
		return mc.processPath(expr)

	case ast.ExprGroup:
		data, _ := mc.Builder.Exprs.Group(expr)
		if data == nil || !data.Inner.IsValid() {
			return mc.bare(expr)
		}
		// Parentheses introduce no place of their own.
		return mc.ProcessExpr(data.Inner)

	default:
		return mc.ProcessRvalue(expr)
	}
}

// processPath categorizes an identifier/path expression from what it
// resolves to. Ambiguous or failed resolution degrades to a bare Cmt.
func (mc *Context) processPath(expr ast.ExprID) Cmt {
	candidates := mc.Infer.ResolvedPaths(expr)
	if len(candidates) != 1 {
		return mc.bare(expr)
	}
	declID := candidates[0]
	decl := mc.Builder.Decls.Get(declID)
	if decl == nil {
		return mc.bare(expr)
	}
	switch decl.Kind {
	case ast.DeclStatic:
		mut := McImmutable
		if decl.Mutable {
			mut = McDeclared
		}
		return Cmt{
			Expr: expr,
			Cat:  &Categorization{Kind: CatStaticItem, Decl: declID},
			Mut:  mut,
			Type: mc.exprType(expr),
		}
	case ast.DeclConst, ast.DeclFn, ast.DeclStructCtor, ast.DeclVariant:
		// Constants and value-position constructors materialize fresh values.
		return mc.ProcessRvalue(expr)
	case ast.DeclLet, ast.DeclSelfParam:
		mut := McImmutable
		if decl.Mutable {
			mut = McDeclared
		}
		return Cmt{
			Expr: expr,
			Cat:  &Categorization{Kind: CatLocal, Decl: declID},
			Mut:  mut,
			Type: mc.exprType(expr),
		}
	default:
		return mc.bare(expr)
	}
}

// processDeref layers a dereference on top of base. The pointer being
// followed is classified from base's static type, not from the dereferenced
// expression.
func (mc *Context) processDeref(expr ast.ExprID, base Cmt) Cmt {
	var pk PointerKind
	target := types.NoTypeID
	tt, known := mc.Types.Lookup(base.Type)
	switch {
	case known && tt.Kind == types.KindReference:
		borrow := BorrowImmutable
		if tt.Mutable {
			borrow = BorrowMutable
		}
		pk = PointerKind{Class: BorrowedPtr, Borrow: borrow, Region: tt.Region}
		target = tt.Elem
	case known && tt.Kind == types.KindRawPointer:
		pk = PointerKind{Class: UnsafePtr, Mutable: tt.Mutable}
		target = tt.Elem
	default:
		// Smart-pointer or unknown target: treat like a raw pointer with
		// the mutability the built-in deref relation yields.
		elem, mutable, ok := mc.Types.BuiltinDeref(base.Type)
		if !ok {
			elem, mutable = types.NoTypeID, mc.DefaultMutable
		}
		pk = PointerKind{Class: UnsafePtr, Mutable: mutable}
		target = elem
	}
	return Cmt{
		Expr: expr,
		Cat:  &Categorization{Kind: CatDeref, Base: &base, Pointer: pk},
		Mut:  pk.mutability(),
		Type: target,
	}
}

// ProcessRvalue categorizes expr as a fresh temporary. All plain rvalues
// share the coarse static region; precise temporary scopes are a drop-scope
// concern, not ours.
func (mc *Context) ProcessRvalue(expr ast.ExprID) Cmt {
	return mc.ProcessRvalueScoped(expr, types.RegionStatic, mc.exprType(expr))
}

// ProcessRvalueScoped is ProcessRvalue for callers that already know the
// temporary's scope region and type.
func (mc *Context) ProcessRvalueScoped(expr ast.ExprID, region types.Region, ty types.TypeID) Cmt {
	return Cmt{
		Expr: expr,
		Cat:  &Categorization{Kind: CatRvalue, Region: region},
		Mut:  McDeclared,
		Type: ty,
	}
}

// interior builds the sub-place Cmt for a field or element of base.
func (mc *Context) interior(expr ast.ExprID, base Cmt, kind InteriorKind, ty types.TypeID) Cmt {
	return Cmt{
		Expr: expr,
		Cat:  &Categorization{Kind: CatInterior, Base: &base, Interior: kind},
		Mut:  base.Mut.Inherit(),
		Type: ty,
	}
}
