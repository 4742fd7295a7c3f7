// Package infer holds the front end's inference artefacts in the shape the
// categorization engine consumes them: per-expression types and coercions,
// resolution edges for paths and bindings, and the copy-type table. The
// package records results, it does not compute them; populating it is the
// type checker's job and out of scope here.
package infer

import (
	"ferrite/internal/ast"
	"ferrite/internal/types"
)

// AdjustKind tags one implicit coercion attached to an expression.
type AdjustKind uint8

const (
	// AdjustDeref is an implicit dereference the checker inserted, e.g. for
	// auto-deref on field access through a reference.
	AdjustDeref AdjustKind = iota
	// AdjustOther covers every coercion that does not change how the place
	// is reached (unsizing, reference insertion, numeric widening).
	AdjustOther
)

// Adjust is one entry of an expression's ordered coercion list.
type Adjust struct {
	Kind AdjustKind
	// Type after this coercion applied; NoTypeID when unknown.
	Type types.TypeID
}

// Result is the read-only inference table for one analyzed body.
type Result struct {
	// ExprTypes maps every typed expression to its (pre-adjustment) type.
	ExprTypes map[ast.ExprID]types.TypeID
	// ExprAdjusts lists coercions per expression in application order.
	ExprAdjusts map[ast.ExprID][]Adjust
	// PathDecls lists resolution candidates for each path expression.
	// Anything but exactly one candidate means resolution failed.
	PathDecls map[ast.ExprID][]ast.DeclID
	// PatDecls maps named patterns to what the name resolves to: a binding's
	// own declaration, a unit enum variant or constant for bare identifier
	// arms, and the constructor for tuple-struct and struct patterns.
	PatDecls map[ast.PatID]ast.DeclID
	// BindingTypes maps binding patterns to their bound type.
	BindingTypes map[ast.PatID]types.TypeID
	// CopyTypes is the set of nominal types with a copy impl.
	CopyTypes map[types.TypeID]struct{}
}

// NewResult allocates an empty table.
func NewResult() *Result {
	return &Result{
		ExprTypes:    make(map[ast.ExprID]types.TypeID),
		ExprAdjusts:  make(map[ast.ExprID][]Adjust),
		PathDecls:    make(map[ast.ExprID][]ast.DeclID),
		PatDecls:     make(map[ast.PatID]ast.DeclID),
		BindingTypes: make(map[ast.PatID]types.TypeID),
		CopyTypes:    make(map[types.TypeID]struct{}),
	}
}

// ExprType returns the recorded type of expr, or NoTypeID.
func (r *Result) ExprType(expr ast.ExprID) types.TypeID {
	if r == nil || !expr.IsValid() {
		return types.NoTypeID
	}
	return r.ExprTypes[expr]
}

// Adjusts returns the coercions recorded for expr in application order.
func (r *Result) Adjusts(expr ast.ExprID) []Adjust {
	if r == nil || !expr.IsValid() {
		return nil
	}
	return r.ExprAdjusts[expr]
}

// ResolvedPaths returns the resolution candidates for a path expression.
func (r *Result) ResolvedPaths(expr ast.ExprID) []ast.DeclID {
	if r == nil || !expr.IsValid() {
		return nil
	}
	return r.PathDecls[expr]
}

// PatDecl returns what an identifier pattern resolves to, or NoDeclID.
func (r *Result) PatDecl(pat ast.PatID) ast.DeclID {
	if r == nil || !pat.IsValid() {
		return ast.NoDeclID
	}
	return r.PatDecls[pat]
}

// BindingType returns the bound type of a binding pattern, or NoTypeID.
func (r *Result) BindingType(pat ast.PatID) types.TypeID {
	if r == nil || !pat.IsValid() {
		return types.NoTypeID
	}
	return r.BindingTypes[pat]
}

// IsCopy reports whether values of the given type are implicitly duplicated
// rather than moved. It satisfies the copy-query contract the engine expects
// from trait resolution.
func (r *Result) IsCopy(id types.TypeID) bool {
	if r == nil || id == types.NoTypeID {
		return false
	}
	_, ok := r.CopyTypes[id]
	return ok
}
