package memcat

import (
	"ferrite/internal/ast"
	"ferrite/internal/types"
)

// PatVisit receives every (place, pattern) pair WalkPat produces, parent
// before children. Diagnostics and binding collection hook in here.
type PatVisit func(Cmt, ast.PatID)

// WalkPat decomposes pattern against the place described by cmt, invoking
// visit at every node in pre-order.
func (mc *Context) WalkPat(cmt Cmt, pat ast.PatID, visit PatVisit) {
	if !pat.IsValid() || visit == nil {
		return
	}
	visit(cmt, pat)

	node := mc.Builder.Pats.Get(pat)
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.PatBind:
		// A bare identifier arm may actually name a unit enum variant or a
		// constant; that is a comparison, not a binding, and there is
		// nothing underneath to decompose.
		if mc.patNamesConstant(pat) {
			return
		}
		bind, _ := mc.Builder.Pats.Bind(pat)
		if bind != nil && bind.Sub.IsValid() {
			// x @ subpat matches subpat against the same place.
			mc.WalkPat(cmt, bind.Sub, visit)
		}

	case ast.PatTuple:
		data, _ := mc.Builder.Pats.Tuple(pat)
		if data != nil {
			mc.walkPositional(cmt, data.Elems, visit)
		}

	case ast.PatTupleStruct:
		data, _ := mc.Builder.Pats.TupleStruct(pat)
		if data != nil {
			mc.walkPositional(mc.downcastIfVariant(cmt, pat), data.Elems, visit)
		}

	case ast.PatStruct:
		data, _ := mc.Builder.Pats.Struct(pat)
		if data == nil {
			return
		}
		base := mc.downcastIfVariant(cmt, pat)
		for _, field := range data.Fields {
			if !field.Pat.IsValid() {
				continue
			}
			lead := mc.leadingBinding(field.Pat)
			if !lead.IsValid() {
				continue
			}
			sub := mc.patInterior(base, field.Pat,
				InteriorKind{Class: InteriorField, Field: field.Name},
				mc.Infer.BindingType(lead))
			mc.WalkPat(sub, field.Pat, visit)
		}

	case ast.PatSlice:
		data, _ := mc.Builder.Pats.Slice(pat)
		if data == nil {
			return
		}
		// Slice elements are homogeneous: one representative element place
		// serves every sub-pattern.
		elem := mc.patInterior(cmt, pat, InteriorKind{Class: InteriorPattern}, cmt.Type)
		for _, sub := range data.Elems {
			mc.WalkPat(elem, sub, visit)
		}
	}
}

// walkPositional decomposes tuple-shaped sub-patterns, labelling each
// element place with its position. The index stays numeric: walking must not
// write to the shared string table.
func (mc *Context) walkPositional(base Cmt, elems []ast.PatID, visit PatVisit) {
	for i, elem := range elems {
		if !elem.IsValid() {
			continue
		}
		ty := types.NoTypeID
		if lead := mc.leadingBinding(elem); lead.IsValid() {
			ty = mc.Infer.BindingType(lead)
		}
		sub := mc.patInterior(base, elem,
			InteriorKind{Class: InteriorField, Index: uint32(i)}, ty)
		mc.WalkPat(sub, elem, visit)
	}
}

// patInterior builds the sub-place for a pattern element, inheriting the
// base's mutability.
func (mc *Context) patInterior(base Cmt, pat ast.PatID, kind InteriorKind, ty types.TypeID) Cmt {
	return Cmt{
		Pat:  pat,
		Cat:  &Categorization{Kind: CatInterior, Base: &base, Interior: kind},
		Mut:  base.Mut.Inherit(),
		Type: ty,
	}
}

// downcastIfVariant narrows the matched place to one enum variant's payload
// when the pattern's constructor resolves to a variant; for plain structs
// and tuples the place is returned unchanged.
func (mc *Context) downcastIfVariant(cmt Cmt, pat ast.PatID) Cmt {
	declID := mc.Infer.PatDecl(pat)
	decl := mc.Builder.Decls.Get(declID)
	if decl == nil || decl.Kind != ast.DeclVariant {
		return cmt
	}
	return Cmt{
		Pat:  pat,
		Cat:  &Categorization{Kind: CatDowncast, Base: &cmt, Decl: declID},
		Mut:  cmt.Mut.Inherit(),
		Type: cmt.Type,
	}
}

// patNamesConstant reports whether an identifier pattern resolves to a unit
// variant or a constant instead of introducing a binding.
func (mc *Context) patNamesConstant(pat ast.PatID) bool {
	decl := mc.Builder.Decls.Get(mc.Infer.PatDecl(pat))
	if decl == nil {
		return false
	}
	return decl.Kind == ast.DeclVariant || decl.Kind == ast.DeclConst
}

// leadingBinding locates the first binding inside a pattern in source order,
// which carries the pattern's bound type.
func (mc *Context) leadingBinding(pat ast.PatID) ast.PatID {
	node := mc.Builder.Pats.Get(pat)
	if node == nil {
		return ast.NoPatID
	}
	switch node.Kind {
	case ast.PatBind:
		if mc.patNamesConstant(pat) {
			return ast.NoPatID
		}
		return pat
	case ast.PatTuple:
		data, _ := mc.Builder.Pats.Tuple(pat)
		if data != nil {
			return mc.leadingBindingOf(data.Elems)
		}
	case ast.PatTupleStruct:
		data, _ := mc.Builder.Pats.TupleStruct(pat)
		if data != nil {
			return mc.leadingBindingOf(data.Elems)
		}
	case ast.PatStruct:
		data, _ := mc.Builder.Pats.Struct(pat)
		if data != nil {
			for _, field := range data.Fields {
				if lead := mc.leadingBinding(field.Pat); lead.IsValid() {
					return lead
				}
			}
		}
	case ast.PatSlice:
		data, _ := mc.Builder.Pats.Slice(pat)
		if data != nil {
			return mc.leadingBindingOf(data.Elems)
		}
	}
	return ast.NoPatID
}

func (mc *Context) leadingBindingOf(elems []ast.PatID) ast.PatID {
	for _, elem := range elems {
		if lead := mc.leadingBinding(elem); lead.IsValid() {
			return lead
		}
	}
	return ast.NoPatID
}
