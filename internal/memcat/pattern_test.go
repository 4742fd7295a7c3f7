package memcat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"ferrite/internal/ast"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

type patVisit struct {
	cmt Cmt
	pat ast.PatID
}

func collectWalk(w *testWorld, base Cmt, pat ast.PatID) []patVisit {
	var visits []patVisit
	w.mc.WalkPat(base, pat, func(cmt Cmt, p ast.PatID) {
		visits = append(visits, patVisit{cmt: cmt, pat: p})
	})
	return visits
}

// tupleBase builds a Declared-mutable local place to match patterns against.
func tupleBase(w *testWorld, ty types.TypeID) Cmt {
	t := w.let("t", true)
	expr := w.pathTo("t", t, ty)
	return w.mc.ProcessExpr(expr)
}

func TestWalkTuplePattern(t *testing.T) {
	w := newTestWorld()
	intTy := w.types.Builtins().Int
	tupTy := w.types.Intern(types.MakeTuple(2))

	pa := w.builder.Pats.NewBind(w.span(), w.strs.Intern("a"), false, ast.NoPatID)
	pb := w.builder.Pats.NewBind(w.span(), w.strs.Intern("b"), false, ast.NoPatID)
	tup := w.builder.Pats.NewTuple(w.span(), []ast.PatID{pa, pb})
	w.res.BindingTypes[pa] = intTy
	w.res.BindingTypes[pb] = intTy

	base := tupleBase(w, tupTy)
	visits := collectWalk(w, base, tup)

	require.Len(t, visits, 3)
	require.Equal(t, tup, visits[0].pat)
	require.Equal(t, base, visits[0].cmt)

	require.Equal(t, pa, visits[1].pat)
	require.NotNil(t, visits[1].cmt.Cat)
	require.Equal(t, CatInterior, visits[1].cmt.Cat.Kind)
	require.Equal(t, InteriorField, visits[1].cmt.Cat.Interior.Class)
	require.Equal(t, source.NoStringID, visits[1].cmt.Cat.Interior.Field)
	require.Equal(t, uint32(0), visits[1].cmt.Cat.Interior.Index)
	require.Equal(t, McInherited, visits[1].cmt.Mut)
	require.Equal(t, intTy, visits[1].cmt.Type)

	require.Equal(t, pb, visits[2].pat)
	require.Equal(t, uint32(1), visits[2].cmt.Cat.Interior.Index)
	require.Equal(t, McInherited, visits[2].cmt.Mut)
}

func TestWalkBindingWithSubPattern(t *testing.T) {
	w := newTestWorld()
	sub := w.builder.Pats.NewWild(w.span())
	bind := w.builder.Pats.NewBind(w.span(), w.strs.Intern("x"), false, sub)

	base := tupleBase(w, w.types.Builtins().Int)
	visits := collectWalk(w, base, bind)

	require.Len(t, visits, 2)
	require.Equal(t, bind, visits[0].pat)
	require.Equal(t, sub, visits[1].pat)
	// The binding does not change the place: both nodes see the same cmt.
	require.Equal(t, visits[0].cmt, visits[1].cmt)
}

func TestWalkVariantIdentDoesNotDescend(t *testing.T) {
	w := newTestWorld()
	sub := w.builder.Pats.NewWild(w.span())
	bind := w.builder.Pats.NewBind(w.span(), w.strs.Intern("None"), false, sub)
	variant := w.builder.Decls.New(ast.Decl{Kind: ast.DeclVariant, Name: w.strs.Intern("None"), Span: w.span()})
	w.res.PatDecls[bind] = variant

	base := tupleBase(w, w.types.Builtins().Int)
	visits := collectWalk(w, base, bind)

	require.Len(t, visits, 1)
	require.Equal(t, bind, visits[0].pat)
}

func TestWalkStructPattern(t *testing.T) {
	w := newTestWorld()
	intTy := w.types.Builtins().Int
	structTy := w.types.Intern(types.MakeStruct(w.strs.Intern("Point")))

	px := w.builder.Pats.NewBind(w.span(), w.strs.Intern("x"), false, ast.NoPatID)
	py := w.builder.Pats.NewBind(w.span(), w.strs.Intern("y"), false, ast.NoPatID)
	pat := w.builder.Pats.NewStruct(w.span(), w.strs.Intern("Point"), []ast.PatFieldData{
		{Name: w.strs.Intern("x"), Pat: px},
		{Name: w.strs.Intern("y"), Pat: py},
	})
	w.res.BindingTypes[px] = intTy
	w.res.BindingTypes[py] = intTy

	base := tupleBase(w, structTy)
	visits := collectWalk(w, base, pat)

	require.Len(t, visits, 3)
	require.Equal(t, "x", w.strs.MustLookup(visits[1].cmt.Cat.Interior.Field))
	require.Equal(t, "y", w.strs.MustLookup(visits[2].cmt.Cat.Interior.Field))
	require.Equal(t, McInherited, visits[1].cmt.Mut)
	require.Equal(t, intTy, visits[1].cmt.Type)
}

func TestWalkSlicePatternSharesElementPlace(t *testing.T) {
	w := newTestWorld()
	intTy := w.types.Builtins().Int
	arrTy := w.types.Intern(types.MakeArray(intTy, types.ArrayDynamicLength))

	p1 := w.builder.Pats.NewBind(w.span(), w.strs.Intern("head"), false, ast.NoPatID)
	p2 := w.builder.Pats.NewWild(w.span())
	pat := w.builder.Pats.NewSlice(w.span(), []ast.PatID{p1, p2})

	base := tupleBase(w, arrTy)
	visits := collectWalk(w, base, pat)

	require.Len(t, visits, 3)
	require.Equal(t, InteriorPattern, visits[1].cmt.Cat.Interior.Class)
	// One representative element place is reused for every element.
	require.Equal(t, visits[1].cmt, visits[2].cmt)
	require.Equal(t, arrTy, visits[1].cmt.Type)
	require.Equal(t, McInherited, visits[1].cmt.Mut)
}

func TestWalkTupleStructVariantDowncasts(t *testing.T) {
	w := newTestWorld()
	intTy := w.types.Builtins().Int
	enumTy := w.types.Intern(types.MakeEnum(w.strs.Intern("Option")))

	payload := w.builder.Pats.NewBind(w.span(), w.strs.Intern("v"), false, ast.NoPatID)
	pat := w.builder.Pats.NewTupleStruct(w.span(), w.strs.Intern("Some"), []ast.PatID{payload})
	variant := w.builder.Decls.New(ast.Decl{Kind: ast.DeclVariant, Name: w.strs.Intern("Some"), Span: w.span()})
	w.res.PatDecls[pat] = variant
	w.res.BindingTypes[payload] = intTy

	base := tupleBase(w, enumTy)
	visits := collectWalk(w, base, pat)

	require.Len(t, visits, 2)
	elem := visits[1].cmt
	require.NotNil(t, elem.Cat)
	require.Equal(t, CatInterior, elem.Cat.Kind)
	require.Equal(t, uint32(0), elem.Cat.Interior.Index)

	down := elem.Cat.Base
	require.NotNil(t, down.Cat)
	require.Equal(t, CatDowncast, down.Cat.Kind)
	require.Equal(t, variant, down.Cat.Decl)
	require.Equal(t, McInherited, down.Mut)
	require.Equal(t, base.Aliasability(), elem.Aliasability())
}

// Walking never writes collaborator tables, so one context may serve many
// goroutines; run under -race.
func TestWalkPatSharedContext(t *testing.T) {
	w := newTestWorld()
	intTy := w.types.Builtins().Int
	tupTy := w.types.Intern(types.MakeTuple(2))

	pa := w.builder.Pats.NewBind(w.span(), w.strs.Intern("a"), false, ast.NoPatID)
	pb := w.builder.Pats.NewBind(w.span(), w.strs.Intern("b"), false, ast.NoPatID)
	tup := w.builder.Pats.NewTuple(w.span(), []ast.PatID{pa, pb})
	w.res.BindingTypes[pa] = intTy
	w.res.BindingTypes[pb] = intTy

	base := tupleBase(w, tupTy)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n := 0
				w.mc.WalkPat(base, tup, func(Cmt, ast.PatID) { n++ })
				if n != 3 {
					t.Errorf("walk visited %d nodes, want 3", n)
				}
			}
		}()
	}
	wg.Wait()
}

func TestWalkNilCallbackIsNoop(t *testing.T) {
	w := newTestWorld()
	pat := w.builder.Pats.NewWild(w.span())
	w.mc.WalkPat(Cmt{}, pat, nil)
	w.mc.WalkPat(Cmt{}, ast.NoPatID, func(Cmt, ast.PatID) {
		t.Fatalf("callback must not fire for invalid pattern")
	})
}
