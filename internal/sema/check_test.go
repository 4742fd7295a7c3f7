package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/infer"
	"ferrite/internal/memcat"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

type checkWorld struct {
	builder *ast.Builder
	types   *types.Interner
	strs    *source.Interner
	res     *infer.Result
	bag     *diag.Bag
	ck      *Checker
	offset  uint32
}

func newCheckWorld() *checkWorld {
	w := &checkWorld{
		builder: ast.NewBuilder(ast.Hints{}),
		types:   types.NewInterner(),
		strs:    source.NewInterner(),
		res:     infer.NewResult(),
		bag:     diag.NewBag(16),
	}
	w.ck = &Checker{
		Cat: &memcat.Context{
			Builder: w.builder,
			Types:   w.types,
			Strings: w.strs,
			Infer:   w.res,
			Copy:    w.res,
		},
		Reporter: w.bag,
	}
	return w
}

func (w *checkWorld) span() source.Span {
	w.offset++
	return source.Span{File: 1, Start: w.offset, End: w.offset + 1}
}

func (w *checkWorld) local(name string, mutable bool, ty types.TypeID) ast.ExprID {
	decl := w.builder.Decls.New(ast.Decl{
		Kind:    ast.DeclLet,
		Name:    w.strs.Intern(name),
		Span:    w.span(),
		Mutable: mutable,
	})
	expr := w.builder.Exprs.NewPath(w.span(), w.strs.Intern(name))
	w.res.PathDecls[expr] = []ast.DeclID{decl}
	w.res.ExprTypes[expr] = ty
	return expr
}

func (w *checkWorld) requireCode(t *testing.T, code diag.Code) diag.Diagnostic {
	t.Helper()
	items := w.bag.Items()
	require.Len(t, items, 1)
	require.Equal(t, code, items[0].Code)
	require.Equal(t, diag.SevError, items[0].Severity)
	return items[0]
}

func TestAssignToMutableLocal(t *testing.T) {
	w := newCheckWorld()
	expr := w.local("x", true, w.types.Builtins().Int)
	require.True(t, w.ck.CheckAssign(expr))
	require.Zero(t, w.bag.Len())
}

func TestAssignToImmutableLocalBlamesBinding(t *testing.T) {
	w := newCheckWorld()
	expr := w.local("x", false, w.types.Builtins().Int)
	require.False(t, w.ck.CheckAssign(expr))

	d := w.requireCode(t, diag.MemAssignImmutable)
	require.Len(t, d.Notes, 1)
	require.Equal(t, "binding `x` is declared immutable", d.Notes[0].Msg)
}

func TestAssignToLiteralIsNonPlace(t *testing.T) {
	w := newCheckWorld()
	lit := w.builder.Exprs.NewLit(w.span(), ast.ExprLitInt, w.strs.Intern("1"))
	w.res.ExprTypes[lit] = w.types.Builtins().Int

	require.False(t, w.ck.CheckAssign(lit))
	w.requireCode(t, diag.MemAssignNonPlace)
}

func TestAssignThroughSharedReferenceBlamesIt(t *testing.T) {
	w := newCheckWorld()
	intTy := w.types.Builtins().Int
	refTy := w.types.Intern(types.MakeReference(intTy, false, types.RegionStatic))

	base := w.local("r", false, refTy)
	deref := w.builder.Exprs.NewUnary(w.span(), ast.UnopDeref, base)
	w.res.ExprTypes[deref] = intTy

	require.False(t, w.ck.CheckAssign(deref))
	d := w.requireCode(t, diag.MemAssignImmutable)
	require.Len(t, d.Notes, 1)
	require.Equal(t, "the place is behind the shared reference `r`", d.Notes[0].Msg)
}

func TestMutBorrowThroughSharedReference(t *testing.T) {
	w := newCheckWorld()
	intTy := w.types.Builtins().Int
	refTy := w.types.Intern(types.MakeReference(intTy, false, types.RegionStatic))

	base := w.local("r", false, refTy)
	deref := w.builder.Exprs.NewUnary(w.span(), ast.UnopDeref, base)
	w.res.ExprTypes[deref] = intTy

	require.False(t, w.ck.CheckMutBorrow(deref))
	w.requireCode(t, diag.MemMutBorrowShared)
}

func TestMutBorrowThroughMutableReference(t *testing.T) {
	w := newCheckWorld()
	intTy := w.types.Builtins().Int
	refTy := w.types.Intern(types.MakeReference(intTy, true, types.RegionNone))

	base := w.local("r", true, refTy)
	deref := w.builder.Exprs.NewUnary(w.span(), ast.UnopDeref, base)
	w.res.ExprTypes[deref] = intTy

	require.True(t, w.ck.CheckMutBorrow(deref))
	require.Zero(t, w.bag.Len())
}

func TestMutBorrowOfStatic(t *testing.T) {
	w := newCheckWorld()
	decl := w.builder.Decls.New(ast.Decl{
		Kind: ast.DeclStatic,
		Name: w.strs.Intern("LIMIT"),
		Span: w.span(),
	})
	expr := w.builder.Exprs.NewPath(w.span(), w.strs.Intern("LIMIT"))
	w.res.PathDecls[expr] = []ast.DeclID{decl}
	w.res.ExprTypes[expr] = w.types.Builtins().Int

	require.False(t, w.ck.CheckMutBorrow(expr))
	w.requireCode(t, diag.MemMutBorrowStatic)
}

func TestMutBorrowOfTemporary(t *testing.T) {
	w := newCheckWorld()
	lit := w.builder.Exprs.NewLit(w.span(), ast.ExprLitInt, w.strs.Intern("1"))
	w.res.ExprTypes[lit] = w.types.Builtins().Int

	require.False(t, w.ck.CheckMutBorrow(lit))
	d := w.requireCode(t, diag.MemMutBorrowImmutable)
	require.Len(t, d.Notes, 1)
}

func TestMutBorrowOfImmutableLocal(t *testing.T) {
	w := newCheckWorld()
	expr := w.local("x", false, w.types.Builtins().Int)

	require.False(t, w.ck.CheckMutBorrow(expr))
	d := w.requireCode(t, diag.MemMutBorrowImmutable)
	require.Len(t, d.Notes, 1)
	require.Equal(t, "binding `x` is declared immutable", d.Notes[0].Msg)
}

func TestMoveOfWholeLocal(t *testing.T) {
	w := newCheckWorld()
	bufTy := w.types.Intern(types.MakeStruct(w.strs.Intern("Buf")))
	expr := w.local("b", false, bufTy)

	require.True(t, w.ck.CheckMove(expr))
	require.Zero(t, w.bag.Len())
}

func TestMoveOfCopyTypeIsExempt(t *testing.T) {
	w := newCheckWorld()
	intTy := w.types.Builtins().Int
	arrTy := w.types.Intern(types.MakeArray(intTy, 4))

	base := w.local("a", false, arrTy)
	idx := w.builder.Exprs.NewLit(w.span(), ast.ExprLitInt, w.strs.Intern("0"))
	index := w.builder.Exprs.NewIndex(w.span(), base, idx)
	w.res.ExprTypes[index] = intTy

	require.True(t, w.ck.CheckMove(index))
	require.Zero(t, w.bag.Len())
}

func TestMoveOutOfIndexedContent(t *testing.T) {
	w := newCheckWorld()
	bufTy := w.types.Intern(types.MakeStruct(w.strs.Intern("Buf")))
	arrTy := w.types.Intern(types.MakeArray(bufTy, types.ArrayDynamicLength))

	base := w.local("a", true, arrTy)
	idx := w.builder.Exprs.NewLit(w.span(), ast.ExprLitInt, w.strs.Intern("0"))
	index := w.builder.Exprs.NewIndex(w.span(), base, idx)
	w.res.ExprTypes[index] = bufTy

	require.False(t, w.ck.CheckMove(index))
	w.requireCode(t, diag.MemMoveFromIndex)
}

func TestMoveOutOfBorrowedPlace(t *testing.T) {
	w := newCheckWorld()
	bufTy := w.types.Intern(types.MakeStruct(w.strs.Intern("Buf")))
	refTy := w.types.Intern(types.MakeReference(bufTy, true, types.RegionNone))

	base := w.local("r", true, refTy)
	deref := w.builder.Exprs.NewUnary(w.span(), ast.UnopDeref, base)
	w.res.ExprTypes[deref] = bufTy

	require.False(t, w.ck.CheckMove(deref))
	w.requireCode(t, diag.MemMoveFromBorrow)
}

func TestMoveFromFieldOfBorrow(t *testing.T) {
	w := newCheckWorld()
	bufTy := w.types.Intern(types.MakeStruct(w.strs.Intern("Buf")))
	boxTy := w.types.Intern(types.MakeStruct(w.strs.Intern("Box")))
	refTy := w.types.Intern(types.MakeReference(boxTy, false, types.RegionStatic))

	base := w.local("r", false, refTy)
	deref := w.builder.Exprs.NewUnary(w.span(), ast.UnopDeref, base)
	w.res.ExprTypes[deref] = boxTy
	field := w.builder.Exprs.NewField(w.span(), deref, w.strs.Intern("inner"))
	w.res.ExprTypes[field] = bufTy

	require.False(t, w.ck.CheckMove(field))
	w.requireCode(t, diag.MemMoveFromBorrow)
}
