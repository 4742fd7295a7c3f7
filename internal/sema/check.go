// Package sema hosts the place-sensitivity checks built on top of the
// categorization engine: assignment targets, exclusive borrows, and moves.
// It produces diagnostics; rendering them is someone else's job.
package sema

import (
	"fmt"

	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/memcat"
	"ferrite/internal/source"
)

// Checker validates mutation and borrow sites against categorized places.
type Checker struct {
	Cat      *memcat.Context
	Reporter diag.Reporter
}

// CheckAssign validates expr as the target of an assignment. It returns
// false when a diagnostic was emitted.
func (ck *Checker) CheckAssign(expr ast.ExprID) bool {
	cmt := ck.Cat.ProcessExpr(expr)
	if cmt.Cat == nil {
		// Unresolvable input: stay quiet rather than pile on.
		return true
	}
	if cmt.Cat.Kind == memcat.CatRvalue {
		ck.report(diag.MemAssignNonPlace, ck.exprSpan(expr),
			"cannot assign: expression is not an assignable place")
		return false
	}
	if !cmt.IsMutable() {
		b := diag.ReportError(ck.Reporter, diag.MemAssignImmutable, ck.exprSpan(expr),
			"cannot assign to immutable binding")
		ck.attachBlame(b, cmt)
		b.Emit()
		return false
	}
	return true
}

// CheckMutBorrow validates taking an exclusive borrow of expr. It returns
// false when a diagnostic was emitted.
func (ck *Checker) CheckMutBorrow(expr ast.ExprID) bool {
	cmt := ck.Cat.ProcessExpr(expr)
	if cmt.Cat == nil {
		return true
	}
	if cmt.Cat.Kind == memcat.CatRvalue {
		if b := diag.ReportError(ck.Reporter, diag.MemMutBorrowImmutable, ck.exprSpan(expr),
			"cannot take mutable reference to temporary value"); b != nil {
			b.WithNote(ck.exprSpan(expr), "bind the value to a variable first, then borrow it mutably")
			b.Emit()
		}
		return false
	}
	switch cmt.Aliasability() {
	case memcat.AliasFreelyBorrowed:
		ck.report(diag.MemMutBorrowShared, ck.exprSpan(expr),
			"cannot take `&mut` through a shared reference")
		return false
	case memcat.AliasFreelyStatic, memcat.AliasFreelyStaticMut:
		ck.report(diag.MemMutBorrowStatic, ck.exprSpan(expr),
			"cannot take `&mut` of a static item; statics are freely aliasable")
		return false
	}
	if !cmt.IsMutable() {
		b := diag.ReportError(ck.Reporter, diag.MemMutBorrowImmutable, ck.exprSpan(expr),
			"cannot take mutable borrow of immutable place")
		ck.attachBlame(b, cmt)
		b.Emit()
		return false
	}
	return true
}

// CheckMove validates using expr by value. Moving out of indexed content or
// from behind a pointer dismembers the containing place, so only whole
// locals and temporaries may be moved from; copyable types are exempt.
func (ck *Checker) CheckMove(expr ast.ExprID) bool {
	cmt := ck.Cat.ProcessExpr(expr)
	if cmt.Cat == nil {
		return true
	}
	if !ck.Cat.TypeMovesByDefault(cmt.Type) {
		return true
	}
	for c := &cmt; c.Cat != nil; c = c.Cat.Base {
		switch c.Cat.Kind {
		case memcat.CatDeref:
			ck.report(diag.MemMoveFromBorrow, ck.exprSpan(expr),
				"cannot move out of a borrowed place")
			return false
		case memcat.CatInterior:
			if c.Cat.Interior.Class == memcat.InteriorIndex {
				ck.report(diag.MemMoveFromIndex, ck.exprSpan(expr),
					"cannot move out of indexed content")
				return false
			}
		}
		if c.Cat.Base == nil {
			break
		}
	}
	return true
}

func (ck *Checker) report(code diag.Code, span source.Span, msg string) {
	if b := diag.ReportError(ck.Reporter, code, span, msg); b != nil {
		b.Emit()
	}
}

// attachBlame adds a note pointing at whatever made the place immutable.
func (ck *Checker) attachBlame(b *diag.ReportBuilder, cmt memcat.Cmt) {
	if b == nil {
		return
	}
	blame := cmt.ImmutabilityBlame()
	switch blame.Kind {
	case memcat.BlameImmutableLocal:
		b.WithNote(ck.declSpan(blame.Decl),
			fmt.Sprintf("binding `%s` is declared immutable", ck.declName(blame.Decl)))
	case memcat.BlameLocalDeref:
		b.WithNote(ck.declSpan(blame.Decl),
			fmt.Sprintf("the place is behind the shared reference `%s`", ck.declName(blame.Decl)))
	case memcat.BlameAdtFieldDeref:
		b.WithNote(ck.exprSpan(cmt.Expr), "the place is behind a shared reference stored in a field")
	}
}

func (ck *Checker) exprSpan(expr ast.ExprID) source.Span {
	if node := ck.Cat.Builder.Exprs.Get(expr); node != nil {
		return node.Span
	}
	return source.Span{}
}

func (ck *Checker) declSpan(id ast.DeclID) source.Span {
	if decl := ck.Cat.Builder.Decls.Get(id); decl != nil {
		return decl.Span
	}
	return source.Span{}
}

func (ck *Checker) declName(id ast.DeclID) string {
	decl := ck.Cat.Builder.Decls.Get(id)
	if decl == nil {
		return "?"
	}
	return ck.Cat.Strings.MustLookup(decl.Name)
}
