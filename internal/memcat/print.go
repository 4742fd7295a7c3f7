package memcat

import (
	"fmt"
	"io"
	"strings"

	"ferrite/internal/ast"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// Printer dumps Cmt trees to a stable textual form used by the CLI and by
// tests.
type Printer struct {
	w       io.Writer
	types   *types.Interner
	strs    *source.Interner
	decls   *ast.Decls
	indent  int
	lastErr error
}

// NewPrinter creates a printer. Any of the lookup tables may be nil; the
// dump then falls back to raw IDs.
func NewPrinter(w io.Writer, in *types.Interner, strs *source.Interner, decls *ast.Decls) *Printer {
	return &Printer{w: w, types: in, strs: strs, decls: decls}
}

// Dump writes the categorization tree of cmt to w.
func Dump(w io.Writer, cmt Cmt, in *types.Interner, strs *source.Interner, decls *ast.Decls) error {
	p := NewPrinter(w, in, strs, decls)
	p.PrintCmt(cmt)
	return p.lastErr
}

// Sprint renders the categorization tree of cmt as a string.
func Sprint(cmt Cmt, in *types.Interner, strs *source.Interner, decls *ast.Decls) string {
	var sb strings.Builder
	_ = Dump(&sb, cmt, in, strs, decls)
	return sb.String()
}

// PrintCmt prints one Cmt and, transitively, its base chain.
func (p *Printer) PrintCmt(cmt Cmt) {
	p.printf("%s mut=%s ty=%s\n", p.categoryLabel(cmt), cmt.Mut, p.typeLabel(cmt.Type))
	if cmt.Cat != nil && cmt.Cat.Base != nil {
		p.indent++
		p.PrintCmt(*cmt.Cat.Base)
		p.indent--
	}
}

func (p *Printer) categoryLabel(cmt Cmt) string {
	cat := cmt.Cat
	if cat == nil {
		return "none"
	}
	switch cat.Kind {
	case CatRvalue:
		return fmt.Sprintf("rvalue(%s)", cat.Region)
	case CatStaticItem:
		return fmt.Sprintf("static(%s)", p.declLabel(cat.Decl))
	case CatLocal:
		return fmt.Sprintf("local(%s)", p.declLabel(cat.Decl))
	case CatDeref:
		return fmt.Sprintf("deref(%s)", p.pointerLabel(cat.Pointer))
	case CatInterior:
		return fmt.Sprintf("interior(%s)", p.interiorLabel(cat.Interior))
	case CatDowncast:
		return fmt.Sprintf("downcast(%s)", p.declLabel(cat.Decl))
	default:
		return "invalid"
	}
}

func (p *Printer) pointerLabel(pk PointerKind) string {
	if pk.Class == BorrowedPtr {
		return fmt.Sprintf("&%s %s", pk.Borrow, pk.Region)
	}
	if pk.Mutable {
		return "*mut"
	}
	return "*const"
}

func (p *Printer) interiorLabel(ik InteriorKind) string {
	switch ik.Class {
	case InteriorField:
		if name, ok := p.strs.Lookup(ik.Field); ok && name != "" {
			return "." + name
		}
		return fmt.Sprintf(".%d", ik.Index)
	case InteriorIndex:
		return "[]"
	default:
		return "pat-elem"
	}
}

func (p *Printer) declLabel(id ast.DeclID) string {
	decl := p.decls.Get(id)
	if decl == nil {
		return fmt.Sprintf("#%d", id)
	}
	if name, ok := p.strs.Lookup(decl.Name); ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func (p *Printer) typeLabel(id types.TypeID) string {
	if id == types.NoTypeID {
		return "<unknown>"
	}
	tt, ok := p.types.Lookup(id)
	if !ok {
		return "<unknown>"
	}
	switch tt.Kind {
	case types.KindReference:
		prefix := "&"
		if tt.Mutable {
			prefix = "&mut "
		}
		return prefix + p.typeLabel(tt.Elem)
	case types.KindRawPointer:
		prefix := "*const "
		if tt.Mutable {
			prefix = "*mut "
		}
		return prefix + p.typeLabel(tt.Elem)
	case types.KindOwn:
		return "own " + p.typeLabel(tt.Elem)
	case types.KindArray:
		if tt.Count == types.ArrayDynamicLength {
			return "[" + p.typeLabel(tt.Elem) + "]"
		}
		return fmt.Sprintf("[%s; %d]", p.typeLabel(tt.Elem), tt.Count)
	case types.KindTuple:
		return fmt.Sprintf("tuple/%d", tt.Count)
	case types.KindFn:
		return fmt.Sprintf("fn/%d -> %s", tt.Count, p.typeLabel(tt.Elem))
	case types.KindStruct, types.KindEnum:
		if name, ok := p.strs.Lookup(tt.Name); ok && name != "" {
			return name
		}
		return tt.Kind.String()
	default:
		return tt.Kind.String()
	}
}

func (p *Printer) printf(format string, args ...any) {
	if p.lastErr != nil {
		return
	}
	pad := strings.Repeat("  ", p.indent)
	_, p.lastErr = fmt.Fprintf(p.w, "%s%s", pad, fmt.Sprintf(format, args...))
}
