package ast

import (
	"ferrite/internal/source"
)

// DeclKind classifies the declarations a path or binding can resolve to.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclLet              // pattern binding introduced by let/match/for
	DeclSelfParam        // the implicit receiver parameter
	DeclStatic
	DeclConst
	DeclFn
	DeclStructCtor
	DeclVariant
)

func (k DeclKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclSelfParam:
		return "self"
	case DeclStatic:
		return "static"
	case DeclConst:
		return "const"
	case DeclFn:
		return "fn"
	case DeclStructCtor:
		return "struct-ctor"
	case DeclVariant:
		return "variant"
	default:
		return "invalid"
	}
}

// Decl records one declaration the resolver can hand back: a binding, a
// static, a constant, or a value-position constructor. Mutable is meaningful
// for DeclLet, DeclSelfParam and DeclStatic.
type Decl struct {
	Kind    DeclKind
	Name    source.StringID
	Span    source.Span
	Mutable bool
	Pat     PatID // originating binding pattern, for DeclLet
}

// Decls manages allocation of declarations.
type Decls struct {
	Arena *Arena[Decl]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Decls{Arena: NewArena[Decl](capHint)}
}

// New allocates a declaration and returns its ID.
func (d *Decls) New(decl Decl) DeclID {
	return DeclID(d.Arena.Allocate(decl))
}

// Get returns the declaration with the given ID.
func (d *Decls) Get(id DeclID) *Decl {
	if d == nil {
		return nil
	}
	return d.Arena.Get(uint32(id))
}
