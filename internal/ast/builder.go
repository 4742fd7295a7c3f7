package ast

// Hints preallocates the builder arenas.
type Hints struct{ Exprs, Pats, Decls uint }

// Builder bundles the node stores one analyzed file works against.
type Builder struct {
	Exprs *Exprs
	Pats  *Pats
	Decls *Decls
}

func NewBuilder(hints Hints) *Builder {
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Pats == 0 {
		hints.Pats = 1 << 7
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 6
	}
	return &Builder{
		Exprs: NewExprs(hints.Exprs),
		Pats:  NewPats(hints.Pats),
		Decls: NewDecls(hints.Decls),
	}
}
