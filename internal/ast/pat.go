package ast

import (
	"ferrite/internal/source"
)

// PatKind tags the syntactic shape of a pattern node.
type PatKind uint8

const (
	PatInvalid PatKind = iota
	PatWild
	PatLit
	PatBind
	PatTuple
	PatTupleStruct
	PatStruct
	PatSlice
)

func (k PatKind) String() string {
	switch k {
	case PatWild:
		return "wild"
	case PatLit:
		return "lit"
	case PatBind:
		return "bind"
	case PatTuple:
		return "tuple"
	case PatTupleStruct:
		return "tuple-struct"
	case PatStruct:
		return "struct"
	case PatSlice:
		return "slice"
	default:
		return "invalid"
	}
}

// Pat is the fixed-size pattern header; kind-specific payloads live in
// per-kind arenas addressed by Payload.
type Pat struct {
	Kind    PatKind
	Span    source.Span
	Payload PayloadID
}

// PatBindData is an identifier pattern, optionally with an @-bound
// sub-pattern. The identifier usually introduces a binding, but may instead
// name a unit enum variant or a constant; resolution decides which.
type PatBindData struct {
	Name    source.StringID
	Mutable bool
	Sub     PatID
}

type PatLitData struct {
	Value source.StringID
}

type PatTupleData struct {
	Elems []PatID
}

// PatTupleStructData is Ctor(p0, p1, ...); Path names the constructor.
type PatTupleStructData struct {
	Path  source.StringID
	Elems []PatID
}

// PatFieldData is one `name: pat` entry of a struct pattern.
type PatFieldData struct {
	Name source.StringID
	Pat  PatID
}

type PatStructData struct {
	Path   source.StringID
	Fields []PatFieldData
}

type PatSliceData struct {
	Elems []PatID
}

// Pats manages allocation of pattern nodes.
type Pats struct {
	Arena        *Arena[Pat]
	Binds        *Arena[PatBindData]
	Lits         *Arena[PatLitData]
	Tuples       *Arena[PatTupleData]
	TupleStructs *Arena[PatTupleStructData]
	Structs      *Arena[PatStructData]
	Slices       *Arena[PatSliceData]
}

func NewPats(capHint uint) *Pats {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Pats{
		Arena:        NewArena[Pat](capHint),
		Binds:        NewArena[PatBindData](capHint),
		Lits:         NewArena[PatLitData](capHint),
		Tuples:       NewArena[PatTupleData](capHint),
		TupleStructs: NewArena[PatTupleStructData](capHint),
		Structs:      NewArena[PatStructData](capHint),
		Slices:       NewArena[PatSliceData](capHint),
	}
}

func (p *Pats) new(kind PatKind, span source.Span, payload PayloadID) PatID {
	return PatID(p.Arena.Allocate(Pat{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the pattern header with the given ID.
func (p *Pats) Get(id PatID) *Pat {
	if p == nil {
		return nil
	}
	return p.Arena.Get(uint32(id))
}

// NewWild creates a wildcard (_) pattern.
func (p *Pats) NewWild(span source.Span) PatID {
	return p.new(PatWild, span, NoPayloadID)
}

// NewLit creates a literal pattern.
func (p *Pats) NewLit(span source.Span, value source.StringID) PatID {
	payload := p.Lits.Allocate(PatLitData{Value: value})
	return p.new(PatLit, span, PayloadID(payload))
}

// NewBind creates an identifier/binding pattern.
func (p *Pats) NewBind(span source.Span, name source.StringID, mutable bool, sub PatID) PatID {
	payload := p.Binds.Allocate(PatBindData{Name: name, Mutable: mutable, Sub: sub})
	return p.new(PatBind, span, PayloadID(payload))
}

// Bind returns binding data for the given pattern ID.
func (p *Pats) Bind(id PatID) (*PatBindData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatBind {
		return nil, false
	}
	return p.Binds.Get(uint32(pat.Payload)), true
}

// NewTuple creates a tuple pattern.
func (p *Pats) NewTuple(span source.Span, elems []PatID) PatID {
	payload := p.Tuples.Allocate(PatTupleData{Elems: elems})
	return p.new(PatTuple, span, PayloadID(payload))
}

// Tuple returns tuple data for the given pattern ID.
func (p *Pats) Tuple(id PatID) (*PatTupleData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatTuple {
		return nil, false
	}
	return p.Tuples.Get(uint32(pat.Payload)), true
}

// NewTupleStruct creates a tuple-struct / enum-variant pattern.
func (p *Pats) NewTupleStruct(span source.Span, path source.StringID, elems []PatID) PatID {
	payload := p.TupleStructs.Allocate(PatTupleStructData{Path: path, Elems: elems})
	return p.new(PatTupleStruct, span, PayloadID(payload))
}

// TupleStruct returns tuple-struct data for the given pattern ID.
func (p *Pats) TupleStruct(id PatID) (*PatTupleStructData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatTupleStruct {
		return nil, false
	}
	return p.TupleStructs.Get(uint32(pat.Payload)), true
}

// NewStruct creates a struct pattern with named fields.
func (p *Pats) NewStruct(span source.Span, path source.StringID, fields []PatFieldData) PatID {
	payload := p.Structs.Allocate(PatStructData{Path: path, Fields: fields})
	return p.new(PatStruct, span, PayloadID(payload))
}

// Struct returns struct data for the given pattern ID.
func (p *Pats) Struct(id PatID) (*PatStructData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatStruct {
		return nil, false
	}
	return p.Structs.Get(uint32(pat.Payload)), true
}

// NewSlice creates a slice/array pattern.
func (p *Pats) NewSlice(span source.Span, elems []PatID) PatID {
	payload := p.Slices.Allocate(PatSliceData{Elems: elems})
	return p.new(PatSlice, span, PayloadID(payload))
}

// Slice returns slice data for the given pattern ID.
func (p *Pats) Slice(id PatID) (*PatSliceData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatSlice {
		return nil, false
	}
	return p.Slices.Get(uint32(pat.Payload)), true
}
