package ast

import (
	"ferrite/internal/source"
)

// ExprKind tags the syntactic shape of an expression node.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprPath
	ExprLit
	ExprUnary
	ExprBinary
	ExprCall
	ExprMember
	ExprIndex
	ExprGroup
	ExprStruct
	ExprArray
)

func (k ExprKind) String() string {
	switch k {
	case ExprPath:
		return "path"
	case ExprLit:
		return "lit"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprCall:
		return "call"
	case ExprMember:
		return "member"
	case ExprIndex:
		return "index"
	case ExprGroup:
		return "group"
	case ExprStruct:
		return "struct"
	case ExprArray:
		return "array"
	default:
		return "invalid"
	}
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	UnopInvalid UnaryOp = iota
	UnopDeref
	UnopNeg
	UnopNot
	UnopRef
	UnopRefMut
)

// Expr is the fixed-size header shared by all expression nodes; the
// kind-specific payload lives in a per-kind arena addressed by Payload.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprPathData struct {
	Name source.StringID
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitString
	ExprLitBool
)

type ExprLitData struct {
	Kind  ExprLitKind
	Value source.StringID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    source.StringID
	Left  ExprID
	Right ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

// ExprMemberData covers both field access (s.f, t.0) and method calls
// (x.m(...)); Name holds the identifier text, or the decimal index text for
// tuple-style fields.
type ExprMemberData struct {
	Base   ExprID
	Name   source.StringID
	IsCall bool
	Args   []ExprID // only for IsCall
}

type ExprIndexData struct {
	Base  ExprID
	Index ExprID
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprStructData struct {
	Path   ExprID
	Fields []ExprID
}

type ExprArrayData struct {
	Elems []ExprID
}

// Exprs manages allocation of expression nodes.
type Exprs struct {
	Arena    *Arena[Expr]
	Paths    *Arena[ExprPathData]
	Lits     *Arena[ExprLitData]
	Unaries  *Arena[ExprUnaryData]
	Binaries *Arena[ExprBinaryData]
	Calls    *Arena[ExprCallData]
	Members  *Arena[ExprMemberData]
	Indices  *Arena[ExprIndexData]
	Groups   *Arena[ExprGroupData]
	Structs  *Arena[ExprStructData]
	Arrays   *Arena[ExprArrayData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Paths:    NewArena[ExprPathData](capHint),
		Lits:     NewArena[ExprLitData](capHint),
		Unaries:  NewArena[ExprUnaryData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
		Calls:    NewArena[ExprCallData](capHint),
		Members:  NewArena[ExprMemberData](capHint),
		Indices:  NewArena[ExprIndexData](capHint),
		Groups:   NewArena[ExprGroupData](capHint),
		Structs:  NewArena[ExprStructData](capHint),
		Arrays:   NewArena[ExprArrayData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression header with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	if e == nil {
		return nil
	}
	return e.Arena.Get(uint32(id))
}

// NewPath creates a path (identifier) expression.
func (e *Exprs) NewPath(span source.Span, name source.StringID) ExprID {
	payload := e.Paths.Allocate(ExprPathData{Name: name})
	return e.new(ExprPath, span, PayloadID(payload))
}

// Path returns path data for the given expression ID.
func (e *Exprs) Path(id ExprID) (*ExprPathData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprPath {
		return nil, false
	}
	return e.Paths.Get(uint32(expr.Payload)), true
}

// NewLit creates a literal expression.
func (e *Exprs) NewLit(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	payload := e.Lits.Allocate(ExprLitData{Kind: kind, Value: value})
	return e.new(ExprLit, span, PayloadID(payload))
}

// Lit returns literal data for the given expression ID.
func (e *Exprs) Lit(id ExprID) (*ExprLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Lits.Get(uint32(expr.Payload)), true
}

// NewUnary creates a prefix-operator expression.
func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

// Unary returns unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

// NewBinary creates a binary-operator expression.
func (e *Exprs) NewBinary(span source.Span, op source.StringID, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

// Binary returns binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

// NewCall creates a free-function call expression.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: args})
	return e.new(ExprCall, span, PayloadID(payload))
}

// Call returns call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewField creates a field-access expression (s.f or t.0).
func (e *Exprs) NewField(span source.Span, base ExprID, name source.StringID) ExprID {
	payload := e.Members.Allocate(ExprMemberData{Base: base, Name: name})
	return e.new(ExprMember, span, PayloadID(payload))
}

// NewMethodCall creates a method-call expression (x.m(...)).
func (e *Exprs) NewMethodCall(span source.Span, base ExprID, name source.StringID, args []ExprID) ExprID {
	payload := e.Members.Allocate(ExprMemberData{Base: base, Name: name, IsCall: true, Args: args})
	return e.new(ExprMember, span, PayloadID(payload))
}

// Member returns member data for the given expression ID.
func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMember {
		return nil, false
	}
	return e.Members.Get(uint32(expr.Payload)), true
}

// NewIndex creates an indexing expression (e[i]).
func (e *Exprs) NewIndex(span source.Span, base, index ExprID) ExprID {
	payload := e.Indices.Allocate(ExprIndexData{Base: base, Index: index})
	return e.new(ExprIndex, span, PayloadID(payload))
}

// Index returns index data for the given expression ID.
func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}

// NewGroup creates a parenthesized expression.
func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	payload := e.Groups.Allocate(ExprGroupData{Inner: inner})
	return e.new(ExprGroup, span, PayloadID(payload))
}

// Group returns group data for the given expression ID.
func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(expr.Payload)), true
}

// NewStruct creates a struct-literal expression.
func (e *Exprs) NewStruct(span source.Span, path ExprID, fields []ExprID) ExprID {
	payload := e.Structs.Allocate(ExprStructData{Path: path, Fields: fields})
	return e.new(ExprStruct, span, PayloadID(payload))
}

// Struct returns struct-literal data for the given expression ID.
func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprStruct {
		return nil, false
	}
	return e.Structs.Get(uint32(expr.Payload)), true
}

// NewArray creates an array-literal expression.
func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	payload := e.Arrays.Allocate(ExprArrayData{Elems: elems})
	return e.new(ExprArray, span, PayloadID(payload))
}

// Array returns array-literal data for the given expression ID.
func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArray {
		return nil, false
	}
	return e.Arrays.Get(uint32(expr.Payload)), true
}
