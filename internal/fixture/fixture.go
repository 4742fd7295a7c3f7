// Package fixture loads TOML descriptions of already-analyzed programs:
// declarations, types, expressions, patterns, coercions and resolution
// edges. It exists so tests and the CLI can drive the categorization engine
// without the out-of-scope parser and type checker. The format is a dev
// harness, not a language surface.
package fixture

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"ferrite/internal/ast"
	"ferrite/internal/infer"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// Program is a decoded fixture: the collaborator tables the engine consumes
// plus handle maps so callers can refer to nodes by fixture ID.
type Program struct {
	Name    string
	Builder *ast.Builder
	Types   *types.Interner
	Strings *source.Interner
	Infer   *infer.Result

	Exprs   map[string]ast.ExprID
	Pats    map[string]ast.PatID
	Decls   map[string]ast.DeclID
	TypeIDs map[string]types.TypeID

	Checks Checks
}

// Checks lists what the fixture wants validated or dumped, by handle.
type Checks struct {
	Assign    []string    `toml:"assign"`
	MutBorrow []string    `toml:"mut_borrow"`
	Move      []string    `toml:"move"`
	Dump      []string    `toml:"dump"`
	Walk      []WalkCheck `toml:"walk"`
}

// WalkCheck pairs a pattern with the expression whose place it matches.
type WalkCheck struct {
	Pat  string `toml:"pat"`
	Base string `toml:"base"`
}

type manifest struct {
	Name  string      `toml:"name"`
	Types []typeEntry `toml:"type"`
	Decls []declEntry `toml:"decl"`
	Pats  []patEntry  `toml:"pat"`
	Exprs []exprEntry `toml:"expr"`
	Check Checks      `toml:"check"`
}

type typeEntry struct {
	ID      string `toml:"id"`
	Kind    string `toml:"kind"`
	Elem    string `toml:"elem"`
	Count   uint32 `toml:"count"`
	Mutable bool   `toml:"mutable"`
	Region  uint32 `toml:"region"`
	Name    string `toml:"name"`
	Copy    bool   `toml:"copy"`
}

type declEntry struct {
	ID      string `toml:"id"`
	Kind    string `toml:"kind"`
	Name    string `toml:"name"`
	Mutable bool   `toml:"mutable"`
	Pat     string `toml:"pat"`
}

type patEntry struct {
	ID          string          `toml:"id"`
	Kind        string          `toml:"kind"`
	Name        string          `toml:"name"`
	Mutable     bool            `toml:"mutable"`
	Sub         string          `toml:"sub"`
	Path        string          `toml:"path"`
	Elems       []string        `toml:"elems"`
	Fields      []patFieldEntry `toml:"fields"`
	BindingType string          `toml:"binding_type"`
	Resolves    string          `toml:"resolves"`
	Value       string          `toml:"value"`
}

type patFieldEntry struct {
	Name string `toml:"name"`
	Pat  string `toml:"pat"`
}

type exprEntry struct {
	ID       string        `toml:"id"`
	Kind     string        `toml:"kind"`
	Name     string        `toml:"name"`
	Op       string        `toml:"op"`
	Operand  string        `toml:"operand"`
	Base     string        `toml:"base"`
	Index    string        `toml:"index"`
	Inner    string        `toml:"inner"`
	Callee   string        `toml:"callee"`
	Left     string        `toml:"left"`
	Right    string        `toml:"right"`
	Args     []string      `toml:"args"`
	Elems    []string      `toml:"elems"`
	Value    string        `toml:"value"`
	Type     string        `toml:"type"`
	Resolves []string      `toml:"resolves"`
	Adjust   []adjustEntry `toml:"adjust"`
}

type adjustEntry struct {
	Kind string `toml:"kind"`
	Type string `toml:"type"`
}

// Load reads and decodes one fixture file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Decode(string(data))
}

// Decode builds a Program from TOML text. Entries may only reference
// entries defined before them, except that pattern resolution edges may
// point at declarations defined later (they are wired in a final pass).
func Decode(text string) (*Program, error) {
	var m manifest
	if err := toml.Unmarshal([]byte(text), &m); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	b := &builder{
		prog: &Program{
			Name:    m.Name,
			Builder: ast.NewBuilder(ast.Hints{}),
			Types:   types.NewInterner(),
			Strings: source.NewInterner(),
			Infer:   infer.NewResult(),
			Exprs:   make(map[string]ast.ExprID),
			Pats:    make(map[string]ast.PatID),
			Decls:   make(map[string]ast.DeclID),
			TypeIDs: make(map[string]types.TypeID),
			Checks:  m.Check,
		},
	}
	b.seedBuiltins()

	for i := range m.Types {
		if err := b.addType(&m.Types[i]); err != nil {
			return nil, err
		}
	}
	for i := range m.Pats {
		if err := b.addPat(&m.Pats[i]); err != nil {
			return nil, err
		}
	}
	for i := range m.Decls {
		if err := b.addDecl(&m.Decls[i]); err != nil {
			return nil, err
		}
	}
	// Resolution edges from patterns may target any declaration.
	for i := range m.Pats {
		if err := b.wirePat(&m.Pats[i]); err != nil {
			return nil, err
		}
	}
	for i := range m.Exprs {
		if err := b.addExpr(&m.Exprs[i]); err != nil {
			return nil, err
		}
	}
	return b.prog, nil
}

type builder struct {
	prog   *Program
	offset uint32
}

// span fabricates a distinct, ordered span for each node so diagnostics
// sort deterministically.
func (b *builder) span() source.Span {
	b.offset++
	return source.Span{File: 1, Start: b.offset, End: b.offset + 1}
}

// seedBuiltins pre-registers the primitive type handles every fixture can
// use without declaring them.
func (b *builder) seedBuiltins() {
	bt := b.prog.Types.Builtins()
	b.prog.TypeIDs["unit"] = bt.Unit
	b.prog.TypeIDs["bool"] = bt.Bool
	b.prog.TypeIDs["string"] = bt.String
	b.prog.TypeIDs["int"] = bt.Int
	b.prog.TypeIDs["uint"] = bt.Uint
	b.prog.TypeIDs["float"] = bt.Float
}

func (b *builder) typeRef(handle string) (types.TypeID, error) {
	if handle == "" {
		return types.NoTypeID, nil
	}
	id, ok := b.prog.TypeIDs[handle]
	if !ok {
		return types.NoTypeID, fmt.Errorf("fixture: unknown type %q", handle)
	}
	return id, nil
}

func (b *builder) addType(e *typeEntry) error {
	if e.ID == "" {
		return fmt.Errorf("fixture: type entry without id")
	}
	elem, err := b.typeRef(e.Elem)
	if err != nil {
		return err
	}
	region := types.RegionStatic
	if e.Region != 0 {
		region = types.Region(e.Region)
	}
	var desc types.Type
	switch e.Kind {
	case "int":
		desc = types.MakeInt(types.WidthAny)
	case "uint":
		desc = types.MakeUint(types.WidthAny)
	case "float":
		desc = types.MakeFloat(types.WidthAny)
	case "bool":
		desc = types.Type{Kind: types.KindBool}
	case "unit":
		desc = types.Type{Kind: types.KindUnit}
	case "string":
		desc = types.Type{Kind: types.KindString}
	case "tuple":
		desc = types.MakeTuple(e.Count)
	case "array":
		count := e.Count
		if count == 0 {
			count = types.ArrayDynamicLength
		}
		desc = types.MakeArray(elem, count)
	case "fn":
		desc = types.MakeFn(e.Count, elem)
	case "ref":
		desc = types.MakeReference(elem, e.Mutable, region)
	case "ptr":
		desc = types.MakeRawPointer(elem, e.Mutable)
	case "own":
		desc = types.MakeOwn(elem)
	case "struct":
		desc = types.MakeStruct(b.prog.Strings.Intern(e.Name))
	case "enum":
		desc = types.MakeEnum(b.prog.Strings.Intern(e.Name))
	default:
		return fmt.Errorf("fixture: unknown type kind %q", e.Kind)
	}
	id := b.prog.Types.Intern(desc)
	b.prog.TypeIDs[e.ID] = id
	if e.Copy {
		b.prog.Infer.CopyTypes[id] = struct{}{}
	}
	return nil
}

func declKind(s string) (ast.DeclKind, error) {
	switch s {
	case "let":
		return ast.DeclLet, nil
	case "self":
		return ast.DeclSelfParam, nil
	case "static":
		return ast.DeclStatic, nil
	case "const":
		return ast.DeclConst, nil
	case "fn":
		return ast.DeclFn, nil
	case "struct-ctor":
		return ast.DeclStructCtor, nil
	case "variant":
		return ast.DeclVariant, nil
	default:
		return ast.DeclInvalid, fmt.Errorf("fixture: unknown decl kind %q", s)
	}
}

func (b *builder) addDecl(e *declEntry) error {
	if e.ID == "" {
		return fmt.Errorf("fixture: decl entry without id")
	}
	kind, err := declKind(e.Kind)
	if err != nil {
		return err
	}
	name := e.Name
	if name == "" {
		name = e.ID
	}
	var pat ast.PatID
	if e.Pat != "" {
		var ok bool
		pat, ok = b.prog.Pats[e.Pat]
		if !ok {
			return fmt.Errorf("fixture: decl %q: unknown pat %q", e.ID, e.Pat)
		}
	}
	id := b.prog.Builder.Decls.New(ast.Decl{
		Kind:    kind,
		Name:    b.prog.Strings.Intern(name),
		Span:    b.span(),
		Mutable: e.Mutable,
		Pat:     pat,
	})
	b.prog.Decls[e.ID] = id
	return nil
}

func (b *builder) patRef(handle string) (ast.PatID, error) {
	if handle == "" {
		return ast.NoPatID, nil
	}
	id, ok := b.prog.Pats[handle]
	if !ok {
		return ast.NoPatID, fmt.Errorf("fixture: unknown pat %q", handle)
	}
	return id, nil
}

func (b *builder) addPat(e *patEntry) error {
	if e.ID == "" {
		return fmt.Errorf("fixture: pat entry without id")
	}
	pats := b.prog.Builder.Pats
	var id ast.PatID
	switch e.Kind {
	case "wild":
		id = pats.NewWild(b.span())
	case "lit":
		id = pats.NewLit(b.span(), b.prog.Strings.Intern(e.Value))
	case "bind":
		name := e.Name
		if name == "" {
			name = e.ID
		}
		sub, err := b.patRef(e.Sub)
		if err != nil {
			return err
		}
		id = pats.NewBind(b.span(), b.prog.Strings.Intern(name), e.Mutable, sub)
	case "tuple":
		elems, err := b.patRefs(e.Elems)
		if err != nil {
			return err
		}
		id = pats.NewTuple(b.span(), elems)
	case "tuple-struct":
		elems, err := b.patRefs(e.Elems)
		if err != nil {
			return err
		}
		id = pats.NewTupleStruct(b.span(), b.prog.Strings.Intern(e.Path), elems)
	case "struct":
		fields := make([]ast.PatFieldData, 0, len(e.Fields))
		for _, f := range e.Fields {
			sub, err := b.patRef(f.Pat)
			if err != nil {
				return err
			}
			fields = append(fields, ast.PatFieldData{
				Name: b.prog.Strings.Intern(f.Name),
				Pat:  sub,
			})
		}
		id = pats.NewStruct(b.span(), b.prog.Strings.Intern(e.Path), fields)
	case "slice":
		elems, err := b.patRefs(e.Elems)
		if err != nil {
			return err
		}
		id = pats.NewSlice(b.span(), elems)
	default:
		return fmt.Errorf("fixture: unknown pat kind %q", e.Kind)
	}
	b.prog.Pats[e.ID] = id
	return nil
}

func (b *builder) patRefs(handles []string) ([]ast.PatID, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	out := make([]ast.PatID, 0, len(handles))
	for _, h := range handles {
		id, err := b.patRef(h)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// wirePat records the inference edges of one pattern entry: its bound type
// and what its head identifier resolves to.
func (b *builder) wirePat(e *patEntry) error {
	id := b.prog.Pats[e.ID]
	if e.BindingType != "" {
		ty, err := b.typeRef(e.BindingType)
		if err != nil {
			return err
		}
		b.prog.Infer.BindingTypes[id] = ty
	}
	if e.Resolves != "" {
		decl, ok := b.prog.Decls[e.Resolves]
		if !ok {
			return fmt.Errorf("fixture: pat %q: unknown decl %q", e.ID, e.Resolves)
		}
		b.prog.Infer.PatDecls[id] = decl
	}
	return nil
}

func (b *builder) exprRef(handle string) (ast.ExprID, error) {
	if handle == "" {
		return ast.NoExprID, nil
	}
	id, ok := b.prog.Exprs[handle]
	if !ok {
		return ast.NoExprID, fmt.Errorf("fixture: unknown expr %q", handle)
	}
	return id, nil
}

func (b *builder) exprRefs(handles []string) ([]ast.ExprID, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	out := make([]ast.ExprID, 0, len(handles))
	for _, h := range handles {
		id, err := b.exprRef(h)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func unaryOp(s string) (ast.UnaryOp, error) {
	switch s {
	case "deref":
		return ast.UnopDeref, nil
	case "neg":
		return ast.UnopNeg, nil
	case "not":
		return ast.UnopNot, nil
	case "ref":
		return ast.UnopRef, nil
	case "ref-mut":
		return ast.UnopRefMut, nil
	default:
		return ast.UnopInvalid, fmt.Errorf("fixture: unknown unary op %q", s)
	}
}

func (b *builder) addExpr(e *exprEntry) error {
	if e.ID == "" {
		return fmt.Errorf("fixture: expr entry without id")
	}
	exprs := b.prog.Builder.Exprs
	var id ast.ExprID
	switch e.Kind {
	case "path":
		name := e.Name
		if name == "" {
			name = e.ID
		}
		id = exprs.NewPath(b.span(), b.prog.Strings.Intern(name))
	case "lit":
		id = exprs.NewLit(b.span(), ast.ExprLitInt, b.prog.Strings.Intern(e.Value))
	case "unary":
		op, err := unaryOp(e.Op)
		if err != nil {
			return err
		}
		operand, err := b.exprRef(e.Operand)
		if err != nil {
			return err
		}
		id = exprs.NewUnary(b.span(), op, operand)
	case "binary":
		left, err := b.exprRef(e.Left)
		if err != nil {
			return err
		}
		right, err := b.exprRef(e.Right)
		if err != nil {
			return err
		}
		id = exprs.NewBinary(b.span(), b.prog.Strings.Intern(e.Op), left, right)
	case "call":
		callee, err := b.exprRef(e.Callee)
		if err != nil {
			return err
		}
		args, err := b.exprRefs(e.Args)
		if err != nil {
			return err
		}
		id = exprs.NewCall(b.span(), callee, args)
	case "field":
		base, err := b.exprRef(e.Base)
		if err != nil {
			return err
		}
		id = exprs.NewField(b.span(), base, b.prog.Strings.Intern(e.Name))
	case "method":
		base, err := b.exprRef(e.Base)
		if err != nil {
			return err
		}
		args, err := b.exprRefs(e.Args)
		if err != nil {
			return err
		}
		id = exprs.NewMethodCall(b.span(), base, b.prog.Strings.Intern(e.Name), args)
	case "index":
		base, err := b.exprRef(e.Base)
		if err != nil {
			return err
		}
		index, err := b.exprRef(e.Index)
		if err != nil {
			return err
		}
		id = exprs.NewIndex(b.span(), base, index)
	case "group":
		inner, err := b.exprRef(e.Inner)
		if err != nil {
			return err
		}
		id = exprs.NewGroup(b.span(), inner)
	case "struct":
		path, err := b.exprRef(e.Base)
		if err != nil {
			return err
		}
		fields, err := b.exprRefs(e.Elems)
		if err != nil {
			return err
		}
		id = exprs.NewStruct(b.span(), path, fields)
	case "array":
		elems, err := b.exprRefs(e.Elems)
		if err != nil {
			return err
		}
		id = exprs.NewArray(b.span(), elems)
	default:
		return fmt.Errorf("fixture: unknown expr kind %q", e.Kind)
	}
	b.prog.Exprs[e.ID] = id

	if e.Type != "" {
		ty, err := b.typeRef(e.Type)
		if err != nil {
			return err
		}
		b.prog.Infer.ExprTypes[id] = ty
	}
	if len(e.Resolves) > 0 {
		decls := make([]ast.DeclID, 0, len(e.Resolves))
		for _, handle := range e.Resolves {
			decl, ok := b.prog.Decls[handle]
			if !ok {
				return fmt.Errorf("fixture: expr %q: unknown decl %q", e.ID, handle)
			}
			decls = append(decls, decl)
		}
		b.prog.Infer.PathDecls[id] = decls
	}
	for _, adj := range e.Adjust {
		ty, err := b.typeRef(adj.Type)
		if err != nil {
			return err
		}
		kind := infer.AdjustOther
		if adj.Kind == "deref" {
			kind = infer.AdjustDeref
		}
		b.prog.Infer.ExprAdjusts[id] = append(b.prog.Infer.ExprAdjusts[id], infer.Adjust{Kind: kind, Type: ty})
	}
	return nil
}

// MarkCopy registers a type handle as copyable.
func (p *Program) MarkCopy(handle string) error {
	id, ok := p.TypeIDs[handle]
	if !ok {
		return fmt.Errorf("fixture: unknown type %q", handle)
	}
	p.Infer.CopyTypes[id] = struct{}{}
	return nil
}
