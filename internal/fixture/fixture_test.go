package fixture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ferrite/internal/ast"
	"ferrite/internal/infer"
)

const sampleManifest = `
name = "deref-shared"

[[type]]
id = "ref_int"
kind = "ref"
elem = "int"

[[decl]]
id = "r"
kind = "let"

[[expr]]
id = "path_r"
kind = "path"
name = "r"
type = "ref_int"
resolves = ["r"]

[[expr]]
id = "deref_r"
kind = "unary"
op = "deref"
operand = "path_r"
type = "int"

[check]
assign = ["deref_r"]
dump = ["deref_r"]
`

func TestDecodeManifest(t *testing.T) {
	prog, err := Decode(sampleManifest)
	require.NoError(t, err)
	require.Equal(t, "deref-shared", prog.Name)

	refTy, ok := prog.TypeIDs["ref_int"]
	require.True(t, ok)
	tt, ok := prog.Types.Lookup(refTy)
	require.True(t, ok)
	require.Equal(t, prog.Types.Builtins().Int, tt.Elem)
	require.False(t, tt.Mutable)

	declID, ok := prog.Decls["r"]
	require.True(t, ok)
	decl := prog.Builder.Decls.Get(declID)
	require.NotNil(t, decl)
	require.Equal(t, ast.DeclLet, decl.Kind)
	require.Equal(t, "r", prog.Strings.MustLookup(decl.Name))

	path, ok := prog.Exprs["path_r"]
	require.True(t, ok)
	require.Equal(t, refTy, prog.Infer.ExprType(path))
	require.Equal(t, []ast.DeclID{declID}, prog.Infer.ResolvedPaths(path))

	deref, ok := prog.Exprs["deref_r"]
	require.True(t, ok)
	node := prog.Builder.Exprs.Get(deref)
	require.NotNil(t, node)
	require.Equal(t, ast.ExprUnary, node.Kind)

	require.Equal(t, []string{"deref_r"}, prog.Checks.Assign)
	require.Equal(t, []string{"deref_r"}, prog.Checks.Dump)
}

func TestDecodePatternsAndWiring(t *testing.T) {
	prog, err := Decode(`
name = "tuple-walk"

[[pat]]
id = "a"
kind = "bind"
binding_type = "int"

[[pat]]
id = "b"
kind = "bind"
binding_type = "int"

[[pat]]
id = "whole"
kind = "tuple"
elems = ["a", "b"]

[[pat]]
id = "none_arm"
kind = "bind"
name = "None"
resolves = "none_variant"

[[decl]]
id = "none_variant"
kind = "variant"
name = "None"

[check]
[[check.walk]]
pat = "whole"
base = "missing"
`)
	require.NoError(t, err)

	a := prog.Pats["a"]
	require.Equal(t, prog.Types.Builtins().Int, prog.Infer.BindingType(a))

	// Resolution edges may point at declarations defined after the pattern.
	arm := prog.Pats["none_arm"]
	require.Equal(t, prog.Decls["none_variant"], prog.Infer.PatDecl(arm))

	require.Len(t, prog.Checks.Walk, 1)
	require.Equal(t, WalkCheck{Pat: "whole", Base: "missing"}, prog.Checks.Walk[0])
}

func TestDecodeAdjustments(t *testing.T) {
	prog, err := Decode(`
[[type]]
id = "ref_int"
kind = "ref"
elem = "int"

[[expr]]
id = "e"
kind = "path"
type = "ref_int"

[[expr.adjust]]
kind = "deref"
type = "int"

[[expr.adjust]]
kind = "other"
type = "ref_int"
`)
	require.NoError(t, err)

	adjusts := prog.Infer.Adjusts(prog.Exprs["e"])
	require.Len(t, adjusts, 2)
	require.Equal(t, infer.AdjustDeref, adjusts[0].Kind)
	require.Equal(t, prog.Types.Builtins().Int, adjusts[0].Type)
	require.Equal(t, infer.AdjustOther, adjusts[1].Kind)
}

func TestDecodeLiteralExprs(t *testing.T) {
	prog, err := Decode(`
[[type]]
id = "point"
kind = "struct"
name = "Point"

[[expr]]
id = "ctor"
kind = "path"
name = "Point"

[[expr]]
id = "one"
kind = "lit"
value = "1"

[[expr]]
id = "pt"
kind = "struct"
base = "ctor"
elems = ["one"]
type = "point"

[[expr]]
id = "arr"
kind = "array"
elems = ["one", "one"]
`)
	require.NoError(t, err)

	pt := prog.Builder.Exprs.Get(prog.Exprs["pt"])
	require.NotNil(t, pt)
	require.Equal(t, ast.ExprStruct, pt.Kind)
	data, ok := prog.Builder.Exprs.Struct(prog.Exprs["pt"])
	require.True(t, ok)
	require.Equal(t, prog.Exprs["ctor"], data.Path)
	require.Equal(t, []ast.ExprID{prog.Exprs["one"]}, data.Fields)
	require.Equal(t, prog.TypeIDs["point"], prog.Infer.ExprType(prog.Exprs["pt"]))

	arr := prog.Builder.Exprs.Get(prog.Exprs["arr"])
	require.NotNil(t, arr)
	require.Equal(t, ast.ExprArray, arr.Kind)
}

func TestDecodeCopyTypes(t *testing.T) {
	prog, err := Decode(`
[[type]]
id = "pos"
kind = "struct"
name = "Pos"
copy = true

[[type]]
id = "buf"
kind = "struct"
name = "Buf"
`)
	require.NoError(t, err)
	require.True(t, prog.Infer.IsCopy(prog.TypeIDs["pos"]))
	require.False(t, prog.Infer.IsCopy(prog.TypeIDs["buf"]))
}

func TestDecodeRejectsUnknownReferences(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"unknown type", "[[expr]]\nid = \"e\"\nkind = \"path\"\ntype = \"nope\"\n"},
		{"unknown decl", "[[expr]]\nid = \"e\"\nkind = \"path\"\nresolves = [\"nope\"]\n"},
		{"unknown operand", "[[expr]]\nid = \"e\"\nkind = \"unary\"\nop = \"deref\"\noperand = \"nope\"\n"},
		{"unknown expr kind", "[[expr]]\nid = \"e\"\nkind = \"nope\"\n"},
		{"unknown pat kind", "[[pat]]\nid = \"p\"\nkind = \"nope\"\n"},
		{"missing expr id", "[[expr]]\nkind = \"path\"\n"},
		{"bad toml", "= nope"},
	}
	for _, tc := range cases {
		if _, err := Decode(tc.text); err == nil {
			t.Errorf("%s: expected decode error", tc.name)
		}
	}
}

func TestMarkCopy(t *testing.T) {
	prog, err := Decode("[[type]]\nid = \"buf\"\nkind = \"struct\"\nname = \"Buf\"\n")
	require.NoError(t, err)
	require.Error(t, prog.MarkCopy("nope"))
	require.NoError(t, prog.MarkCopy("buf"))
	require.True(t, prog.Infer.IsCopy(prog.TypeIDs["buf"]))
}
