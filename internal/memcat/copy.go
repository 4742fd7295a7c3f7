package memcat

import (
	"ferrite/internal/types"
)

// TypeMovesByDefault reports whether using a value of the given type
// transfers ownership. Unknown types, scalars, tuples, references, raw
// pointers and function types are structurally always duplicated, no matter
// what impls exist; everything else moves unless trait resolution says the
// type is copyable.
func (mc *Context) TypeMovesByDefault(id types.TypeID) bool {
	tt, ok := mc.Types.Lookup(id)
	if !ok || tt.Kind == types.KindInvalid {
		return false
	}
	if tt.Kind.IsScalar() {
		return false
	}
	switch tt.Kind {
	case types.KindTuple, types.KindReference, types.KindRawPointer, types.KindFn:
		return false
	}
	if mc.Copy == nil {
		return true
	}
	return !mc.Copy.IsCopy(id)
}
