package env

import "go/types"

// Reference is the type of an alias to a storage location holding a value
// of type Elem. Go has no reference types, so references only occur when
// front-ends introduce them.
type Reference struct {
	elem types.Type
}

func NewReference(elem types.Type) *Reference {
	return &Reference{elem}
}

func (r *Reference) Elem() types.Type       { return r.elem }
func (r *Reference) Underlying() types.Type { return r }
func (r *Reference) String() string         { return "ref " + r.elem.String() }

var _ types.Type = (*Reference)(nil)

// structOf returns the struct type underlying t, if any.
func structOf(t types.Type) (*types.Struct, bool) {
	st, ok := t.Underlying().(*types.Struct)
	return st, ok
}

func isInteger(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsInteger != 0
}

func isBoolean(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsBoolean != 0
}
