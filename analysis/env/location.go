package env

import (
	"fmt"
	"go/types"
)

// StorageLocation is an abstract memory location. Locations are compared by
// identity.
type StorageLocation interface {
	Type() types.Type
	String() string
	isLocation()
}

// ScalarLocation is a location that has no children.
type ScalarLocation struct {
	typ types.Type
	id  int
}

func (l *ScalarLocation) Type() types.Type { return l.typ }
func (l *ScalarLocation) String() string   { return fmt.Sprintf("L%d", l.id) }
func (*ScalarLocation) isLocation()        {}

// AggregateLocation is the location of a struct. It owns one child location
// per field.
type AggregateLocation struct {
	typ      types.Type
	id       int
	fields   []*types.Var
	children map[*types.Var]StorageLocation
}

func (l *AggregateLocation) Type() types.Type { return l.typ }
func (l *AggregateLocation) String() string   { return fmt.Sprintf("L%d", l.id) }
func (*AggregateLocation) isLocation()        {}

// Fields returns the fields of the struct in declaration order.
func (l *AggregateLocation) Fields() []*types.Var {
	return l.fields
}

// Child returns the location of the given field, or nil if the field does not
// belong to the struct.
func (l *AggregateLocation) Child(field *types.Var) StorageLocation {
	return l.children[field]
}

var (
	_ StorageLocation = (*ScalarLocation)(nil)
	_ StorageLocation = (*AggregateLocation)(nil)
)
