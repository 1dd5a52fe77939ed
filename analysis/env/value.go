package env

import (
	"fmt"
	"go/types"
	"sort"
	"strings"
)

// Value is an abstract value stored at a location. Values are compared by
// identity, except for indirections, which are compared by their pointee.
type Value interface {
	String() string
	isValue()
}

// IndirectionValue is implemented by values that refer to a location.
type IndirectionValue interface {
	Value
	PointeeLoc() StorageLocation
}

type (
	IntegerValue struct{ id int }
	BoolValue    struct{ id int }

	ReferenceValue struct{ pointee StorageLocation }
	PointerValue   struct{ pointee StorageLocation }

	// StructValue maps fields to the values of the corresponding child
	// locations. A field may be absent when its value could not be created.
	StructValue struct {
		children map[*types.Var]Value
	}
)

func NewReferenceValue(pointee StorageLocation) *ReferenceValue {
	return &ReferenceValue{pointee}
}

func NewPointerValue(pointee StorageLocation) *PointerValue {
	return &PointerValue{pointee}
}

func NewStructValue(children map[*types.Var]Value) *StructValue {
	if children == nil {
		children = make(map[*types.Var]Value)
	}
	return &StructValue{children}
}

func (v *IntegerValue) String() string { return fmt.Sprintf("I%d", v.id) }
func (v *BoolValue) String() string    { return fmt.Sprintf("B%d", v.id) }

func (v *ReferenceValue) String() string              { return "&" + v.pointee.String() }
func (v *ReferenceValue) PointeeLoc() StorageLocation { return v.pointee }

func (v *PointerValue) String() string              { return "*" + v.pointee.String() }
func (v *PointerValue) PointeeLoc() StorageLocation { return v.pointee }

// Child returns the value of the given field, or nil.
func (v *StructValue) Child(field *types.Var) Value {
	return v.children[field]
}

// WithChild returns a copy of v where field is bound to val.
func (v *StructValue) WithChild(field *types.Var, val Value) *StructValue {
	if v.children[field] == val {
		return v
	}
	children := make(map[*types.Var]Value, len(v.children)+1)
	for f, c := range v.children {
		children[f] = c
	}
	children[field] = val
	return &StructValue{children}
}

func (v *StructValue) String() string {
	strs := make([]string, 0, len(v.children))
	for f, c := range v.children {
		str := "<nil>"
		if c != nil {
			str = c.String()
		}
		strs = append(strs, f.Name()+": "+str)
	}
	sort.Strings(strs)
	return "{" + strings.Join(strs, ", ") + "}"
}

func (*IntegerValue) isValue()   {}
func (*BoolValue) isValue()      {}
func (*ReferenceValue) isValue() {}
func (*PointerValue) isValue()   {}
func (*StructValue) isValue()    {}

var (
	_ IndirectionValue = (*ReferenceValue)(nil)
	_ IndirectionValue = (*PointerValue)(nil)
)
