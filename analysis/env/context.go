package env

import "go/types"

type (
	// Decl is a declaration that may be bound to a storage location. The
	// dynamic type of a Decl must be comparable.
	Decl interface {
		Type() types.Type
	}

	// Expr is an expression that may be bound to a storage location. The
	// dynamic type of an Expr must be comparable.
	Expr interface {
		Type() types.Type
	}
)

type fieldKey struct {
	parent any
	field  *types.Var
}

// AnalysisContext owns the storage locations and values of one fixpoint
// computation. Locations handed out for a declaration, an expression or a key
// are stable: asking twice yields the same location.
//
// An AnalysisContext must not be used concurrently.
type AnalysisContext struct {
	nextID int

	declToLoc    map[Decl]StorageLocation
	exprToLoc    map[Expr]StorageLocation
	keyToLoc     map[any]StorageLocation
	stableValues map[any]Value
	mergedValues map[StorageLocation]Value

	thisPointee StorageLocation
}

func NewAnalysisContext() *AnalysisContext {
	return &AnalysisContext{
		declToLoc:    make(map[Decl]StorageLocation),
		exprToLoc:    make(map[Expr]StorageLocation),
		keyToLoc:     make(map[any]StorageLocation),
		stableValues: make(map[any]Value),
		mergedValues: make(map[StorageLocation]Value),
	}
}

func (ctx *AnalysisContext) newID() int {
	ctx.nextID++
	return ctx.nextID
}

// CreateStorageLocation creates a fresh location for a value of type t.
// Struct types yield aggregate locations with a child per field.
func (ctx *AnalysisContext) CreateStorageLocation(t types.Type) StorageLocation {
	st, ok := structOf(t)
	if !ok {
		return &ScalarLocation{typ: t, id: ctx.newID()}
	}

	loc := &AggregateLocation{
		typ:      t,
		id:       ctx.newID(),
		fields:   make([]*types.Var, 0, st.NumFields()),
		children: make(map[*types.Var]StorageLocation, st.NumFields()),
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		loc.fields = append(loc.fields, f)
		loc.children[f] = ctx.CreateStorageLocation(f.Type())
	}
	return loc
}

// StorageLocationForDecl returns the stable location of d.
func (ctx *AnalysisContext) StorageLocationForDecl(d Decl) StorageLocation {
	if loc, ok := ctx.declToLoc[d]; ok {
		return loc
	}
	loc := ctx.CreateStorageLocation(d.Type())
	ctx.declToLoc[d] = loc
	return loc
}

// StorageLocationForExpr returns the stable location of e. Reference-typed
// expressions are given a location of the referenced type.
func (ctx *AnalysisContext) StorageLocationForExpr(e Expr) StorageLocation {
	if loc, ok := ctx.exprToLoc[e]; ok {
		return loc
	}
	t := e.Type()
	if ref, ok := t.(*Reference); ok {
		t = ref.Elem()
	}
	loc := ctx.CreateStorageLocation(t)
	ctx.exprToLoc[e] = loc
	return loc
}

// StorageLocationFor returns the stable location associated with key. The
// key must be comparable.
func (ctx *AnalysisContext) StorageLocationFor(key any, t types.Type) StorageLocation {
	if loc, ok := ctx.keyToLoc[key]; ok {
		return loc
	}
	loc := ctx.CreateStorageLocation(t)
	ctx.keyToLoc[key] = loc
	return loc
}

// StableValue returns the value associated with key, creating it on first
// use. Only integer, boolean and struct types have stable values. The fields
// of a struct value are themselves stable.
func (ctx *AnalysisContext) StableValue(key any, t types.Type) Value {
	if v, ok := ctx.stableValues[key]; ok {
		return v
	}

	var v Value
	switch {
	case isInteger(t):
		v = &IntegerValue{ctx.newID()}
	case isBoolean(t):
		v = &BoolValue{ctx.newID()}
	default:
		st, ok := structOf(t)
		if !ok {
			return nil
		}
		children := make(map[*types.Var]Value, st.NumFields())
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if cv := ctx.StableValue(fieldKey{key, f}, f.Type()); cv != nil {
				children[f] = cv
			}
		}
		v = &StructValue{children}
	}

	ctx.stableValues[key] = v
	return v
}

// ThisPointeeStorageLocation returns the location of the receiver object, or
// nil outside methods.
func (ctx *AnalysisContext) ThisPointeeStorageLocation() StorageLocation {
	return ctx.thisPointee
}

func (ctx *AnalysisContext) SetThisPointeeStorageLocation(loc StorageLocation) {
	ctx.thisPointee = loc
}
