package env

import (
	"fmt"
	"go/types"
	"log"
	"sort"
	"strings"

	"github.com/cs-au-dk/goflow/utils"

	"github.com/benbjohnson/immutable"
)

const (
	maxCompositeValueDepth = 3
	maxCompositeValueSize  = 1000
)

// SkipPast controls how storage location lookups treat indirections.
type SkipPast int

const (
	// SkipNone returns the location as is.
	SkipNone SkipPast = iota
	// SkipReference follows a reference stored at the location.
	SkipReference
	// SkipReferenceThenPointer follows a reference, then a pointer.
	SkipReferenceThenPointer
)

// JoinEffect reports whether a join changed the environment.
type JoinEffect int

const (
	Unchanged JoinEffect = iota
	Changed
)

func (e JoinEffect) String() string {
	if e == Changed {
		return "changed"
	}
	return "unchanged"
}

// ValueModel lets an analysis decide equivalence and merging of values that
// are not identical.
type ValueModel interface {
	// CompareEquivalent reports whether v1 and v2 of type t are equivalent.
	CompareEquivalent(t types.Type, v1, v2 Value) bool
	// Merge decides whether merged, a fresh value of type t, may stand for
	// both v1 and v2 in the joined environment merged belongs to.
	Merge(t types.Type, v1, v2, merged Value, env *Environment) bool
}

// DefaultValueModel considers distinct values inequivalent and declines
// merging.
type DefaultValueModel struct{}

func (DefaultValueModel) CompareEquivalent(types.Type, Value, Value) bool { return false }
func (DefaultValueModel) Merge(types.Type, Value, Value, Value, *Environment) bool {
	return false
}

type memberRef struct {
	parent *AggregateLocation
	field  *types.Var
}

// Environment maps declarations and expressions to storage locations, and
// storage locations to values.
//
// The maps are persistent, so copying an Environment by value is cheap and
// yields an independent environment. The zero value is not usable; create
// environments with NewEnvironment.
type Environment struct {
	ctx *AnalysisContext

	declToLoc         *immutable.Map[Decl, StorageLocation]
	exprToLoc         *immutable.Map[Expr, StorageLocation]
	memberLocToStruct *immutable.Map[StorageLocation, memberRef]
	locToVal          *immutable.Map[StorageLocation, Value]
}

func NewEnvironment(ctx *AnalysisContext) Environment {
	return Environment{
		ctx:               ctx,
		declToLoc:         utils.NewPointerMap[Decl, StorageLocation](),
		exprToLoc:         utils.NewPointerMap[Expr, StorageLocation](),
		memberLocToStruct: utils.NewPointerMap[StorageLocation, memberRef](),
		locToVal:          utils.NewPointerMap[StorageLocation, Value](),
	}
}

func (e *Environment) Context() *AnalysisContext {
	return e.ctx
}

func intersect[K, V any](a, b *immutable.Map[K, V], eq func(V, V) bool) *immutable.Map[K, V] {
	if a == b {
		return a
	}
	res := a
	for itr := a.Iterator(); !itr.Done(); {
		k, v, _ := itr.Next()
		if ov, ok := b.Get(k); !ok || !eq(v, ov) {
			res = res.Delete(k)
		}
	}
	return res
}

func sameEntries[K, V any](a, b *immutable.Map[K, V], eq func(V, V) bool) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	for itr := a.Iterator(); !itr.Done(); {
		k, v, _ := itr.Next()
		if ov, ok := b.Get(k); !ok || !eq(v, ov) {
			return false
		}
	}
	return true
}

func sameLoc(a, b StorageLocation) bool { return a == b }
func sameRef(a, b memberRef) bool       { return a == b }

func equivalentValues(t types.Type, v1, v2 Value, model ValueModel) bool {
	if v1 == v2 {
		return true
	}

	switch v1 := v1.(type) {
	case *ReferenceValue:
		v2, ok := v2.(*ReferenceValue)
		return ok && v1.pointee == v2.pointee
	case *PointerValue:
		v2, ok := v2.(*PointerValue)
		return ok && v1.pointee == v2.pointee
	case *StructValue:
		if v2, ok := v2.(*StructValue); ok && len(v1.children) == len(v2.children) {
			same := true
			for f, c1 := range v1.children {
				c2, found := v2.children[f]
				if !found || (c1 != c2 && (c1 == nil || c2 == nil ||
					!equivalentValues(f.Type(), c1, c2, model))) {
					same = false
					break
				}
			}
			if same {
				return true
			}
		}
	}

	return model.CompareEquivalent(t, v1, v2)
}

// EquivalentTo reports whether e and other bind the same declarations and
// expressions to the same locations, and hold equivalent values at the same
// locations.
func (e *Environment) EquivalentTo(other *Environment, model ValueModel) bool {
	if e.ctx != other.ctx {
		return false
	}
	if !sameEntries(e.declToLoc, other.declToLoc, sameLoc) ||
		!sameEntries(e.exprToLoc, other.exprToLoc, sameLoc) ||
		!sameEntries(e.memberLocToStruct, other.memberLocToStruct, sameRef) {
		return false
	}

	if e.locToVal == other.locToVal {
		return true
	}
	if e.locToVal.Len() != other.locToVal.Len() {
		return false
	}
	for itr := e.locToVal.Iterator(); !itr.Done(); {
		loc, v, _ := itr.Next()
		ov, ok := other.locToVal.Get(loc)
		if !ok || !equivalentValues(loc.Type(), v, ov, model) {
			return false
		}
	}
	return true
}

// Join joins other into e. Bindings are kept when both environments agree on
// them. Locations holding inequivalent values are bound to a merged value if
// the model accepts it, and dropped otherwise.
func (e *Environment) Join(other *Environment, model ValueModel) JoinEffect {
	if e.ctx != other.ctx {
		panic(fmt.Errorf("joining environments of different analysis contexts"))
	}

	prevDecls, prevExprs := e.declToLoc.Len(), e.exprToLoc.Len()
	prevMembers, prevVals := e.memberLocToStruct.Len(), e.locToVal.Len()

	e.declToLoc = intersect(e.declToLoc, other.declToLoc, sameLoc)
	e.exprToLoc = intersect(e.exprToLoc, other.exprToLoc, sameLoc)
	e.memberLocToStruct = intersect(e.memberLocToStruct, other.memberLocToStruct, sameRef)

	effect := Unchanged
	if e.locToVal != other.locToVal {
		// e.locToVal is updated in place so that values assigned by the model
		// or by value creation during the merge are kept.
		prev := e.locToVal
		for itr := prev.Iterator(); !itr.Done(); {
			loc, v, _ := itr.Next()
			if cur, ok := e.locToVal.Get(loc); ok && cur != v {
				// Assigned while merging an earlier location.
				continue
			}
			ov, ok := other.locToVal.Get(loc)
			switch {
			case !ok:
				e.locToVal = e.locToVal.Delete(loc)
			case equivalentValues(loc.Type(), v, ov, model):
			default:
				if merged := e.mergedValue(loc); merged != nil && model.Merge(loc.Type(), v, ov, merged, e) {
					if merged != v {
						e.locToVal = e.locToVal.Set(loc, merged)
						effect = Changed
					}
				} else {
					e.locToVal = e.locToVal.Delete(loc)
				}
			}
		}
	}

	if prevDecls != e.declToLoc.Len() || prevExprs != e.exprToLoc.Len() ||
		prevMembers != e.memberLocToStruct.Len() || prevVals != e.locToVal.Len() {
		effect = Changed
	}
	return effect
}

// mergedValue returns the value standing for merged values at loc. The same
// location always receives the same merged value, and the locations it
// points to are bound in e.
func (e *Environment) mergedValue(loc StorageLocation) Value {
	if v, ok := e.ctx.mergedValues[loc]; ok {
		e.bindPointees(v)
		return v
	}
	v := e.CreateValue(loc.Type())
	if v != nil {
		e.ctx.mergedValues[loc] = v
		e.recordPointees(v)
	}
	return v
}

// recordPointees remembers the values CreateValue bound to the pointees of
// v, so that reusing v in another environment binds them again.
func (e *Environment) recordPointees(v Value) {
	switch v := v.(type) {
	case IndirectionValue:
		if pv := e.GetValue(v.PointeeLoc()); pv != nil {
			e.ctx.mergedValues[v.PointeeLoc()] = pv
			e.recordPointees(pv)
		}
	case *StructValue:
		for _, c := range v.children {
			e.recordPointees(c)
		}
	}
}

// bindPointees binds the unbound pointees of v to their merged values.
func (e *Environment) bindPointees(v Value) {
	switch v := v.(type) {
	case IndirectionValue:
		loc := v.PointeeLoc()
		if e.GetValue(loc) != nil {
			return
		}
		if pv := e.mergedValue(loc); pv != nil {
			e.SetValue(loc, pv)
		}
	case *StructValue:
		for _, c := range v.children {
			e.bindPointees(c)
		}
	}
}

// CreateStorageLocation creates a fresh location for a value of type t.
func (e *Environment) CreateStorageLocation(t types.Type) StorageLocation {
	return e.ctx.CreateStorageLocation(t)
}

// CreateStorageLocationForDecl returns the stable location of d. It does not
// bind d.
func (e *Environment) CreateStorageLocationForDecl(d Decl) StorageLocation {
	return e.ctx.StorageLocationForDecl(d)
}

// CreateStorageLocationForExpr returns the stable location of ex. It does not
// bind ex.
func (e *Environment) CreateStorageLocationForExpr(ex Expr) StorageLocation {
	return e.ctx.StorageLocationForExpr(ex)
}

func (e *Environment) SetStorageLocationForDecl(d Decl, loc StorageLocation) {
	e.declToLoc = e.declToLoc.Set(d, loc)
}

func (e *Environment) SetStorageLocationForExpr(ex Expr, loc StorageLocation) {
	e.exprToLoc = e.exprToLoc.Set(ex, loc)
}

// skip follows indirections from loc according to sp.
func (e *Environment) skip(loc StorageLocation, sp SkipPast) StorageLocation {
	switch sp {
	case SkipReference:
		// References cannot be chained, so one level suffices.
		if ref, ok := e.GetValue(loc).(*ReferenceValue); ok {
			return ref.pointee
		}
	case SkipReferenceThenPointer:
		loc = e.skip(loc, SkipReference)
		if ptr, ok := e.GetValue(loc).(*PointerValue); ok {
			return ptr.pointee
		}
	}
	return loc
}

// GetStorageLocationForDecl returns the location bound to d, or nil.
func (e *Environment) GetStorageLocationForDecl(d Decl, sp SkipPast) StorageLocation {
	loc, ok := e.declToLoc.Get(d)
	if !ok {
		return nil
	}
	return e.skip(loc, sp)
}

// GetStorageLocationForExpr returns the location bound to ex, or nil.
func (e *Environment) GetStorageLocationForExpr(ex Expr, sp SkipPast) StorageLocation {
	loc, ok := e.exprToLoc.Get(ex)
	if !ok {
		return nil
	}
	return e.skip(loc, sp)
}

// ThisPointeeStorageLocation returns the location of the receiver object, or
// nil outside methods.
func (e *Environment) ThisPointeeStorageLocation() StorageLocation {
	return e.ctx.thisPointee
}

// SetValue binds loc to val. Struct values are propagated to the children of
// aggregate locations, and values of member locations are propagated to the
// struct value of the parent location.
func (e *Environment) SetValue(loc StorageLocation, val Value) {
	e.setValueDown(loc, val)

	for {
		ref, ok := e.memberLocToStruct.Get(loc)
		if !ok {
			return
		}
		parent, ok := e.GetValue(ref.parent).(*StructValue)
		if !ok {
			return
		}
		updated := parent.WithChild(ref.field, val)
		if updated == parent {
			return
		}
		e.locToVal = e.locToVal.Set(ref.parent, updated)
		loc, val = ref.parent, updated
	}
}

func (e *Environment) setValueDown(loc StorageLocation, val Value) {
	e.locToVal = e.locToVal.Set(loc, val)

	sv, ok := val.(*StructValue)
	if !ok {
		return
	}
	agg, ok := loc.(*AggregateLocation)
	if !ok {
		return
	}

	for _, f := range agg.fields {
		child := agg.children[f]
		e.memberLocToStruct = e.memberLocToStruct.Set(child, memberRef{agg, f})
		if cv := sv.children[f]; cv != nil {
			e.setValueDown(child, cv)
		}
	}
}

// ClearValue removes the value at loc.
func (e *Environment) ClearValue(loc StorageLocation) {
	e.locToVal = e.locToVal.Delete(loc)
}

// GetValue returns the value at loc, or nil.
func (e *Environment) GetValue(loc StorageLocation) Value {
	if loc == nil {
		return nil
	}
	v, _ := e.locToVal.Get(loc)
	return v
}

// GetDeclValue returns the value at the location bound to d, or nil.
func (e *Environment) GetDeclValue(d Decl, sp SkipPast) Value {
	return e.GetValue(e.GetStorageLocationForDecl(d, sp))
}

// GetExprValue returns the value at the location bound to ex, or nil.
func (e *Environment) GetExprValue(ex Expr, sp SkipPast) Value {
	return e.GetValue(e.GetStorageLocationForExpr(ex, sp))
}

// CreateValue creates a value of type t, or returns nil for types without a
// value representation. Pointees of indirections are given fresh locations
// bound to fresh values. Nesting is bounded, and self-referential types are
// cut off.
func (e *Environment) CreateValue(t types.Type) Value {
	visited := make(map[types.Type]bool)
	count := 0
	v := e.createValueUnlessSelfReferential(t, visited, 0, &count)
	if count > maxCompositeValueSize {
		log.Printf("Attempting to initialize a huge value of type: %s", t)
	}
	return v
}

func (e *Environment) createValueUnlessSelfReferential(t types.Type, visited map[types.Type]bool, depth int, count *int) Value {
	// Allow unlimited fields at depth 1; only cap at deeper nesting levels.
	if (depth > 1 && *count > maxCompositeValueSize) || depth > maxCompositeValueDepth {
		return nil
	}

	switch {
	case isInteger(t):
		*count++
		return &IntegerValue{e.ctx.newID()}
	case isBoolean(t):
		*count++
		return &BoolValue{e.ctx.newID()}
	}

	indirection := func(pointee types.Type) StorageLocation {
		*count++
		loc := e.CreateStorageLocation(pointee)
		if !visited[pointee] {
			visited[pointee] = true
			if v := e.createValueUnlessSelfReferential(pointee, visited, depth, count); v != nil {
				e.SetValue(loc, v)
			}
			delete(visited, pointee)
		}
		return loc
	}

	if ref, ok := t.(*Reference); ok {
		return &ReferenceValue{indirection(ref.elem)}
	}
	if ptr, ok := t.Underlying().(*types.Pointer); ok {
		return &PointerValue{indirection(ptr.Elem())}
	}

	if st, ok := structOf(t); ok {
		*count++
		children := make(map[*types.Var]Value, st.NumFields())
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if visited[f.Type()] {
				continue
			}
			visited[f.Type()] = true
			if v := e.createValueUnlessSelfReferential(f.Type(), visited, depth+1, count); v != nil {
				children[f] = v
			}
			delete(visited, f.Type())
		}
		return &StructValue{children}
	}

	return nil
}

// StableValue returns the value the analysis context associates with key.
// See AnalysisContext.StableValue.
func (e *Environment) StableValue(key any, t types.Type) Value {
	return e.ctx.StableValue(key, t)
}

// StableStorageLocation returns the location the analysis context associates
// with key.
func (e *Environment) StableStorageLocation(key any, t types.Type) StorageLocation {
	return e.ctx.StorageLocationFor(key, t)
}

// Size is the number of locations holding a value.
func (e *Environment) Size() int {
	return e.locToVal.Len()
}

// ForEachValue calls do for every location holding a value.
func (e *Environment) ForEachValue(do func(StorageLocation, Value)) {
	for itr := e.locToVal.Iterator(); !itr.Done(); {
		loc, v, _ := itr.Next()
		do(loc, v)
	}
}

func (e *Environment) String() string {
	strs := make([]string, 0, e.locToVal.Len())
	e.ForEachValue(func(loc StorageLocation, v Value) {
		strs = append(strs, colorize.Location(loc.String())+" ↦ "+colorize.Value(v.String()))
	})
	sort.Strings(strs)
	return "[" + strings.Join(strs, ", ") + "]"
}
