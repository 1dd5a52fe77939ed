package transfer

import (
	"go/token"
	"go/types"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/env"

	"golang.org/x/tools/go/ssa"
)

// StmtToEnvMap gives access to the environment at the end of the block
// containing a statement.
type StmtToEnvMap interface {
	EnvironmentAt(s cfg.Stmt) (env.Environment, bool)
}

// Builtin is a transfer function applied to every statement before the
// analysis-specific transfer function.
type Builtin interface {
	Transfer(stmts StmtToEnvMap, s cfg.Stmt, e *env.Environment)
}

// SSA models the memory effects of SSA instructions on an environment.
// Statements that are not SSA instructions are left alone.
type SSA struct{}

var _ Builtin = SSA{}

type pointeeKey struct{ alloc *ssa.Alloc }

// valueOf evaluates an SSA value in e.
func valueOf(e *env.Environment, v ssa.Value) env.Value {
	switch v := v.(type) {
	case *ssa.Parameter, *ssa.FreeVar, *ssa.Global:
		return e.GetDeclValue(v, env.SkipNone)
	case *ssa.Const:
		if v.Value == nil {
			return nil
		}
		return e.StableValue(v, v.Type())
	default:
		return e.GetExprValue(v, env.SkipNone)
	}
}

// bind binds the expression v to its stable location holding val.
func bind(e *env.Environment, v ssa.Value, val env.Value) {
	loc := e.GetStorageLocationForExpr(v, env.SkipNone)
	if loc == nil {
		loc = e.CreateStorageLocationForExpr(v)
		e.SetStorageLocationForExpr(v, loc)
	}
	if val != nil {
		e.SetValue(loc, val)
	} else {
		e.ClearValue(loc)
	}
}

// bindOpaque binds v to the stable value of its type, if any.
func bindOpaque(e *env.Environment, v ssa.Value) {
	bind(e, v, e.StableValue(v, v.Type()))
}

func fieldOf(t types.Type, idx int) *types.Var {
	if ptr, ok := t.Underlying().(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if st, ok := t.Underlying().(*types.Struct); ok && idx < st.NumFields() {
		return st.Field(idx)
	}
	return nil
}

func (SSA) Transfer(stmts StmtToEnvMap, s cfg.Stmt, e *env.Environment) {
	instr, ok := s.(ssa.Instruction)
	if !ok {
		return
	}

	switch instr := instr.(type) {
	case *ssa.Alloc:
		elem := instr.Type().Underlying().(*types.Pointer).Elem()
		pointee := e.StableStorageLocation(pointeeKey{instr}, elem)
		// Allocations are zero-initialized.
		if zero := e.StableValue(pointeeKey{instr}, elem); zero != nil {
			e.SetValue(pointee, zero)
		}
		bind(e, instr, env.NewPointerValue(pointee))

	case *ssa.Store:
		if ptr, ok := valueOf(e, instr.Addr).(env.IndirectionValue); ok {
			if val := valueOf(e, instr.Val); val != nil {
				e.SetValue(ptr.PointeeLoc(), val)
			}
		}

	case *ssa.UnOp:
		if instr.Op == token.MUL {
			// Loads copy the current value.
			var val env.Value
			if ptr, ok := valueOf(e, instr.X).(env.IndirectionValue); ok {
				val = e.GetValue(ptr.PointeeLoc())
			}
			bind(e, instr, val)
			return
		}
		bindOpaque(e, instr)

	case *ssa.FieldAddr:
		var val env.Value
		if ptr, ok := valueOf(e, instr.X).(env.IndirectionValue); ok {
			if agg, ok := ptr.PointeeLoc().(*env.AggregateLocation); ok {
				if child := agg.Child(fieldOf(instr.X.Type(), instr.Field)); child != nil {
					val = env.NewPointerValue(child)
				}
			}
		}
		bind(e, instr, val)

	case *ssa.Field:
		var val env.Value
		if sv, ok := valueOf(e, instr.X).(*env.StructValue); ok {
			val = sv.Child(fieldOf(instr.X.Type(), instr.Field))
		}
		bind(e, instr, val)

	case *ssa.Phi:
		transferPhi(stmts, instr, e)

	case *ssa.ChangeType:
		bind(e, instr, valueOf(e, instr.X))

	case ssa.Value:
		// Any other value-producing instruction yields an opaque value.
		bindOpaque(e, instr)
	}
}

// transferPhi binds the phi to the incoming value if all predecessors agree
// on it, and to an opaque value otherwise. Incoming values are evaluated in
// the environment at the end of the block defining them.
func transferPhi(stmts StmtToEnvMap, phi *ssa.Phi, e *env.Environment) {
	var agreed env.Value
	for i, edge := range phi.Edges {
		var val env.Value
		if def, ok := edge.(ssa.Instruction); ok && def.Block() != nil {
			if defEnv, ok := stmts.EnvironmentAt(def); ok {
				val = valueOf(&defEnv, edge)
			}
		} else {
			val = valueOf(e, edge)
		}

		if val == nil || (i > 0 && !sameValue(agreed, val)) {
			bindOpaque(e, phi)
			return
		}
		agreed = val
	}

	bind(e, phi, agreed)
}

func sameValue(a, b env.Value) bool {
	if a == b {
		return true
	}
	ia, ok1 := a.(env.IndirectionValue)
	ib, ok2 := b.(env.IndirectionValue)
	return ok1 && ok2 && ia.PointeeLoc() == ib.PointeeLoc()
}
