package env

import (
	"go/types"

	"golang.org/x/tools/go/ssa"
)

// initDecl binds d to its stable location and stores a fresh value there,
// unless d is already bound.
func (e *Environment) initDecl(d Decl) {
	if e.GetStorageLocationForDecl(d, SkipNone) != nil {
		return
	}
	loc := e.CreateStorageLocationForDecl(d)
	e.SetStorageLocationForDecl(d, loc)
	if v := e.CreateValue(d.Type()); v != nil {
		e.SetValue(loc, v)
	}
}

// NewFunctionEnvironment creates the initial environment for analyzing fun.
// Globals referenced by the body, parameters and free variables are bound
// to fresh values. For methods, the receiver object is given a location of
// its own, recorded as the receiver pointee in ctx.
func NewFunctionEnvironment(ctx *AnalysisContext, fun *ssa.Function) Environment {
	e := NewEnvironment(ctx)

	for _, b := range fun.Blocks {
		for _, instr := range b.Instrs {
			var ops [8]*ssa.Value
			for _, op := range instr.Operands(ops[:0]) {
				if op == nil {
					continue
				}
				if g, ok := (*op).(*ssa.Global); ok {
					e.initDecl(g)
				}
			}
		}
	}

	for _, p := range fun.Params {
		e.initDecl(p)
	}
	for _, fv := range fun.FreeVars {
		e.initDecl(fv)
	}

	if recv := fun.Signature.Recv(); recv != nil {
		t := recv.Type()
		ptr, isPtr := t.Underlying().(*types.Pointer)
		if isPtr {
			t = ptr.Elem()
		}

		loc := e.CreateStorageLocation(t)
		ctx.SetThisPointeeStorageLocation(loc)
		if v := e.CreateValue(t); v != nil {
			e.SetValue(loc, v)
		}

		// Pointer receivers point to the receiver object.
		if isPtr && len(fun.Params) > 0 {
			if recvLoc := e.GetStorageLocationForDecl(fun.Params[0], SkipNone); recvLoc != nil {
				e.SetValue(recvLoc, NewPointerValue(loc))
			}
		}
	}

	return e
}
