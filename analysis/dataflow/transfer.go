package dataflow

import (
	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/env"
	"github.com/cs-au-dk/goflow/analysis/transfer"
)

var _ transfer.StmtToEnvMap = (*solver)(nil)

// EnvironmentAt returns the environment at the end of the block containing
// stmt, if that block has been reached.
func (s *solver) EnvironmentAt(stmt cfg.Stmt) (env.Environment, bool) {
	b, ok := s.cfg.BlockOf(stmt)
	if !ok {
		return env.Environment{}, false
	}
	st, ok := s.states.At(b)
	return st.Env, ok
}

// transferBlock applies the transfer functions of the elements of b to st.
func (s *solver) transferBlock(b *cfg.Block, st State) State {
	builtin := s.analysis.ApplyBuiltinTransfer()

	for _, el := range b.Elements() {
		switch el.Kind() {
		case cfg.StatementKind:
			stmt := el.(cfg.StmtElement)
			if builtin {
				s.builtin.Transfer(s, stmt.Stmt, &st.Env)
			}
			st.Lattice = s.analysis.Transfer(stmt.Stmt, st.Lattice, &st.Env)
			if s.observer != nil {
				s.observer(stmt, st)
			}
		case cfg.InitializerKind:
			if builtin {
				transferInitializer(el.(cfg.InitializerElement), &st.Env)
			}
		}
	}

	return st
}

// transferInitializer binds the member of the receiver object to the value
// of the initializer expression. Reference members alias the location of
// the initializer instead.
func transferInitializer(init cfg.InitializerElement, e *env.Environment) {
	if init.Init == nil || init.Member == nil {
		return
	}

	this, ok := e.ThisPointeeStorageLocation().(*env.AggregateLocation)
	if !ok {
		return
	}
	memberLoc := this.Child(init.Member)
	if memberLoc == nil {
		return
	}

	initLoc := e.GetStorageLocationForExpr(init.Init, env.SkipReference)
	if initLoc == nil {
		return
	}
	initVal := e.GetValue(initLoc)
	if initVal == nil {
		return
	}

	if _, ok := init.Member.Type().(*env.Reference); ok {
		e.SetValue(memberLoc, env.NewReferenceValue(initLoc))
	} else {
		e.SetValue(memberLoc, initVal)
	}
}
