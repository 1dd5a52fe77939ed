package dataflow

import (
	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/env"
	"github.com/cs-au-dk/goflow/analysis/lattice"
)

// TransferFunc computes the effect of a statement on a lattice element.
type TransferFunc func(s cfg.Stmt, e lattice.Element, env *env.Environment) lattice.Element

// LatticeAnalysis is an analysis over a lattice from the lattice package.
// The initial element is ⊥.
type LatticeAnalysis struct {
	Lattice lattice.Lattice
	// A nil TransferFunc leaves elements unchanged.
	TransferFunc TransferFunc
	Builtin      bool
}

// FromLattice creates an analysis over lat with the built-in transfer
// functions enabled.
func FromLattice(lat lattice.Lattice, transfer TransferFunc) Analysis {
	return Typed[lattice.Element](&LatticeAnalysis{lat, transfer, true})
}

var _ TypedAnalysis[lattice.Element] = (*LatticeAnalysis)(nil)

func (a *LatticeAnalysis) InitialElement() lattice.Element {
	return a.Lattice.Bot()
}

func (a *LatticeAnalysis) Join(x, y lattice.Element) lattice.Element {
	return x.Join(y)
}

func (a *LatticeAnalysis) Equal(x, y lattice.Element) bool {
	return x.Eq(y)
}

func (a *LatticeAnalysis) Transfer(s cfg.Stmt, e lattice.Element, env *env.Environment) lattice.Element {
	if a.TransferFunc == nil {
		return e
	}
	return a.TransferFunc(s, e, env)
}

func (a *LatticeAnalysis) ApplyBuiltinTransfer() bool {
	return a.Builtin
}
