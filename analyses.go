package main

import (
	"go/types"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/dataflow"
	"github.com/cs-au-dk/goflow/analysis/env"
	"github.com/cs-au-dk/goflow/analysis/lattice"

	"golang.org/x/tools/go/ssa"
)

// storesAnalysis computes the set of variables and fields that may have
// been stored to on some path to each block.
func storesAnalysis() dataflow.Analysis {
	return dataflow.FromLattice(lattice.NewPowerset(),
		func(s cfg.Stmt, e lattice.Element, _ *env.Environment) lattice.Element {
			store, ok := s.(*ssa.Store)
			if !ok {
				return e
			}
			return e.(lattice.Set).Add(storeTarget(store.Addr))
		})
}

// storeTarget names the memory written through addr.
func storeTarget(addr ssa.Value) string {
	switch addr := addr.(type) {
	case *ssa.Global:
		return addr.Name()
	case *ssa.Alloc:
		if addr.Comment != "" {
			return addr.Comment
		}
	case *ssa.FieldAddr:
		ptr, ok := addr.X.Type().Underlying().(*types.Pointer)
		if !ok {
			break
		}
		if st, ok := ptr.Elem().Underlying().(*types.Struct); ok {
			return storeTarget(addr.X) + "." + st.Field(addr.Field).Name()
		}
	}
	return addr.Name()
}
