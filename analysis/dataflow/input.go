package dataflow

import "github.com/cs-au-dk/goflow/analysis/cfg"

// blockInput computes the state at the start of b by joining the states at
// the end of its predecessors.
func (s *solver) blockInput(b *cfg.Block) State {
	preds := make(map[*cfg.Block]bool, len(b.Preds()))
	order := make([]*cfg.Block, 0, len(b.Preds()))
	for _, p := range b.Preds() {
		if !preds[p] {
			preds[p] = true
			order = append(order, p)
		}
	}

	// A temporary destructor branch is only reached from the block that
	// created the temporary when that block's path does not end in a
	// non-returning call. If the branch leads into a non-returning block,
	// the state of the creating block must not flow through it.
	if term := b.Terminator(); term.IsTemporaryDtorsBranch() && term.Stmt != nil {
		if succs := b.Succs(); len(succs) > 0 && succs[0] != nil && succs[0].HasNoReturnElement() {
			if creator, ok := s.cfg.BlockOf(term.Stmt); ok {
				delete(preds, creator)
			}
		}
	}

	var (
		res   State
		found bool
	)
	for _, p := range order {
		if p == nil || !preds[p] || p.HasNoReturnElement() {
			continue
		}
		st, ok := s.states.At(p)
		if !ok {
			continue
		}

		if !found {
			res, found = st, true
			continue
		}
		res.Lattice = s.analysis.Join(res.Lattice, st.Lattice)
		res.Env.Join(&st.Env, s.model)
	}

	if !found {
		return State{s.analysis.InitialElement(), s.initEnv}
	}
	return res
}
