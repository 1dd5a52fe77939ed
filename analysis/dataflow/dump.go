package dataflow

import (
	"fmt"
	"io"

	"github.com/cs-au-dk/goflow/analysis/cfg"
)

// Dump writes the state of every block of g to w, one block per line, in
// block id order. Environments are included if withEnv is set. Blocks without
// a state are reported as dead if they cannot be reached from the entry of g,
// and as unreachable if every path to them passes a non-returning block.
func (bs BlockStates) Dump(w io.Writer, g *cfg.Graph, withEnv bool) error {
	reachable := g.Reachable()
	for _, b := range g.Blocks() {
		name := b.String()
		if b.Label() != "" {
			name += " (" + b.Label() + ")"
		}

		st, ok := bs.At(b)
		if !ok {
			status := "unreachable"
			if !reachable[b] {
				status = "dead"
			}
			if _, err := fmt.Fprintf(w, "%s: %s\n", name, status); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "%s: %v\n", name, st.Lattice); err != nil {
			return err
		}
		if withEnv && st.Env.Size() > 0 {
			if _, err := fmt.Fprintf(w, "%s\n", st.Env.String()); err != nil {
				return err
			}
		}
	}
	return nil
}
