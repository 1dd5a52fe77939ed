package dataflow

import (
	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/utils/pq"
)

// worklist yields pending blocks in reverse post-order. A block is pending
// at most once.
type worklist struct {
	q pq.PriorityQueue[*cfg.Block]
}

func newWorklist(pov *cfg.PostOrderView) *worklist {
	return &worklist{pq.Empty(pov.Less)}
}

// EnqueueSuccessors adds the successors of b that are not already pending.
func (w *worklist) EnqueueSuccessors(b *cfg.Block) {
	for _, succ := range b.Succs() {
		if succ != nil {
			w.q.Add(succ)
		}
	}
}

// Dequeue removes the pending block with the lowest reverse post-order
// number, or returns nil if no blocks are pending.
func (w *worklist) Dequeue() *cfg.Block {
	if w.q.IsEmpty() {
		return nil
	}
	return w.q.GetNext()
}
