package cfg

import (
	"strings"

	"github.com/cs-au-dk/goflow/utils/graph"
)

// Graph is a control-flow graph of basic blocks with a distinguished entry.
type Graph struct {
	blocks []*Block
	entry  *Block
	exit   *Block
}

func (g *Graph) Entry() *Block    { return g.entry }
func (g *Graph) Exit() *Block     { return g.exit }
func (g *Graph) Blocks() []*Block { return g.blocks }

// Size is the number of blocks. Block identifiers lie in [0, Size).
func (g *Graph) Size() int { return len(g.blocks) }

func (g *Graph) Block(id int) *Block {
	if id < 0 || id >= len(g.blocks) {
		return nil
	}
	return g.blocks[id]
}

// Forward returns the successor relation, ignoring pruned edges.
func (g *Graph) Forward() graph.Graph[*Block] {
	return graph.New(func(b *Block) []*Block {
		return b.ReachableSuccs()
	})
}

// LoopHeads returns the blocks targeted by a back edge, i.e. an edge whose
// target dominates its source.
func (g *Graph) LoopHeads() map[*Block]bool {
	fwd := g.Forward()
	dom := fwd.DominatorTree(g.entry)

	heads := make(map[*Block]bool)
	for _, b := range fwd.ReversePostOrder(g.entry) {
		for _, s := range b.ReachableSuccs() {
			if dom.Dominates(s, b) {
				heads[s] = true
			}
		}
	}
	return heads
}

// Reachable returns the blocks reachable from the entry.
func (g *Graph) Reachable() map[*Block]bool {
	reached := make(map[*Block]bool, len(g.blocks))
	if g.entry == nil {
		return reached
	}
	g.Forward().BFS(g.entry, func(b *Block) bool {
		reached[b] = true
		return false
	})
	return reached
}

// Loops returns the strongly connected components of the blocks reachable
// from the entry that contain a cycle.
func (g *Graph) Loops() [][]*Block {
	fwd := g.Forward()
	var loops [][]*Block
	for _, comp := range fwd.SCC([]*Block{g.entry}).Components {
		if len(comp) > 1 {
			loops = append(loops, comp)
			continue
		}
		for _, s := range comp[0].ReachableSuccs() {
			if s == comp[0] {
				loops = append(loops, comp)
				break
			}
		}
	}
	return loops
}

func (g *Graph) String() string {
	var sb strings.Builder
	for _, b := range g.blocks {
		sb.WriteString(b.Dump())
		if preds := b.Preds(); len(preds) > 0 {
			sb.WriteString("  Preds:")
			for _, p := range preds {
				if p == nil {
					sb.WriteString(" (unreachable)")
				} else {
					sb.WriteString(" " + p.String())
				}
			}
			sb.WriteString("\n")
		}
		if succs := b.Succs(); len(succs) > 0 {
			sb.WriteString("  Succs:")
			for _, s := range succs {
				if s == nil {
					sb.WriteString(" (unreachable)")
				} else {
					sb.WriteString(" " + s.String())
				}
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
