package cfg

// PostOrderView numbers the blocks reachable from the entry in depth-first
// post-order.
type PostOrderView struct {
	number []int
	rpo    []*Block
}

func NewPostOrderView(g *Graph) *PostOrderView {
	v := &PostOrderView{
		number: make([]int, g.Size()),
	}
	for i := range v.number {
		v.number[i] = -1
	}

	po := g.Forward().PostOrder(g.entry)
	for i, b := range po {
		v.number[b.id] = i
	}

	v.rpo = make([]*Block, len(po))
	for i, b := range po {
		v.rpo[len(po)-1-i] = b
	}
	return v
}

// Number returns the post-order number of b, or -1 if b is unreachable.
func (v *PostOrderView) Number(b *Block) int {
	if b.id < 0 || b.id >= len(v.number) {
		return -1
	}
	return v.number[b.id]
}

// Less orders blocks by reverse post-order. Unreachable blocks come last,
// ordered by identifier.
func (v *PostOrderView) Less(a, b *Block) bool {
	na, nb := v.Number(a), v.Number(b)
	switch {
	case na == nb:
		return a.id < b.id
	case na == -1:
		return false
	case nb == -1:
		return true
	default:
		return na > nb
	}
}

// Blocks returns the reachable blocks in reverse post-order.
func (v *PostOrderView) Blocks() []*Block {
	return v.rpo
}
