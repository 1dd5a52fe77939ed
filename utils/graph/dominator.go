package graph

// Dominators answers dominance queries for the nodes reachable from the root
// the tree was computed for.
//
// The tree is computed with the iterative algorithm of Cooper, Harvey and
// Kennedy, "A Simple, Fast Dominance Algorithm".
type Dominators[T comparable] struct {
	postorderTime map[T]int
	doms          []int
}

func (d Dominators[T]) intersect(a, b int) int {
	for a != b {
		if a < b {
			a = d.doms[a]
		} else {
			b = d.doms[b]
		}
	}
	return a
}

// Dominates reports whether a dominates b. Unreachable nodes neither dominate
// nor are dominated.
func (d Dominators[T]) Dominates(a, b T) bool {
	i, okA := d.postorderTime[a]
	j, okB := d.postorderTime[b]
	if !okA || !okB {
		return false
	}
	return d.intersect(i, j) == i
}

func (G Graph[T]) DominatorTree(root T) Dominators[T] {
	order := G.PostOrder(root)
	postorderTime := make(map[T]int, len(order))
	for i, node := range order {
		postorderTime[node] = i
	}

	preds := make(map[T][]int, len(order))
	for i, node := range order {
		for _, e := range G.Edges(node) {
			preds[e] = append(preds[e], i)
		}
	}

	doms := make([]int, len(order))
	for i := range doms {
		doms[i] = -1
	}
	rootIdx := len(order) - 1
	doms[rootIdx] = rootIdx

	D := Dominators[T]{postorderTime, doms}

	for changed := true; changed; {
		changed = false

		// Reverse post-order, skipping the root.
		for i := rootIdx - 1; i >= 0; i-- {
			newIdom := -1
			for _, j := range preds[order[i]] {
				if doms[j] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = j
				} else {
					newIdom = D.intersect(j, newIdom)
				}
			}

			if newIdom != doms[i] {
				doms[i] = newIdom
				changed = true
			}
		}
	}

	return D
}
