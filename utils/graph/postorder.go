package graph

// PostOrder computes a depth-first post-order of the nodes reachable from the
// provided roots. Successors are explored in the order returned by Edges, so
// the result is deterministic for a deterministic edge relation.
func (G Graph[T]) PostOrder(roots ...T) []T {
	visited := make(map[T]bool)
	order := []T{}

	type frame struct {
		node T
		next int
	}

	for _, root := range roots {
		if visited[root] {
			continue
		}
		visited[root] = true
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := G.Edges(top.node)
			if top.next < len(edges) {
				succ := edges[top.next]
				top.next++
				if !visited[succ] {
					visited[succ] = true
					stack = append(stack, frame{node: succ})
				}
				continue
			}

			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	return order
}

// ReversePostOrder computes the reverse of PostOrder. For acyclic graphs this
// is a topological order.
func (G Graph[T]) ReversePostOrder(roots ...T) []T {
	order := G.PostOrder(roots...)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
