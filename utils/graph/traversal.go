package graph

import W "github.com/cs-au-dk/goflow/utils/worklist"

// BFS visits the nodes reachable from start in breadth-first order, calling
// f for each of them. The search stops as soon as f returns true, in which
// case BFS returns true.
func (G Graph[T]) BFS(start T, f func(node T) (stop bool)) bool {
	visited := map[T]bool{start: true}

	done := false
	W.Start(start, func(node T, add func(T)) {
		if done || f(node) {
			done = true
			return
		}

		for _, next := range G.Edges(node) {
			if !visited[next] {
				visited[next] = true
				add(next)
			}
		}
	})

	return done
}
