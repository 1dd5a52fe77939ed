package graph

// SCCDecomposition is a DAG decomposition of a graph into strongly connected
// components. The nodes in component i only have edges to nodes in
// components j <= i.
type SCCDecomposition[T comparable] struct {
	Components [][]T
	comp       map[T]int
}

// ComponentOf returns the index of the component containing node, or -1 if
// node was not reached.
func (scc SCCDecomposition[T]) ComponentOf(node T) int {
	if c, found := scc.comp[node]; found {
		return c
	}
	return -1
}

// SCC computes the strongly connected components of the subgraph reachable
// from the provided start nodes.
func (G Graph[T]) SCC(startNodes []T) SCCDecomposition[T] {
	// Tarjan's algorithm, following
	// https://github.com/kth-competitive-programming/kactl/blob/main/content/graph/SCC.h
	val, comp := make(map[T]int), make(map[T]int)
	time := 0
	var z []T
	var components [][]T

	var rec func(T) int
	rec = func(node T) int {
		time++
		low := time
		val[node] = low
		stackH := len(z)
		z = append(z, node)

		for _, e := range G.Edges(node) {
			if _, done := comp[e]; done {
				continue
			}
			eLow, visited := val[e]
			if !visited {
				eLow = rec(e)
			}
			if eLow < low {
				low = eLow
			}
		}

		if low == val[node] {
			cont := append([]T(nil), z[stackH:]...)
			z = z[:stackH]
			for _, x := range cont {
				comp[x] = len(components)
			}
			components = append(components, cont)
		}

		val[node] = low
		return low
	}

	for _, node := range startNodes {
		if _, done := comp[node]; !done {
			rec(node)
		}
	}

	return SCCDecomposition[T]{components, comp}
}
