// Package graph provides the graph algorithms shared by control-flow graphs
// and their visualizations: traversal, post-order, strongly connected
// components, dominators and dot export.
//
// A graph is described by its edge relation only. Edges are computed once
// per node and cached.
package graph

type Graph[T comparable] struct {
	edgesOf func(node T) []T
	cache   map[T][]T
}

// New creates a graph from an edge relation.
func New[T comparable](edgesOf func(node T) []T) Graph[T] {
	return Graph[T]{edgesOf, make(map[T][]T)}
}

// Edges returns the successors of node.
func (G Graph[T]) Edges(node T) []T {
	if es, found := G.cache[node]; found {
		return es
	}

	es := G.edgesOf(node)
	G.cache[node] = es
	return es
}
