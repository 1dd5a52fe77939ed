package graph

import "testing"

var edges = map[int][]int{
	0:  {1, 8},
	1:  {4, 5, 2},
	2:  {6, 3, 9},
	3:  {2, 7},
	4:  {0, 5},
	5:  {6},
	6:  {5},
	7:  {3, 6},
	8:  {},
	9:  {10, 11},
	10: {12, 13},
	11: {12, 13},
	12: {},
	13: {},
}
var _sampleGraph = New(func(i int) []int {
	return edges[i]
})

// A diamond followed by a loop: 0 -> {1, 2} -> 3 -> 4 -> 3, 4 -> 5
var _diamondLoop = New(func(i int) []int {
	return map[int][]int{
		0: {1, 2},
		1: {3},
		2: {3},
		3: {4},
		4: {3, 5},
		5: {},
	}[i]
})

func TestPostOrderVisitsReachableOnce(t *testing.T) {
	order := _sampleGraph.PostOrder(0)
	if len(order) != len(edges) {
		t.Fatalf("Expected %d nodes in post-order, got %d: %v", len(edges), len(order), order)
	}

	seen := map[int]bool{}
	for _, n := range order {
		if seen[n] {
			t.Errorf("Node %d visited twice in %v", n, order)
		}
		seen[n] = true
	}

	if order[len(order)-1] != 0 {
		t.Errorf("Root should finish last, got %v", order)
	}
}

func TestReversePostOrderIsTopological(t *testing.T) {
	rpo := _diamondLoop.ReversePostOrder(0)
	pos := map[int]int{}
	for i, n := range rpo {
		pos[n] = i
	}

	tests := []struct{ before, after int }{
		{0, 1}, {0, 2}, {1, 3}, {2, 3}, {3, 4}, {4, 5},
	}
	for _, test := range tests {
		if pos[test.before] >= pos[test.after] {
			t.Errorf("Expected %d before %d in %v", test.before, test.after, rpo)
		}
	}
}

func TestPostOrderSkipsUnreachable(t *testing.T) {
	order := _diamondLoop.PostOrder(3)
	if len(order) != 3 {
		t.Errorf("Expected only {3, 4, 5} to be reachable from 3, got %v", order)
	}
}

func TestDominators(t *testing.T) {
	doms := _diamondLoop.DominatorTree(0)

	tests := []struct {
		a, b     int
		expected bool
	}{
		{0, 3, true},
		{1, 3, false},
		{2, 3, false},
		{3, 4, true},
		{4, 3, false},
		{3, 3, true},
		{4, 5, true},
		{0, 42, false},
	}

	for _, test := range tests {
		if res := doms.Dominates(test.a, test.b); res != test.expected {
			t.Errorf("%d dom %d = %v, expected %v", test.a, test.b, res, test.expected)
		}
	}
}

func TestBFS(t *testing.T) {
	seen := map[int]bool{}
	if _diamondLoop.BFS(0, func(n int) bool {
		seen[n] = true
		return false
	}) {
		t.Error("BFS reported stopping early")
	}
	if len(seen) != 6 {
		t.Errorf("Expected 6 reachable nodes, got %v", seen)
	}

	visited := 0
	if !_diamondLoop.BFS(0, func(n int) bool {
		visited++
		return n == 3
	}) {
		t.Error("Expected BFS to stop at 3")
	}
	if visited != 4 {
		t.Errorf("Expected to stop after visiting 4 nodes, got %d", visited)
	}
}
