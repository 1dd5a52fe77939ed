package graph

import "testing"

func TestSCCComponents(t *testing.T) {
	scc := _sampleGraph.SCC([]int{0})

	tests := []struct {
		a, b     int
		expected bool
	}{
		{0, 1, true},
		{0, 4, true},
		{5, 6, true},
		{2, 3, true},
		{3, 7, true},
		{0, 8, false},
		{2, 5, false},
		{10, 11, false},
	}

	for _, test := range tests {
		same := scc.ComponentOf(test.a) == scc.ComponentOf(test.b)
		if same != test.expected {
			t.Errorf("same component(%d, %d) = %v, expected %v", test.a, test.b, same, test.expected)
		}
	}

	if c := scc.ComponentOf(42); c != -1 {
		t.Errorf("Unknown node should not have a component, got %d", c)
	}
}
