package pq

import "testing"

func TestPriorityQueueOrder(t *testing.T) {
	q := Empty(func(a, b int) bool { return a < b })
	for _, x := range []int{5, 1, 4, 2, 3} {
		q.Add(x)
	}

	for expected := 1; expected <= 5; expected++ {
		if next := q.GetNext(); next != expected {
			t.Errorf("Expected %d, got %d", expected, next)
		}
	}
	if !q.IsEmpty() {
		t.Error("Queue should be empty")
	}
}

func TestPriorityQueueDedup(t *testing.T) {
	q := Empty(func(a, b int) bool { return a < b })
	if !q.Add(1) {
		t.Error("First insertion should succeed")
	}
	if q.Add(1) {
		t.Error("Duplicate insertion should be rejected")
	}
	if q.Len() != 1 {
		t.Errorf("Expected a single pending element, got %d", q.Len())
	}

	q.GetNext()
	if q.Contains(1) {
		t.Error("Dequeued element should no longer be pending")
	}
	if !q.Add(1) {
		t.Error("Element should be insertable again after dequeueing")
	}
}
