package dataflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cs-au-dk/goflow/analysis/cfg"
)

// Encoding of metric outcomes.
var (
	OUTCOME_CONVERGED      = "Converged"
	OUTCOME_MAX_ITERATIONS = "Iteration limit reached"
	OUTCOME_CANCELLED      = "Cancelled"
)

// Metrics records statistics of a fixpoint computation.
type Metrics struct {
	Outcome    string
	Iterations int
	// Changes is the number of block visits that changed the stored state.
	Changes int
	visits  map[int]int
	time    time.Duration
	timer   time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{visits: make(map[int]int)}
}

// Enabled checks whether the Metrics object is available.
func (m *Metrics) Enabled() bool {
	return m != nil
}

func (m *Metrics) start() {
	if m == nil {
		return
	}
	m.timer = time.Now()
}

func (m *Metrics) visit(b *cfg.Block) {
	if m == nil {
		return
	}
	m.Iterations++
	m.visits[b.ID()]++
}

func (m *Metrics) changed() {
	if m == nil {
		return
	}
	m.Changes++
}

func (m *Metrics) done(outcome string) {
	if m == nil {
		return
	}
	m.Outcome = outcome
	m.time = time.Since(m.timer)
}

// Visits returns the number of times b was visited.
func (m *Metrics) Visits(b *cfg.Block) int {
	if m == nil {
		return 0
	}
	return m.visits[b.ID()]
}

func (m *Metrics) Duration() time.Duration {
	return m.time
}

func (m *Metrics) Performance() string {
	return m.time.String()
}

func (m *Metrics) String() string {
	if m == nil {
		return "<no metrics>"
	}

	ids := make([]int, 0, len(m.visits))
	for id := range m.visits {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	visits := make([]string, 0, len(ids))
	for _, id := range ids {
		visits = append(visits, fmt.Sprintf("B%d: %d", id, m.visits[id]))
	}

	return fmt.Sprintf("Outcome: %s\nTime: %s\nIterations: %d\nChanges: %d\nVisits: { %s }\n",
		m.Outcome, m.Performance(), m.Iterations, m.Changes, strings.Join(visits, ", "))
}
