package main

import (
	"fmt"

	"github.com/cs-au-dk/goflow/analysis/dataflow"

	"golang.org/x/tools/go/ssa"
)

func printMetrics(results map[*ssa.Function]*dataflow.Metrics) {
	if !opts.Metrics() || len(results) == 0 {
		return
	}

	msg := "================ Results =====================\n\n"

	converged := 0
	for _, f := range sortedFunctions(results) {
		r := results[f]
		msg += "Function: " + f.String() + "\n"
		msg += r.String() + "\n"
		if r.Outcome == dataflow.OUTCOME_CONVERGED {
			converged++
		}
	}

	msg += fmt.Sprintf("Converged: %d/%d\n", converged, len(results))
	fmt.Println(msg)
}
