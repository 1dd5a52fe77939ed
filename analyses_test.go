package main

import (
	"context"
	"testing"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/dataflow"
	"github.com/cs-au-dk/goflow/analysis/env"
	"github.com/cs-au-dk/goflow/analysis/lattice"
	"github.com/cs-au-dk/goflow/pkgutil"
	tu "github.com/cs-au-dk/goflow/testutil"
)

func TestStoresAnalysis(t *testing.T) {
	res := tu.LoadExamplePackage(t, ".", "fields")
	fun, cfgCtx := res.CFG(t, "move")

	states, err := dataflow.Run(context.Background(), cfgCtx, storesAnalysis(),
		env.NewFunctionEnvironment(env.NewAnalysisContext(), fun))
	if err != nil {
		t.Fatal(err)
	}

	st, ok := states.At(cfgCtx.Graph().Exit())
	if !ok {
		t.Fatal("Expected the exit block to be reached")
	}
	stores := st.Lattice.(lattice.Set)
	if !stores.Contains("p.x") {
		t.Errorf("Expected a store to p.x, got %s", stores)
	}
	if stores.Contains("p.y") {
		t.Errorf("Did not expect a store to p.y, got %s", stores)
	}

	entry, _ := states.At(cfgCtx.Graph().Entry())
	if entry.Lattice.(lattice.Set).Size() != 0 {
		t.Errorf("Expected no stores at the entry, got %s", entry.Lattice)
	}
}

func TestExamplesConverge(t *testing.T) {
	// Only single-package examples.
	blacklist := []string{"pkg-with-module", "pkg-with-test"}

	for _, pkg := range tu.ListPackagesIn(t, ".", blacklist, "") {
		t.Run(pkg, func(t *testing.T) {
			res := tu.LoadExamplePackage(t, ".", pkg)

			for _, fun := range pkgutil.Functions(res.Main()) {
				cfgCtx, err := cfg.FromSSA(fun)
				if err != nil {
					t.Fatal(err)
				}

				metrics := dataflow.NewMetrics()
				_, err = dataflow.Run(context.Background(), cfgCtx, storesAnalysis(),
					env.NewFunctionEnvironment(env.NewAnalysisContext(), fun),
					dataflow.WithMetrics(metrics))
				if err != nil {
					t.Errorf("Analysis of %s failed: %v", fun, err)
					continue
				}
				t.Logf("%s:\n%s", fun, metrics)
			}
		})
	}
}
