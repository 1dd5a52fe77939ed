package dataflow_test

import (
	"context"
	"testing"

	"github.com/cs-au-dk/goflow/analysis/dataflow"
	"github.com/cs-au-dk/goflow/analysis/env"
	"github.com/cs-au-dk/goflow/analysis/lattice"
	tu "github.com/cs-au-dk/goflow/testutil"

	"golang.org/x/tools/go/ssa"
)

func TestLoopConverges(t *testing.T) {
	res := tu.LoadPackageFromSource(t, "test", `package main

func sum(n int) int {
	s := 0
	for i := 0; i < n; i++ {
		s += i
	}
	return s
}

func main() {
	println(sum(10))
}`)

	fun, cfgCtx := res.CFG(t, "sum")
	initEnv := env.NewFunctionEnvironment(env.NewAnalysisContext(), fun)
	metrics := dataflow.NewMetrics()

	bs, err := dataflow.Run(context.Background(), cfgCtx,
		dataflow.FromLattice(lattice.NewPowerset(), nil), initEnv,
		dataflow.WithMetrics(metrics))
	if err != nil {
		t.Fatal(err)
	}
	t.Log(metrics)

	g := cfgCtx.Graph()
	for _, b := range g.Blocks() {
		if !bs[b.ID()].Present() {
			t.Errorf("Expected a state for %s", b)
		}
	}

	var loopHead *ssa.BasicBlock
	for _, sb := range fun.Blocks {
		if sb.Comment == "for.loop" {
			loopHead = sb
		}
	}
	if loopHead == nil {
		t.Fatal("No loop head")
	}

	st, _ := bs.At(g.Block(loopHead.Index + 1))
	for _, instr := range loopHead.Instrs {
		if phi, ok := instr.(*ssa.Phi); ok {
			if _, ok := st.Env.GetExprValue(phi, env.SkipNone).(*env.IntegerValue); !ok {
				t.Errorf("Expected an integer value for %s", phi.Name())
			}
		}
	}
}

func TestCallerEnvironmentIsUnchanged(t *testing.T) {
	res := tu.LoadPackageFromSource(t, "test", `package main

type point struct {
	x, y int
}

func (p *point) reset() {
	p.x = 0
	p.y = 0
}

func main() {
	p := &point{1, 2}
	p.reset()
}`)

	fun, cfgCtx := res.CFG(t, "reset")
	initEnv := env.NewFunctionEnvironment(env.NewAnalysisContext(), fun)
	before := initEnv

	bs, err := dataflow.Run(context.Background(), cfgCtx,
		dataflow.FromLattice(lattice.NewPowerset(), nil), initEnv)
	if err != nil {
		t.Fatal(err)
	}

	if !initEnv.EquivalentTo(&before, env.DefaultValueModel{}) {
		t.Error("Running the analysis should not change the initial environment")
	}

	st, ok := bs.At(cfgCtx.Graph().Exit())
	if !ok {
		t.Fatal("Expected the exit block to be reached")
	}
	if st.Env.Size() <= initEnv.Size() {
		t.Errorf("Expected the stores to be reflected at the exit:\n%s", st.Env.String())
	}
}
