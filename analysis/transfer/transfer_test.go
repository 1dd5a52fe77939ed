package transfer_test

import (
	"go/constant"
	"go/types"
	"testing"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/env"
	"github.com/cs-au-dk/goflow/analysis/transfer"
	tu "github.com/cs-au-dk/goflow/testutil"

	"golang.org/x/tools/go/ssa"
)

type noEnvs struct{}

func (noEnvs) EnvironmentAt(cfg.Stmt) (env.Environment, bool) {
	return env.Environment{}, false
}

// run applies the SSA transfer function to the instructions of fun in block
// order.
func run(fun *ssa.Function, e *env.Environment) {
	for _, b := range fun.Blocks {
		for _, instr := range b.Instrs {
			transfer.SSA{}.Transfer(noEnvs{}, instr, e)
		}
	}
}

func findConst(t *testing.T, fun *ssa.Function, val int64) *ssa.Const {
	for _, b := range fun.Blocks {
		for _, instr := range b.Instrs {
			if st, ok := instr.(*ssa.Store); ok {
				if c, ok := st.Val.(*ssa.Const); ok && c.Value != nil &&
					c.Value.Kind() == constant.Int && c.Int64() == val {
					return c
				}
			}
		}
	}
	t.Fatalf("No store of %d in %s", val, fun)
	return nil
}

func TestStoresThroughFields(t *testing.T) {
	res := tu.LoadPackageFromSource(t, "test", `package main

type point struct {
	x, y int
}

func f() int {
	p := &point{1, 2}
	p.x = 5
	return p.x + p.y
}

func main() {
	println(f())
}`)

	fun := res.Function(t, "f")
	ctx := env.NewAnalysisContext()
	e := env.NewFunctionEnvironment(ctx, fun)
	run(fun, &e)

	alloc, ok := fun.Blocks[0].Instrs[0].(*ssa.Alloc)
	if !ok {
		t.Fatalf("Expected the first instruction to be an allocation, got %s", fun.Blocks[0].Instrs[0])
	}

	ptr, ok := e.GetExprValue(alloc, env.SkipNone).(*env.PointerValue)
	if !ok {
		t.Fatal("Expected the allocation to produce a pointer")
	}
	agg, ok := ptr.PointeeLoc().(*env.AggregateLocation)
	if !ok {
		t.Fatal("Expected the allocated struct to have an aggregate location")
	}

	st := alloc.Type().Underlying().(*types.Pointer).Elem().Underlying().(*types.Struct)
	x, y := st.Field(0), st.Field(1)

	five := ctx.StableValue(findConst(t, fun, 5), x.Type())
	two := ctx.StableValue(findConst(t, fun, 2), y.Type())

	if v := e.GetValue(agg.Child(x)); v != five {
		t.Errorf("Expected x to hold %v, got %v", five, v)
	}
	if v := e.GetValue(agg.Child(y)); v != two {
		t.Errorf("Expected y to hold %v, got %v", two, v)
	}

	sv, ok := e.GetValue(agg).(*env.StructValue)
	if !ok {
		t.Fatal("Expected the allocated struct to hold a struct value")
	}
	if sv.Child(x) != five {
		t.Errorf("Expected the struct value to reflect the store to x, got %s", sv)
	}

	// Loads read the value stored last.
	for _, instr := range fun.Blocks[0].Instrs {
		if binop, ok := instr.(*ssa.BinOp); ok {
			if v := e.GetExprValue(binop.X, env.SkipNone); v != five {
				t.Errorf("Expected %s to load %v, got %v", binop.X.Name(), five, v)
			}
			if _, ok := e.GetExprValue(binop, env.SkipNone).(*env.IntegerValue); !ok {
				t.Errorf("Expected an opaque integer for %s", binop.Name())
			}
		}
	}
}

func TestTransferIsDeterministic(t *testing.T) {
	res := tu.LoadPackageFromSource(t, "test", `package main

func g(a, b int) bool {
	c := a*b + 1
	return c > a
}

func main() {
	println(g(1, 2))
}`)

	fun := res.Function(t, "g")
	ctx := env.NewAnalysisContext()
	init := env.NewFunctionEnvironment(ctx, fun)

	e1, e2 := init, init
	run(fun, &e1)
	run(fun, &e2)

	if !e1.EquivalentTo(&e2, env.DefaultValueModel{}) {
		t.Errorf("Transferring twice from the same environment should yield equivalent results:\n%s\n%s",
			e1.String(), e2.String())
	}
	if e1.Size() <= init.Size() {
		t.Error("Expected the transfer to bind values for the instructions")
	}
}

func TestNonSSAStatementsAreIgnored(t *testing.T) {
	ctx := env.NewAnalysisContext()
	e := env.NewEnvironment(ctx)
	before := e

	transfer.SSA{}.Transfer(noEnvs{}, opaqueStmt{}, &e)

	if !e.EquivalentTo(&before, env.DefaultValueModel{}) {
		t.Error("Non-SSA statements should not affect the environment")
	}
}

type opaqueStmt struct{}

func (opaqueStmt) String() string { return "opaque" }
