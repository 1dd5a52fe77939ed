package cfg_test

import (
	"testing"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	tu "github.com/cs-au-dk/goflow/testutil"

	"golang.org/x/tools/go/ssa"
)

func TestFromSSALayout(t *testing.T) {
	res := tu.LoadPackageFromSource(t, "test", `package main

func choose(c bool) int {
	x := 1
	if c {
		x = 2
	}
	return x
}

func main() {
	println(choose(true))
}`)

	fun, ctx := res.CFG(t, "choose")
	g := ctx.Graph()

	if g.Size() != len(fun.Blocks)+2 {
		t.Fatalf("Expected %d blocks, got %d", len(fun.Blocks)+2, g.Size())
	}
	if g.Entry().ID() != 0 || g.Exit().ID() != g.Size()-1 {
		t.Errorf("Unexpected entry %s or exit %s", g.Entry(), g.Exit())
	}

	for i, sb := range fun.Blocks {
		b := g.Block(i + 1)
		if len(b.Elements()) != len(sb.Instrs) {
			t.Errorf("%s has %d elements, expected %d", b, len(b.Elements()), len(sb.Instrs))
		}
		for j, instr := range sb.Instrs {
			if blk, ok := ctx.BlockOf(instr); !ok || blk != b {
				t.Errorf("Instruction %d of SSA block %d is mapped to %v, expected %s", j, i, blk, b)
			}
		}

		switch sb.Instrs[len(sb.Instrs)-1].(type) {
		case *ssa.Return:
			if b.Terminator().Kind != cfg.ReturnTerminator {
				t.Errorf("%s should have a return terminator", b)
			}
			found := false
			for _, s := range b.Succs() {
				found = found || s == g.Exit()
			}
			if !found {
				t.Errorf("%s should flow to the exit block", b)
			}
		case *ssa.If:
			if b.Terminator().Kind != cfg.BranchTerminator {
				t.Errorf("%s should have a branch terminator", b)
			}
			if len(b.Succs()) != 2 {
				t.Errorf("%s should have two successors", b)
			}
		}
	}
}

func TestFromSSANoReturn(t *testing.T) {
	res := tu.LoadPackageFromSource(t, "test", `package main

import "os"

func check(ok bool) int {
	if !ok {
		os.Exit(1)
	}
	return 1
}

func fail(x int) int {
	if x > 0 {
		panic("positive")
	}
	return x
}

func main() {
	println(check(true), fail(0))
}`)

	for _, name := range []string{"check", "fail"} {
		_, ctx := res.CFG(t, name)

		noReturn := 0
		for _, b := range ctx.Graph().Blocks() {
			if b.HasNoReturnElement() {
				noReturn++
			}
		}
		if noReturn != 1 {
			t.Errorf("Expected exactly one no-return block in %s, got %d:\n%s", name, noReturn, ctx.Graph())
		}
	}
}

func TestFromSSACallsToFunctionsWithoutReturn(t *testing.T) {
	res := tu.LoadPackageFromSource(t, "test", `package main

func die(msg string) {
	panic(msg)
}

func note(msg string) {
	println(msg)
}

func guard(x int) int {
	note("guard")
	if x < 0 {
		die("negative")
	}
	return x
}

func main() {
	println(guard(1))
}`)

	_, ctx := res.CFG(t, "guard")

	var noReturn []*cfg.Block
	for _, b := range ctx.Graph().Blocks() {
		if b.HasNoReturnElement() {
			noReturn = append(noReturn, b)
		}
	}
	if len(noReturn) != 1 {
		t.Fatalf("Expected exactly one no-return block, got %d:\n%s", len(noReturn), ctx.Graph())
	}

	found := false
	for _, el := range noReturn[0].Elements() {
		if se, ok := el.(cfg.StmtElement); ok {
			if call, ok := se.Stmt.(*ssa.Call); ok && call.Call.StaticCallee().Name() == "die" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("Expected the call to die in %s", noReturn[0])
	}
}

func TestFromSSALoopHead(t *testing.T) {
	res := tu.LoadPackageFromSource(t, "test", `package main

func sum(n int) int {
	s := 0
	for i := 0; i < n; i++ {
		s += i
	}
	return s
}

func main() {
	println(sum(3))
}`)

	fun, ctx := res.CFG(t, "sum")

	heads := 0
	for _, b := range ctx.Graph().Blocks() {
		if ctx.IsLoopHead(b) {
			heads++
			if b.Label() != "for.loop" {
				t.Errorf("Unexpected loop head %s (%s)", b, b.Label())
			}
		}
	}
	if heads != 1 {
		t.Errorf("Expected one loop head in:\n%s", fun)
	}
}
