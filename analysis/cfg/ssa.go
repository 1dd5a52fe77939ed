package cfg

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/ssa"
)

// Functions that never return to their caller.
var noReturnFuncs = map[string]bool{
	"os.Exit":        true,
	"runtime.Goexit": true,
	"log.Fatal":      true,
	"log.Fatalf":     true,
	"log.Fatalln":    true,
	"log.Panic":      true,
	"log.Panicf":     true,
	"log.Panicln":    true,
	// Methods on testing.T that end the test immediately like Goexit.
	"(*testing.common).FailNow": true,
	"(*testing.common).Fatal":   true,
	"(*testing.common).Fatalf":  true,
	"(*testing.common).SkipNow": true,
	"(*testing.common).Skip":    true,
	"(*testing.common).Skipf":   true,
	"(*log.Logger).Fatal":       true,
	"(*log.Logger).Fatalf":      true,
	"(*log.Logger).Fatalln":     true,
	"(*log.Logger).Panic":       true,
	"(*log.Logger).Panicf":      true,
	"(*log.Logger).Panicln":     true,
}

// IsNoReturn reports whether control never proceeds past instr.
func IsNoReturn(instr ssa.Instruction) bool {
	switch instr := instr.(type) {
	case *ssa.Panic:
		return true
	case *ssa.Call:
		callee := instr.Call.StaticCallee()
		if callee == nil {
			return false
		}
		// Promoted methods are reached through synthetic wrappers, which
		// retain the object of the wrapped method.
		if obj, ok := callee.Object().(*types.Func); ok && noReturnFuncs[obj.FullName()] {
			return true
		}
		return noReturnFuncs[callee.String()] || neverReturns(callee)
	}
	return false
}

// neverReturns reports whether fun has a body without return instructions.
// Functions without a body are assumed to return.
func neverReturns(fun *ssa.Function) bool {
	if len(fun.Blocks) == 0 {
		return false
	}
	for _, b := range fun.Blocks {
		if _, ok := b.Instrs[len(b.Instrs)-1].(*ssa.Return); ok {
			return false
		}
	}
	return true
}

// FromSSA builds the control-flow graph of fun. Block 0 is a synthetic entry
// leading to the first SSA block, SSA block i becomes block i+1, and the
// last block is a synthetic exit reached by every return and panic.
//
// Every instruction is a statement element. The last instruction of a block
// doubles as its terminator.
func FromSSA(fun *ssa.Function) (*Context, error) {
	if len(fun.Blocks) == 0 {
		return nil, fmt.Errorf("%s has no body", fun)
	}

	bld := NewBuilder()

	entry := bld.NewBlock()
	bld.SetLabel(entry, "entry")
	bld.SetEntry(entry)

	blocks := bld.NewBlocks(len(fun.Blocks))

	exit := bld.NewBlock()
	bld.SetLabel(exit, "exit")
	bld.SetExit(exit)

	bld.AddEdge(entry, blocks[0])

	for i, sb := range fun.Blocks {
		b := blocks[i]
		bld.SetLabel(b, sb.Comment)

		for _, instr := range sb.Instrs {
			bld.AppendStmts(b, instr)
			if IsNoReturn(instr) {
				bld.SetNoReturn(b)
			}
		}

		for _, succ := range sb.Succs {
			bld.AddEdge(b, blocks[succ.Index])
		}

		if len(sb.Instrs) == 0 {
			continue
		}

		switch last := sb.Instrs[len(sb.Instrs)-1].(type) {
		case *ssa.If, *ssa.Jump:
			bld.SetTerminator(b, Terminator{Kind: BranchTerminator, Stmt: last})
		case *ssa.Return:
			bld.SetTerminator(b, Terminator{Kind: ReturnTerminator, Stmt: last})
			bld.AddEdge(b, exit)
		case *ssa.Panic:
			bld.SetTerminator(b, Terminator{Kind: PanicTerminator, Stmt: last})
			bld.AddEdge(b, exit)
		}
	}

	g, err := bld.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fun, err)
	}
	return NewContext(g), nil
}
