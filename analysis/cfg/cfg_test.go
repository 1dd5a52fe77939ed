package cfg

import (
	"errors"
	"strings"
	"testing"
)

type stmt string

func (s *stmt) String() string { return string(*s) }

func mkStmt(name string) *stmt {
	s := stmt(name)
	return &s
}

// diamond builds entry -> {left, right} -> join.
func diamond(t *testing.T) (*Graph, []*Block) {
	bld := NewBuilder()
	blocks := bld.NewBlocks(4)
	entry, left, right, join := blocks[0], blocks[1], blocks[2], blocks[3]
	bld.SetEntry(entry)
	bld.SetExit(join)
	bld.AddEdge(entry, left)
	bld.AddEdge(entry, right)
	bld.AddEdge(left, join)
	bld.AddEdge(right, join)

	g, err := bld.Build()
	if err != nil {
		t.Fatal(err)
	}
	return g, blocks
}

func TestBuilderAssignsDenseIDs(t *testing.T) {
	g, blocks := diamond(t)

	if g.Size() != 4 {
		t.Fatalf("Expected 4 blocks, got %d", g.Size())
	}
	for i, b := range blocks {
		if b.ID() != i {
			t.Errorf("Block %d has id %d", i, b.ID())
		}
		if g.Block(i) != b {
			t.Errorf("g.Block(%d) = %v, expected %v", i, g.Block(i), b)
		}
	}
	if g.Block(4) != nil || g.Block(-1) != nil {
		t.Error("Out of range block lookups should return nil")
	}
}

func TestBuilderKeepsEdgesSymmetric(t *testing.T) {
	g, _ := diamond(t)

	for _, b := range g.Blocks() {
		for _, s := range b.Succs() {
			found := false
			for _, p := range s.Preds() {
				found = found || p == b
			}
			if !found {
				t.Errorf("%s is a successor of %s, but not the other way around", s, b)
			}
		}
	}
}

func TestBuildWithoutEntry(t *testing.T) {
	bld := NewBuilder()
	bld.NewBlock()
	if _, err := bld.Build(); !errors.Is(err, ErrNoEntry) {
		t.Errorf("Expected ErrNoEntry, got %v", err)
	}
}

func TestBuildRejectsForeignBlocks(t *testing.T) {
	other := NewBuilder()
	foreign := other.NewBlock()

	bld := NewBuilder()
	b := bld.NewBlock()
	bld.SetEntry(b)
	bld.AddEdge(b, foreign)

	if _, err := bld.Build(); err == nil {
		t.Error("Expected an error for an edge to a block of another graph")
	}
}

func TestReachableSuccsSkipsPrunedEdges(t *testing.T) {
	bld := NewBuilder()
	a, b := bld.NewBlock(), bld.NewBlock()
	bld.SetEntry(a)
	bld.AddUnreachableSucc(a)
	bld.AddEdge(a, b)
	bld.AddUnreachablePred(b)

	if _, err := bld.Build(); err != nil {
		t.Fatal(err)
	}

	if len(a.Succs()) != 2 || a.Succs()[0] != nil {
		t.Errorf("Expected a pruned first successor, got %v", a.Succs())
	}
	if succs := a.ReachableSuccs(); len(succs) != 1 || succs[0] != b {
		t.Errorf("Expected only %s to be reachable, got %v", b, succs)
	}
	if len(b.Preds()) != 2 || b.Preds()[1] != nil {
		t.Errorf("Expected a pruned second predecessor, got %v", b.Preds())
	}
}

func TestContextMapsStatementsToBlocks(t *testing.T) {
	bld := NewBuilder()
	b0, b1, b2 := bld.NewBlock(), bld.NewBlock(), bld.NewBlock()
	bld.SetEntry(b0)
	bld.AddEdge(b0, b1)
	bld.AddEdge(b1, b2)

	x, y, tmp, cond := mkStmt("x"), mkStmt("y"), mkStmt("tmp"), mkStmt("cond")
	bld.AppendStmts(b0, x)
	bld.AppendStmts(b1, y, tmp)
	bld.SetTerminator(b0, Terminator{Kind: BranchTerminator, Stmt: cond})
	// The terminator of b2 names a statement of b1.
	bld.SetTerminator(b2, Terminator{Kind: TemporaryDtorsBranch, Stmt: tmp})

	g, err := bld.Build()
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(g)

	for _, test := range []struct {
		s        Stmt
		expected *Block
	}{
		{x, b0},
		{y, b1},
		{tmp, b1},
		{cond, b0},
	} {
		if b, ok := ctx.BlockOf(test.s); !ok || b != test.expected {
			t.Errorf("BlockOf(%s) = %v, expected %s", test.s, b, test.expected)
		}
	}

	if _, ok := ctx.BlockOf(mkStmt("x")); ok {
		t.Error("Statements are identified by identity, not by text")
	}
}

func TestPostOrderView(t *testing.T) {
	bld := NewBuilder()
	blocks := bld.NewBlocks(5)
	entry, a, b, join, dead := blocks[0], blocks[1], blocks[2], blocks[3], blocks[4]
	bld.SetEntry(entry)
	bld.AddEdge(entry, a)
	bld.AddEdge(entry, b)
	bld.AddEdge(a, join)
	bld.AddEdge(b, join)
	bld.AddEdge(dead, join)

	g, err := bld.Build()
	if err != nil {
		t.Fatal(err)
	}
	pov := NewPostOrderView(g)

	if n := pov.Number(dead); n != -1 {
		t.Errorf("Unreachable block should have number -1, got %d", n)
	}

	rpo := pov.Blocks()
	if len(rpo) != 4 || rpo[0] != entry || rpo[3] != join {
		t.Errorf("Unexpected reverse post-order: %v", rpo)
	}

	for _, test := range []struct {
		a, b     *Block
		expected bool
	}{
		{entry, a, true},
		{entry, join, true},
		{a, join, true},
		{b, join, true},
		{join, entry, false},
		{join, dead, true},
		{dead, entry, false},
	} {
		if res := pov.Less(test.a, test.b); res != test.expected {
			t.Errorf("Less(%s, %s) = %v, expected %v", test.a, test.b, res, test.expected)
		}
	}
}

func TestLoopHeads(t *testing.T) {
	bld := NewBuilder()
	blocks := bld.NewBlocks(4)
	entry, head, body, exit := blocks[0], blocks[1], blocks[2], blocks[3]
	bld.SetEntry(entry)
	bld.AddEdge(entry, head)
	bld.AddEdge(head, body)
	bld.AddEdge(body, head)
	bld.AddEdge(head, exit)

	g, err := bld.Build()
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(g)

	for _, b := range blocks {
		if expected := b == head; ctx.IsLoopHead(b) != expected {
			t.Errorf("IsLoopHead(%s) = %v, expected %v", b, !expected, expected)
		}
	}
}

func TestVisualize(t *testing.T) {
	g, blocks := diamond(t)
	ctx := NewContext(g)

	G := ctx.Visualize("diamond", func(b *Block) string {
		if b == blocks[3] {
			return "joined"
		}
		return ""
	})

	if G.Title != "diamond" {
		t.Errorf("Unexpected title %q", G.Title)
	}
	if len(G.Nodes) != 4 {
		t.Errorf("Expected 4 nodes, got %d", len(G.Nodes))
	}
	if len(G.Edges) != 4 {
		t.Errorf("Expected 4 edges, got %d", len(G.Edges))
	}

	var sb strings.Builder
	if err := G.WriteDot(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), `"B0" -> "B1"`) {
		t.Errorf("Missing edge from B0 to B1 in:\n%s", sb.String())
	}
	if !strings.Contains(sb.String(), "joined") {
		t.Errorf("Missing annotation in:\n%s", sb.String())
	}
}

// loop builds entry -> head <-> body, head -> exit, plus a block only
// reachable through a pruned edge.
func loop(t *testing.T) (*Graph, []*Block) {
	bld := NewBuilder()
	blocks := bld.NewBlocks(5)
	entry, head, body, exit, dead := blocks[0], blocks[1], blocks[2], blocks[3], blocks[4]
	bld.SetEntry(entry)
	bld.SetExit(exit)
	bld.AddEdge(entry, head)
	bld.AddEdge(head, body)
	bld.AddEdge(body, head)
	bld.AddEdge(head, exit)
	bld.AddEdge(dead, exit)
	bld.AddUnreachablePred(dead)

	g, err := bld.Build()
	if err != nil {
		t.Fatal(err)
	}
	return g, blocks
}

func TestReachable(t *testing.T) {
	g, blocks := loop(t)
	reached := g.Reachable()

	for i, b := range blocks {
		if expected := i != 4; reached[b] != expected {
			t.Errorf("Reachable(%s) = %v, expected %v", b, reached[b], expected)
		}
	}
}

func TestLoops(t *testing.T) {
	g, blocks := loop(t)

	loops := g.Loops()
	if len(loops) != 1 || len(loops[0]) != 2 {
		t.Fatalf("Expected a single loop of two blocks, got %v", loops)
	}
	for _, b := range loops[0] {
		if b != blocks[1] && b != blocks[2] {
			t.Errorf("Unexpected block %s in loop", b)
		}
	}

	if dg, _ := diamond(t); len(dg.Loops()) != 0 {
		t.Errorf("Expected no loops in a diamond, got %v", dg.Loops())
	}
}

func TestSelfLoop(t *testing.T) {
	bld := NewBuilder()
	blocks := bld.NewBlocks(2)
	bld.SetEntry(blocks[0])
	bld.AddEdge(blocks[0], blocks[1])
	bld.AddEdge(blocks[1], blocks[1])

	g, err := bld.Build()
	if err != nil {
		t.Fatal(err)
	}
	if loops := g.Loops(); len(loops) != 1 || loops[0][0] != blocks[1] {
		t.Errorf("Expected %s to form a loop, got %v", blocks[1], loops)
	}
}

func TestVisualizeClustersLoops(t *testing.T) {
	g, _ := loop(t)
	G := NewContext(g).Visualize("loop", nil)

	if len(G.Clusters) != 1 {
		t.Fatalf("Expected one cluster, got %d", len(G.Clusters))
	}
	if len(G.Clusters[0].Nodes) != 2 || len(G.Nodes) != 3 {
		t.Errorf("Expected 2 blocks in the loop cluster and 3 outside, got %d and %d",
			len(G.Clusters[0].Nodes), len(G.Nodes))
	}

	var sb strings.Builder
	if err := G.WriteDot(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), `subgraph "cluster_loop0"`) {
		t.Errorf("Missing loop cluster in:\n%s", sb.String())
	}
}
