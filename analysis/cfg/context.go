package cfg

// Context bundles a graph with the map from statements to the blocks that
// contain them.
type Context struct {
	graph       *Graph
	stmtToBlock map[Stmt]*Block
	loopHeads   map[*Block]bool
}

// NewContext indexes the statements of g. A statement occurring as an element
// is mapped to the block containing the element. Terminator statements are
// mapped to their block only when they do not also occur as an element, so
// the terminator of a temporary-destructor branch resolves to the block that
// created the temporary.
func NewContext(g *Graph) *Context {
	ctx := &Context{
		graph:       g,
		stmtToBlock: make(map[Stmt]*Block),
	}

	for _, b := range g.blocks {
		for _, e := range b.elements {
			if se, ok := e.(StmtElement); ok && se.Stmt != nil {
				ctx.stmtToBlock[se.Stmt] = b
			}
		}
	}

	for _, b := range g.blocks {
		if s := b.term.Stmt; s != nil {
			if _, found := ctx.stmtToBlock[s]; !found {
				ctx.stmtToBlock[s] = b
			}
		}
	}

	return ctx
}

func (ctx *Context) Graph() *Graph {
	return ctx.graph
}

// BlockOf returns the block containing s.
func (ctx *Context) BlockOf(s Stmt) (*Block, bool) {
	b, ok := ctx.stmtToBlock[s]
	return b, ok
}

// IsLoopHead reports whether b is the target of a back edge.
func (ctx *Context) IsLoopHead(b *Block) bool {
	if ctx.loopHeads == nil {
		ctx.loopHeads = ctx.graph.LoopHeads()
	}
	return ctx.loopHeads[b]
}
