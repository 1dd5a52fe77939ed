package cfg

import (
	"errors"
	"fmt"
)

var ErrNoEntry = errors.New("control-flow graph has no entry block")

// Builder assembles a Graph. Block identifiers are assigned densely in
// creation order, starting at 0.
type Builder struct {
	blocks      []*Block
	entry, exit *Block
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (bld *Builder) NewBlock() *Block {
	b := &Block{id: len(bld.blocks)}
	bld.blocks = append(bld.blocks, b)
	return b
}

// NewBlocks creates n blocks.
func (bld *Builder) NewBlocks(n int) []*Block {
	res := make([]*Block, n)
	for i := range res {
		res[i] = bld.NewBlock()
	}
	return res
}

// AddEdge connects from to to, keeping successor and predecessor lists
// symmetric.
func (bld *Builder) AddEdge(from, to *Block) {
	from.succs = append(from.succs, to)
	to.preds = append(to.preds, from)
}

// AddUnreachableSucc records a pruned successor edge on from.
func (bld *Builder) AddUnreachableSucc(from *Block) {
	from.succs = append(from.succs, nil)
}

// AddUnreachablePred records a pruned predecessor edge on to.
func (bld *Builder) AddUnreachablePred(to *Block) {
	to.preds = append(to.preds, nil)
}

func (bld *Builder) Append(b *Block, elems ...Element) {
	b.elements = append(b.elements, elems...)
}

func (bld *Builder) AppendStmts(b *Block, stmts ...Stmt) {
	bld.Append(b, Stmts(stmts...)...)
}

func (bld *Builder) SetTerminator(b *Block, t Terminator) {
	b.term = t
}

func (bld *Builder) SetNoReturn(b *Block) {
	b.noReturn = true
}

func (bld *Builder) SetLabel(b *Block, label string) {
	b.label = label
}

func (bld *Builder) SetEntry(b *Block) {
	bld.entry = b
}

func (bld *Builder) SetExit(b *Block) {
	bld.exit = b
}

// Build validates the assembled blocks and returns the graph.
func (bld *Builder) Build() (*Graph, error) {
	if bld.entry == nil {
		return nil, ErrNoEntry
	}

	owned := func(b *Block) bool {
		return b.id >= 0 && b.id < len(bld.blocks) && bld.blocks[b.id] == b
	}

	if !owned(bld.entry) {
		return nil, fmt.Errorf("entry block %s is not part of the graph", bld.entry)
	}
	if bld.exit != nil && !owned(bld.exit) {
		return nil, fmt.Errorf("exit block %s is not part of the graph", bld.exit)
	}

	for _, b := range bld.blocks {
		for _, s := range b.succs {
			if s != nil && !owned(s) {
				return nil, fmt.Errorf("%s has a successor outside the graph", b)
			}
		}
		for _, p := range b.preds {
			if p != nil && !owned(p) {
				return nil, fmt.Errorf("%s has a predecessor outside the graph", b)
			}
		}
	}

	return &Graph{
		blocks: bld.blocks,
		entry:  bld.entry,
		exit:   bld.exit,
	}, nil
}
