package cfg

import (
	"fmt"
	"strings"
)

type TerminatorKind int

const (
	NoTerminator TerminatorKind = iota
	BranchTerminator
	ReturnTerminator
	PanicTerminator
	// TemporaryDtorsBranch decides whether the destructor of a temporary
	// created in a predecessor must run. Its statement is the one that
	// created the temporary.
	TemporaryDtorsBranch
)

func (k TerminatorKind) String() string {
	switch k {
	case NoTerminator:
		return "none"
	case BranchTerminator:
		return "branch"
	case ReturnTerminator:
		return "return"
	case PanicTerminator:
		return "panic"
	case TemporaryDtorsBranch:
		return "temp-dtors-branch"
	default:
		return fmt.Sprintf("TerminatorKind(%d)", int(k))
	}
}

type Terminator struct {
	Kind TerminatorKind
	Stmt Stmt
}

func (t Terminator) IsTemporaryDtorsBranch() bool {
	return t.Kind == TemporaryDtorsBranch
}

// Block is a basic block. Blocks are created and wired through a Builder and
// are immutable once the graph is built.
//
// Predecessor and successor lists may contain nil entries, which denote
// edges that were pruned as unreachable.
type Block struct {
	id       int
	label    string
	elements []Element
	preds    []*Block
	succs    []*Block
	term     Terminator
	noReturn bool
}

func (b *Block) ID() int               { return b.id }
func (b *Block) Label() string         { return b.label }
func (b *Block) Elements() []Element   { return b.elements }
func (b *Block) Preds() []*Block       { return b.preds }
func (b *Block) Succs() []*Block       { return b.succs }
func (b *Block) Terminator() Terminator { return b.term }

// HasNoReturnElement reports whether control never leaves the block through
// its successors.
func (b *Block) HasNoReturnElement() bool { return b.noReturn }

// ReachableSuccs returns the non-nil successors.
func (b *Block) ReachableSuccs() []*Block {
	res := make([]*Block, 0, len(b.succs))
	for _, s := range b.succs {
		if s != nil {
			res = append(res, s)
		}
	}
	return res
}

func (b *Block) String() string {
	return fmt.Sprintf("B%d", b.id)
}

// Dump renders the block with its elements, one per line.
func (b *Block) Dump() string {
	var sb strings.Builder
	sb.WriteString(b.String())
	if b.label != "" {
		sb.WriteString(" (" + b.label + ")")
	}
	if b.noReturn {
		sb.WriteString(" [noreturn]")
	}
	sb.WriteString("\n")
	for i, e := range b.elements {
		fmt.Fprintf(&sb, "  %d: %s\n", i+1, e)
	}
	if b.term.Kind != NoTerminator {
		stmt := ""
		if b.term.Stmt != nil {
			stmt = " " + b.term.Stmt.String()
		}
		fmt.Fprintf(&sb, "  T: %s%s\n", b.term.Kind, stmt)
	}
	return sb.String()
}
