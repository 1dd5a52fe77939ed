package lattice

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/goflow/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Lattice func(...interface{}) string
	Element func(...interface{}) string
	Key     func(...interface{}) string
}{
	Lattice: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
	Element: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Key: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
}

var (
	ErrLatticeMismatch = errors.New("lattice mismatch")
	errNoTop           = errors.New("lattice has no ⊤ element")
)

// Lattice is a join semi-lattice with a least element.
type Lattice interface {
	Bot() Element
	Eq(Lattice) bool
	String() string
}

// Element is a member of a lattice. Binary operations panic with
// ErrLatticeMismatch when the operands belong to different lattices.
type Element interface {
	Lattice() Lattice
	Eq(Element) bool
	Leq(Element) bool
	Geq(Element) bool
	Join(Element) Element
	Meet(Element) Element
	// Height is the length of the longest chain from ⊥ to the element.
	Height() int
	String() string
}

func checkLatticeMatch(l1, l2 Lattice, binop string) {
	if !l1.Eq(l2) {
		panic(fmt.Errorf("%w: invalid %s\nOperand 1 ∈ %s\nOperand 2 ∈ %s",
			ErrLatticeMismatch, binop, l1, l2))
	}
}
