package lattice

// TwoElementLattice represents the two element lattice:
//
//	⊤
//	|
//	⊥
type TwoElementLattice struct{}

// twoElementLattice is a singleton instantiation of the two-element lattice.
var twoElementLattice = &TwoElementLattice{}

// TwoElement returns the two element lattice.
func TwoElement() *TwoElementLattice {
	return twoElementLattice
}

type TwoElementLatticeElement bool

func (*TwoElementLattice) Top() Element { return TwoElementLatticeElement(true) }
func (*TwoElementLattice) Bot() Element { return TwoElementLatticeElement(false) }

func (*TwoElementLattice) Eq(l2 Lattice) bool {
	_, ok := l2.(*TwoElementLattice)
	return ok
}

func (*TwoElementLattice) String() string {
	return colorize.Lattice("⌶")
}

func (TwoElementLatticeElement) Lattice() Lattice { return twoElementLattice }

func (b TwoElementLatticeElement) AsBool() bool { return bool(b) }

func (b TwoElementLatticeElement) String() string {
	if b {
		return colorize.Element("⊤")
	}
	return colorize.Element("⊥")
}

func (e1 TwoElementLatticeElement) Eq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "=")
	return e1 == e2.(TwoElementLatticeElement)
}

func (e1 TwoElementLatticeElement) Leq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊑")
	return !bool(e1) || bool(e2.(TwoElementLatticeElement))
}

func (e1 TwoElementLatticeElement) Geq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊒")
	return bool(e1) || !bool(e2.(TwoElementLatticeElement))
}

func (e1 TwoElementLatticeElement) Join(e2 Element) Element {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊔")
	return e1 || e2.(TwoElementLatticeElement)
}

func (e1 TwoElementLatticeElement) Meet(e2 Element) Element {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊓")
	return e1 && e2.(TwoElementLatticeElement)
}

func (b TwoElementLatticeElement) Height() int {
	if b {
		return 1
	}
	return 0
}
