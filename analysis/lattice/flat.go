package lattice

import "fmt"

// Flat is the flat lattice over constants:
//
//	      ⊤
//	  /  ...  \
//	c1   ...   cn
//	  \  ...  /
//	      ⊥
type Flat struct {
	name string
}

func NewFlat(name string) *Flat {
	return &Flat{name: name}
}

func (f *Flat) Eq(l Lattice) bool { return f == l }

func (f *Flat) String() string {
	return colorize.Lattice("Flat") + "(" + f.name + ")"
}

func (f *Flat) Bot() Element { return FlatElement{lat: f, kind: flatBot} }
func (f *Flat) Top() Element { return FlatElement{lat: f, kind: flatTop} }

// Const lifts a comparable constant into the lattice.
func (f *Flat) Const(c any) FlatElement {
	return FlatElement{lat: f, kind: flatConst, value: c}
}

type flatKind uint8

const (
	flatBot flatKind = iota
	flatConst
	flatTop
)

type FlatElement struct {
	lat   *Flat
	kind  flatKind
	value any
}

func (e FlatElement) Lattice() Lattice { return e.lat }

func (e FlatElement) IsBot() bool { return e.kind == flatBot }
func (e FlatElement) IsTop() bool { return e.kind == flatTop }

// Value returns the constant, if the element is one.
func (e FlatElement) Value() (any, bool) {
	return e.value, e.kind == flatConst
}

func (e FlatElement) Eq(o Element) bool {
	checkLatticeMatch(e.lat, o.Lattice(), "=")
	return e == o.(FlatElement)
}

func (e FlatElement) Leq(o Element) bool {
	checkLatticeMatch(e.lat, o.Lattice(), "⊑")
	e2 := o.(FlatElement)
	return e.kind == flatBot || e2.kind == flatTop || e == e2
}

func (e FlatElement) Geq(o Element) bool {
	checkLatticeMatch(e.lat, o.Lattice(), "⊒")
	return o.(FlatElement).Leq(e)
}

func (e FlatElement) Join(o Element) Element {
	checkLatticeMatch(e.lat, o.Lattice(), "⊔")
	e2 := o.(FlatElement)
	switch {
	case e.Leq(e2):
		return e2
	case e2.Leq(e):
		return e
	}
	return e.lat.Top()
}

func (e FlatElement) Meet(o Element) Element {
	checkLatticeMatch(e.lat, o.Lattice(), "⊓")
	e2 := o.(FlatElement)
	switch {
	case e.Leq(e2):
		return e
	case e2.Leq(e):
		return e2
	}
	return e.lat.Bot()
}

func (e FlatElement) Height() int {
	return int(e.kind)
}

func (e FlatElement) String() string {
	switch e.kind {
	case flatBot:
		return colorize.Element("⊥")
	case flatTop:
		return colorize.Element("⊤")
	}
	return colorize.Element(fmt.Sprint(e.value))
}
