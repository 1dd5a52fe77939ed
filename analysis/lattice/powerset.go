package lattice

import (
	"fmt"
	"sort"
	"strings"
)

// Powerset is the lattice of subsets of a domain ordered by inclusion.
// A powerset without a domain has no ⊤ element.
type Powerset struct {
	dom map[any]struct{}
}

// NewPowerset creates a powerset lattice. If dom is non-empty, it is the
// finite domain of the lattice and members outside it are rejected.
func NewPowerset(dom ...any) *Powerset {
	p := &Powerset{}
	if len(dom) > 0 {
		p.dom = make(map[any]struct{}, len(dom))
		for _, x := range dom {
			p.dom[x] = struct{}{}
		}
	}
	return p
}

func (p *Powerset) Bot() Element {
	return Set{lat: p}
}

// Top returns the full domain. Panics for powersets without a domain.
func (p *Powerset) Top() Element {
	if p.dom == nil {
		panic(errNoTop)
	}
	return Set{lat: p, elems: p.dom}
}

func (p *Powerset) Eq(l Lattice) bool {
	return p == l
}

func (p *Powerset) Domain() []any {
	return sortedKeys(p.dom)
}

func (p *Powerset) String() string {
	if p.dom == nil {
		return colorize.Lattice("℘") + "(*)"
	}
	return colorize.Lattice("℘") + "(" + strings.Join(showAll(sortedKeys(p.dom)), ", ") + ")"
}

// Set is an element of a powerset lattice. Sets are immutable; operations
// that modify a set return a new one.
type Set struct {
	lat   *Powerset
	elems map[any]struct{}
}

// Elements creates the set of the given members.
func (p *Powerset) Elements(xs ...any) Set {
	return p.Bot().(Set).Add(xs...)
}

func (s Set) Lattice() Lattice { return s.lat }

func (s Set) Size() int { return len(s.elems) }

func (s Set) Contains(x any) bool {
	_, ok := s.elems[x]
	return ok
}

// Add returns the set extended with xs.
func (s Set) Add(xs ...any) Set {
	missing := false
	for _, x := range xs {
		if !s.Contains(x) {
			missing = true
			break
		}
	}
	if !missing {
		return s
	}

	elems := make(map[any]struct{}, len(s.elems)+len(xs))
	for x := range s.elems {
		elems[x] = struct{}{}
	}
	for _, x := range xs {
		if s.lat.dom != nil {
			if _, ok := s.lat.dom[x]; !ok {
				panic(fmt.Errorf("%v is not in the domain of %s", x, s.lat))
			}
		}
		elems[x] = struct{}{}
	}
	return Set{lat: s.lat, elems: elems}
}

// Remove returns the set without x.
func (s Set) Remove(x any) Set {
	if !s.Contains(x) {
		return s
	}
	elems := make(map[any]struct{}, len(s.elems))
	for y := range s.elems {
		if y != x {
			elems[y] = struct{}{}
		}
	}
	return Set{lat: s.lat, elems: elems}
}

// Members returns the members of the set in string order.
func (s Set) Members() []any {
	return sortedKeys(s.elems)
}

func (s Set) ForEach(do func(any)) {
	for x := range s.elems {
		do(x)
	}
}

func (s Set) subset(o Set) bool {
	if len(s.elems) > len(o.elems) {
		return false
	}
	for x := range s.elems {
		if !o.Contains(x) {
			return false
		}
	}
	return true
}

func (s Set) Eq(e Element) bool {
	checkLatticeMatch(s.lat, e.Lattice(), "=")
	o := e.(Set)
	return len(s.elems) == len(o.elems) && s.subset(o)
}

func (s Set) Leq(e Element) bool {
	checkLatticeMatch(s.lat, e.Lattice(), "⊑")
	return s.subset(e.(Set))
}

func (s Set) Geq(e Element) bool {
	checkLatticeMatch(s.lat, e.Lattice(), "⊒")
	return e.(Set).subset(s)
}

func (s Set) Join(e Element) Element {
	checkLatticeMatch(s.lat, e.Lattice(), "⊔")
	o := e.(Set)
	switch {
	case o.subset(s):
		return s
	case s.subset(o):
		return o
	}
	elems := make(map[any]struct{}, len(s.elems)+len(o.elems))
	for x := range s.elems {
		elems[x] = struct{}{}
	}
	for x := range o.elems {
		elems[x] = struct{}{}
	}
	return Set{lat: s.lat, elems: elems}
}

func (s Set) Meet(e Element) Element {
	checkLatticeMatch(s.lat, e.Lattice(), "⊓")
	o := e.(Set)
	elems := make(map[any]struct{})
	for x := range s.elems {
		if o.Contains(x) {
			elems[x] = struct{}{}
		}
	}
	return Set{lat: s.lat, elems: elems}
}

func (s Set) Height() int {
	return len(s.elems)
}

func (s Set) String() string {
	if len(s.elems) == 0 {
		return colorize.Element("∅")
	}
	return "{ " + strings.Join(showAll(sortedKeys(s.elems)), ", ") + " }"
}

func showAll(xs []any) []string {
	strs := make([]string, len(xs))
	for i, x := range xs {
		strs[i] = fmt.Sprint(x)
	}
	return strs
}

func sortedKeys(m map[any]struct{}) []any {
	xs := make([]any, 0, len(m))
	for x := range m {
		xs = append(xs, x)
	}
	sort.Slice(xs, func(i, j int) bool {
		return fmt.Sprint(xs[i]) < fmt.Sprint(xs[j])
	})
	return xs
}
