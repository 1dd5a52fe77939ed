package lattice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/benbjohnson/immutable"
)

// MapLattice is the lattice of maps from K to elements of a value lattice,
// ordered pointwise. Missing keys are bound to ⊥ of the value lattice.
type MapLattice[K any] struct {
	value  Lattice
	hasher immutable.Hasher[K]
}

func NewMapLattice[K any](value Lattice, hasher immutable.Hasher[K]) *MapLattice[K] {
	return &MapLattice[K]{value, hasher}
}

func (m *MapLattice[K]) Value() Lattice { return m.value }

func (m *MapLattice[K]) Bot() Element {
	return Map[K]{m, immutable.NewMap[K, Element](m.hasher)}
}

func (m *MapLattice[K]) Eq(l Lattice) bool {
	m2, ok := l.(*MapLattice[K])
	return ok && (m == m2 || m.value.Eq(m2.value))
}

func (m *MapLattice[K]) String() string {
	return "K → " + m.value.String()
}

// Map is an element of a map lattice. Entries equal to ⊥ are never stored.
type Map[K any] struct {
	lat *MapLattice[K]
	mp  *immutable.Map[K, Element]
}

func (m Map[K]) Lattice() Lattice { return m.lat }

func (m Map[K]) Size() int { return m.mp.Len() }

// Get returns the binding of k, or ⊥ if k is not bound.
func (m Map[K]) Get(k K) Element {
	if v, ok := m.mp.Get(k); ok {
		return v
	}
	return m.lat.value.Bot()
}

// Update returns the map with k bound to v.
func (m Map[K]) Update(k K, v Element) Map[K] {
	checkLatticeMatch(m.lat.value, v.Lattice(), "update")
	if v.Eq(m.lat.value.Bot()) {
		if _, ok := m.mp.Get(k); !ok {
			return m
		}
		return Map[K]{m.lat, m.mp.Delete(k)}
	}
	return Map[K]{m.lat, m.mp.Set(k, v)}
}

// ForEach calls do for every key not bound to ⊥.
func (m Map[K]) ForEach(do func(K, Element)) {
	for itr := m.mp.Iterator(); !itr.Done(); {
		k, v, _ := itr.Next()
		do(k, v)
	}
}

func (m Map[K]) Leq(e Element) bool {
	checkLatticeMatch(m.lat, e.Lattice(), "⊑")
	o := e.(Map[K])
	for itr := m.mp.Iterator(); !itr.Done(); {
		k, v, _ := itr.Next()
		if !v.Leq(o.Get(k)) {
			return false
		}
	}
	return true
}

func (m Map[K]) Geq(e Element) bool {
	checkLatticeMatch(m.lat, e.Lattice(), "⊒")
	return e.Leq(m)
}

func (m Map[K]) Eq(e Element) bool {
	checkLatticeMatch(m.lat, e.Lattice(), "=")
	o := e.(Map[K])
	return m.mp.Len() == o.mp.Len() && m.Leq(o) && o.Leq(m)
}

func (m Map[K]) Join(e Element) Element {
	checkLatticeMatch(m.lat, e.Lattice(), "⊔")
	res := m
	e.(Map[K]).ForEach(func(k K, v Element) {
		if prev, ok := res.mp.Get(k); ok {
			res = res.Update(k, prev.Join(v))
		} else {
			res = res.Update(k, v)
		}
	})
	return res
}

func (m Map[K]) Meet(e Element) Element {
	checkLatticeMatch(m.lat, e.Lattice(), "⊓")
	o := e.(Map[K])
	res := m.lat.Bot().(Map[K])
	m.ForEach(func(k K, v Element) {
		res = res.Update(k, v.Meet(o.Get(k)))
	})
	return res
}

func (m Map[K]) Height() (h int) {
	m.ForEach(func(_ K, v Element) {
		h += v.Height()
	})
	return
}

func (m Map[K]) String() string {
	if m.mp.Len() == 0 {
		return colorize.Element("⊥")
	}
	entries := make([]string, 0, m.mp.Len())
	m.ForEach(func(k K, v Element) {
		entries = append(entries, colorize.Key(fmt.Sprint(k))+" ↦ "+v.String())
	})
	sort.Strings(entries)
	return "[ " + strings.Join(entries, ", ") + " ]"
}
