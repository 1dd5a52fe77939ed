package dataflow

import (
	"fmt"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/env"
)

// Element is an opaque lattice element. Only the analysis that produced an
// element knows its dynamic type.
type Element = any

// Analysis is the type-erased interface between the engine and a dataflow
// analysis.
//
// Join must be associative, commutative and idempotent, and must not modify
// its arguments. Transfer may modify the environment, but must return the
// lattice element instead of modifying e.
//
// An analysis that also implements env.ValueModel is used as the model when
// joining and comparing environments.
type Analysis interface {
	InitialElement() Element
	Join(a, b Element) Element
	Equal(a, b Element) bool
	Transfer(s cfg.Stmt, e Element, env *env.Environment) Element
	// ApplyBuiltinTransfer reports whether the built-in transfer functions
	// are applied to the environment before Transfer.
	ApplyBuiltinTransfer() bool
}

// TypedAnalysis is an analysis over lattice elements of type L.
type TypedAnalysis[L any] interface {
	InitialElement() L
	Join(a, b L) L
	Equal(a, b L) bool
	Transfer(s cfg.Stmt, e L, env *env.Environment) L
	ApplyBuiltinTransfer() bool
}

// Typed erases the lattice type of a typed analysis. The resulting analysis
// panics if given elements of another type.
func Typed[L any](a TypedAnalysis[L]) Analysis {
	return typed[L]{a}
}

type typed[L any] struct {
	a TypedAnalysis[L]
}

func (t typed[L]) cast(e Element) L {
	l, ok := e.(L)
	if !ok {
		var want L
		panic(fmt.Errorf("%w: expected %T, got %T", ErrElementType, want, e))
	}
	return l
}

func (t typed[L]) InitialElement() Element { return t.a.InitialElement() }

func (t typed[L]) Join(a, b Element) Element {
	return t.a.Join(t.cast(a), t.cast(b))
}

func (t typed[L]) Equal(a, b Element) bool {
	return t.a.Equal(t.cast(a), t.cast(b))
}

func (t typed[L]) Transfer(s cfg.Stmt, e Element, env *env.Environment) Element {
	return t.a.Transfer(s, t.cast(e), env)
}

func (t typed[L]) ApplyBuiltinTransfer() bool { return t.a.ApplyBuiltinTransfer() }

func (t typed[L]) unwrap() any { return t.a }

// valueModelOf returns the value model of an analysis.
func valueModelOf(a Analysis) env.ValueModel {
	var x any = a
	for {
		if m, ok := x.(env.ValueModel); ok {
			return m
		}
		w, ok := x.(interface{ unwrap() any })
		if !ok {
			return env.DefaultValueModel{}
		}
		x = w.unwrap()
	}
}

// State is the abstract state at a program point: a lattice element and an
// environment.
type State struct {
	Lattice Element
	Env     env.Environment
}

// MaybeState is the state of a block, which is absent until the block has
// been reached.
type MaybeState struct {
	state   State
	present bool
}

func Some(s State) MaybeState {
	return MaybeState{s, true}
}

func (m MaybeState) Get() (State, bool) {
	return m.state, m.present
}

func (m MaybeState) Present() bool {
	return m.present
}

// BlockStates holds the state at the end of every block, indexed by block
// id.
type BlockStates []MaybeState

// At returns the state at the end of b.
func (bs BlockStates) At(b *cfg.Block) (State, bool) {
	if b == nil || b.ID() < 0 || b.ID() >= len(bs) {
		return State{}, false
	}
	return bs[b.ID()].Get()
}
