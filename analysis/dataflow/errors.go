package dataflow

import (
	"errors"
	"fmt"
)

var (
	ErrMaxIterations = errors.New("maximum number of iterations reached")
	ErrElementType   = errors.New("unexpected lattice element type")
)

// MaxIterationsError is returned when a fixpoint is not reached within the
// iteration bound.
type MaxIterationsError struct {
	Iterations int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("%s (%d block visits)", ErrMaxIterations, e.Iterations)
}

func (e *MaxIterationsError) Unwrap() error {
	return ErrMaxIterations
}
