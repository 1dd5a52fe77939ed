package dataflow

import (
	"context"
	"log"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/env"
	"github.com/cs-au-dk/goflow/analysis/transfer"
	"github.com/cs-au-dk/goflow/utils"
)

// Observer is called with the state after every statement.
type Observer func(cfg.StmtElement, State)

type config struct {
	maxIterations int
	observer      Observer
	builtin       transfer.Builtin
	metrics       *Metrics
}

// Option configures a run of the engine.
type Option func(*config)

// WithMaxIterations bounds the number of block visits. The default is
// given by the -max-iterations flag.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIterations = n }
}

func WithObserver(fn Observer) Option {
	return func(c *config) { c.observer = fn }
}

// WithBuiltinTransfer replaces the built-in transfer functions applied to
// statements of analyses that opt into them.
func WithBuiltinTransfer(t transfer.Builtin) Option {
	return func(c *config) { c.builtin = t }
}

func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

type solver struct {
	config
	cfg      *cfg.Context
	analysis Analysis
	model    env.ValueModel
	initEnv  env.Environment
	states   BlockStates
}

// Run computes the fixpoint of analysis over the control-flow graph of
// cfgCtx, starting from the initial element of the analysis and initEnv at
// the entry block. The entry block is not transferred.
//
// On success, the result holds the state at the end of every block reached
// from the entry. Blocks that are never reached have no state. If the bound
// on iterations is exceeded, a *MaxIterationsError is returned. If ctx is
// cancelled, its error is returned. No states are returned on failure.
func Run(
	ctx context.Context,
	cfgCtx *cfg.Context,
	analysis Analysis,
	initEnv env.Environment,
	opts ...Option,
) (BlockStates, error) {
	s := &solver{
		config: config{
			maxIterations: utils.Opts().MaxIterations(),
			builtin:       transfer.SSA{},
		},
		cfg:      cfgCtx,
		analysis: analysis,
		model:    valueModelOf(analysis),
		initEnv:  initEnv,
	}
	for _, opt := range opts {
		opt(&s.config)
	}

	s.metrics.start()
	states, err := s.solve(ctx)
	switch {
	case err == nil:
		s.metrics.done(OUTCOME_CONVERGED)
	case ctx.Err() != nil:
		s.metrics.done(OUTCOME_CANCELLED)
	default:
		s.metrics.done(OUTCOME_MAX_ITERATIONS)
	}
	return states, err
}

func (s *solver) solve(ctx context.Context) (BlockStates, error) {
	g := s.cfg.Graph()
	s.states = make(BlockStates, g.Size())

	entry := g.Entry()
	s.states[entry.ID()] = Some(State{s.analysis.InitialElement(), s.initEnv})

	w := newWorklist(cfg.NewPostOrderView(g))
	w.EnqueueSuccessors(entry)

	iterations := 0
	for b := w.Dequeue(); b != nil; b = w.Dequeue() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		iterations++
		if iterations > s.maxIterations {
			return nil, &MaxIterationsError{s.maxIterations}
		}
		s.metrics.visit(b)

		out := s.transferBlock(b, s.blockInput(b))

		if old, ok := s.states.At(b); ok &&
			s.analysis.Equal(old.Lattice, out.Lattice) &&
			old.Env.EquivalentTo(&out.Env, s.model) {
			continue
		}

		if utils.Opts().LogDataflow() {
			log.Printf("%s (iteration %d): %v\n", b, iterations, out.Lattice)
		}

		s.states[b.ID()] = Some(out)
		s.metrics.changed()

		// Successors of blocks that never return are unreachable through b.
		if b.HasNoReturnElement() {
			continue
		}
		w.EnqueueSuccessors(b)
	}

	return s.states, nil
}
