package core

import "context"

// StrategyFunc adapts a plain function into a Strategy.
type StrategyFunc[E, A any] struct {
	name string
	fn   func(ctx context.Context, event E, submitter Submitter[A]) error
}

// NewStrategyFunc wraps fn as a named Strategy.
func NewStrategyFunc[E, A any](name string, fn func(ctx context.Context, event E, submitter Submitter[A]) error) *StrategyFunc[E, A] {
	return &StrategyFunc[E, A]{name: name, fn: fn}
}

// Name implements Strategy.
func (s *StrategyFunc[E, A]) Name() string { return s.name }

// ProcessEvent implements Strategy.
func (s *StrategyFunc[E, A]) ProcessEvent(ctx context.Context, event E, submitter Submitter[A]) error {
	return s.fn(ctx, event, submitter)
}
