package executor

import (
	"context"

	"github.com/hupe1980/eventmesh/core"
)

// MapExecutor adapts an Executor[A] to a pipeline whose action type is B by
// transforming each action before execution. The transform may reject an
// action by returning an error, which feeds the owning task's retry state.
type MapExecutor[B, A any] struct {
	inner core.Executor[A]
	fn    func(B) (A, error)
}

// NewMap wraps inner with the transform fn.
func NewMap[B, A any](inner core.Executor[A], fn func(B) (A, error)) *MapExecutor[B, A] {
	return &MapExecutor[B, A]{inner: inner, fn: fn}
}

// Name implements core.Executor.
func (x *MapExecutor[B, A]) Name() string { return x.inner.Name() }

// Execute implements core.Executor.
func (x *MapExecutor[B, A]) Execute(ctx context.Context, action B) error {
	mapped, err := x.fn(action)
	if err != nil {
		return err
	}
	return x.inner.Execute(ctx, mapped)
}
