package executor

import "context"

// FuncExecutor adapts a plain function into an Executor.
type FuncExecutor[A any] struct {
	name string
	fn   func(ctx context.Context, action A) error
}

// NewFunc wraps fn as a named Executor.
func NewFunc[A any](name string, fn func(ctx context.Context, action A) error) *FuncExecutor[A] {
	return &FuncExecutor[A]{name: name, fn: fn}
}

// Name implements core.Executor.
func (x *FuncExecutor[A]) Name() string { return x.name }

// Execute implements core.Executor.
func (x *FuncExecutor[A]) Execute(ctx context.Context, action A) error {
	return x.fn(ctx, action)
}
