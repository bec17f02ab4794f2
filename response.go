package adventure

import "context"

// Response represents a single in-flight or completed asynchronous operation.
// Wait drives the operation to completion, blocking until a terminal outcome
// is available or ctx is done. A Response has exactly one terminal outcome;
// calling Wait again after it has returned is undefined.
type Response[T any] interface {
	Wait(ctx context.Context) (T, error)
}

// ResponseFunc adapts a plain function into a Response. The operation runs
// when Wait is called, so constructing one is free and does not start any
// work.
type ResponseFunc[T any] func(ctx context.Context) (T, error)

// Wait implements the Response interface.
func (f ResponseFunc[T]) Wait(ctx context.Context) (T, error) {
	return f(ctx)
}

// Resolve returns an already-completed Response carrying v.
func Resolve[T any](v T) Response[T] {
	return ResponseFunc[T](func(context.Context) (T, error) {
		return v, nil
	})
}

// Fail returns an already-completed Response carrying err.
func Fail[T any](err error) Response[T] {
	return ResponseFunc[T](func(context.Context) (T, error) {
		var zero T
		return zero, err
	})
}
