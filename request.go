package adventure

import "sync/atomic"

// OneshotRequest is a request that may be sent exactly once; sending consumes
// it. Most callers deal with RepeatableRequest instead, which is what the
// adapters in this package operate on.
type OneshotRequest[T any] interface {
	SendOnce() Response[T]
}

// RepeatableRequest is a request that can issue its operation any number of
// times without being consumed. Adapters hold it by reference and re-issue it;
// they never mutate it.
type RepeatableRequest[T any] interface {
	Send() Response[T]
}

// PagedRequest is a repeatable request whose sends fetch one page of a larger
// result set. A nil token requests the first page; subsequent tokens come
// from the previous page's continuation indicator.
type PagedRequest[T any] interface {
	SendPage(token *string) Response[T]
}

// Pager is the contract a page payload satisfies so that a Paginator can tell
// whether more pages exist. NextToken is meaningful only when HasMore reports
// true.
type Pager interface {
	HasMore() bool
	NextToken() string
}

// RetriableRequest is an optional capability: a request implementing it
// decides which of its errors are transient. Requests that do not implement
// it are retried on any error (see the package documentation for why this
// default is permissive).
type RetriableRequest interface {
	ShouldRetry(err error) bool
}

// RequestFunc adapts a function into a RepeatableRequest. The function is
// invoked once per Send and must be safe to call repeatedly.
type RequestFunc[T any] func() Response[T]

// Send implements the RepeatableRequest interface.
func (f RequestFunc[T]) Send() Response[T] {
	return f()
}

// Page is a ready-made page payload with its continuation indicator, for
// request types that don't want to define their own Pager implementation.
type Page[V any] struct {
	Value V
	More  bool
	Token string
}

// HasMore implements the Pager interface.
func (p Page[V]) HasMore() bool { return p.More }

// NextToken implements the Pager interface.
func (p Page[V]) NextToken() string { return p.Token }

// Oneshot adapts a repeatable request into a one-shot request, enforcing the
// consume-on-send contract: the second and later SendOnce calls yield a
// Response that fails with ErrRequestConsumed.
type Oneshot[T any] struct {
	req      RepeatableRequest[T]
	consumed atomic.Bool
}

// Once wraps req so it may be sent at most once.
func Once[T any](req RepeatableRequest[T]) *Oneshot[T] {
	return &Oneshot[T]{req: req}
}

// SendOnce implements the OneshotRequest interface.
func (o *Oneshot[T]) SendOnce() Response[T] {
	if !o.consumed.CompareAndSwap(false, true) {
		return Fail[T](ErrRequestConsumed)
	}
	return o.req.Send()
}
