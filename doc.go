// Package adventure provides a composable request/response abstraction for
// outbound network calls, with two orthogonal behaviors layered on a minimal
// request contract:
//
//   - Retries with exponential backoff + jitter on transient failure
//   - Transparent pagination of multi-page result sets into a lazy sequence
//
// Design goals:
//   - Small surface area – capability interfaces plus functional options
//   - Transport agnostic – the core never decides what is retryable; requests
//     classify their own errors (see RetriableRequest)
//   - Composable – Retry wraps any repeatable request, Paginate wraps any
//     paged request, and RetryPaged makes the two stack so that every page
//     fetch gets its own backoff sequence
//   - Optional observability – Prometheus metrics and lightweight debug
//     logging, both off by default
//
// Typical usage:
//
//	req := adventure.RequestFunc[Record](fetch)
//	resp := adventure.Retry(req,
//	    adventure.WithMaxAttempts(5),
//	    adventure.WithMaxInterval(10*time.Second),
//	).Send()
//	record, err := resp.Wait(ctx)
//
// Paginating a paged request, retrying each page fetch independently:
//
//	pages := adventure.Paginate(adventure.RetryPaged(listReq))
//	for page, err := range pages.Pages(ctx) {
//	    ...
//	}
//
// Requests that do not implement RetriableRequest are retried on any error up
// to the backoff policy's bounds. This default is deliberately permissive:
// an unclassified permanent error (for example a malformed request) will be
// retried until the policy gives up. Callers that need stricter behavior
// should implement RetriableRequest or install WithRetryDecision.
package adventure
