package adventure

import (
	"context"
	"iter"
)

// Paginator turns a paged request into a lazy, single-pass sequence of page
// payloads, one send-and-advance cycle per element. It is not restartable:
// once iteration has begun or the sequence has ended, a new Paginator must be
// constructed to re-enumerate.
//
// A Paginator never retries: the first page-fetch error is surfaced verbatim
// and permanently closes the sequence. Compose RetryPaged underneath to give
// each page fetch its own backoff sequence. Pages already yielded before a
// failure remain valid.
//
// A Paginator is owned by a single caller; it must not be advanced from more
// than one goroutine concurrently.
type Paginator[T Pager] struct {
	req PagedRequest[T]
	cfg *paginateConfig

	token    *string
	inflight Response[T]
	done     bool
}

// Paginate constructs a paginator over req.
func Paginate[T Pager](req PagedRequest[T], opts ...PaginateOption) *Paginator[T] {
	return &Paginator[T]{req: req, cfg: newPaginateConfig(opts...)}
}

// Next fetches and returns the next page. It returns (zero, false, nil) once
// the sequence is exhausted, including on every call after an error has been
// returned: a closed paginator never issues another send. The final page is
// still delivered before exhaustion is signalled.
func (p *Paginator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if p.done {
		return zero, false, nil
	}

	if p.inflight == nil {
		p.inflight = p.req.SendPage(p.token)
	}

	page, err := p.inflight.Wait(ctx)
	p.inflight = nil
	if err != nil {
		p.done = true
		p.cfg.metrics.RecordPageError()
		if p.cfg.logger != nil {
			p.cfg.logger.Debug("page fetch failed, closing sequence", "error", err)
		}
		return zero, false, err
	}

	if page.HasMore() {
		token := page.NextToken()
		p.token = &token
	} else {
		p.done = true
	}

	p.cfg.metrics.RecordPage()
	if p.cfg.logger != nil {
		p.cfg.logger.Debug("page received", "hasMore", page.HasMore())
	}
	return page, true, nil
}

// Pages returns the remaining pages as a range-over-func sequence. Iteration
// stops after the first error; the error is yielded with the zero page value.
func (p *Paginator[T]) Pages(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			page, ok, err := p.Next(ctx)
			if err != nil {
				yield(page, err)
				return
			}
			if !ok {
				return
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}

// Collect drains the paginator, returning all remaining pages. On error the
// pages fetched so far are returned alongside it.
func (p *Paginator[T]) Collect(ctx context.Context) ([]T, error) {
	var pages []T
	for {
		page, ok, err := p.Next(ctx)
		if err != nil {
			return pages, err
		}
		if !ok {
			return pages, nil
		}
		pages = append(pages, page)
	}
}
