package adventure

import (
	"context"
	"errors"
	"testing"
	"time"
)

// pagedStub serves a fixed script of pages and records the tokens it was
// asked for. failures maps 1-based call numbers to errors.
type pagedStub struct {
	pages    []Page[string]
	failures map[int]error
	tokens   []*string
	calls    int
}

func (s *pagedStub) SendPage(token *string) Response[Page[string]] {
	s.tokens = append(s.tokens, token)
	s.calls++
	if err, ok := s.failures[s.calls]; ok {
		return Fail[Page[string]](err)
	}
	return Resolve(s.pages[len(s.tokens)-1-s.failed()])
}

func (s *pagedStub) failed() int {
	n := 0
	for call := range s.failures {
		if call <= s.calls {
			n++
		}
	}
	return n
}

func threePages() []Page[string] {
	return []Page[string]{
		{Value: "P1", More: true, Token: "t1"},
		{Value: "P2", More: true, Token: "t2"},
		{Value: "P3"},
	}
}

func TestPaginatorYieldsAllPagesInOrder(t *testing.T) {
	stub := &pagedStub{pages: threePages()}
	p := Paginate[Page[string]](stub)
	ctx := context.Background()

	var got []string
	for {
		page, ok, err := p.Next(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, page.Value)
	}

	want := []string{"P1", "P2", "P3"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d pages, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Page %d = %q, want %q", i, got[i], want[i])
		}
	}

	wantTokens := []*string{nil, strPtr("t1"), strPtr("t2")}
	if len(stub.tokens) != len(wantTokens) {
		t.Fatalf("Expected %d sends, got %d", len(wantTokens), len(stub.tokens))
	}
	for i, want := range wantTokens {
		got := stub.tokens[i]
		switch {
		case want == nil && got != nil:
			t.Errorf("Send %d: expected nil token, got %q", i+1, *got)
		case want != nil && (got == nil || *got != *want):
			t.Errorf("Send %d: expected token %q, got %v", i+1, *want, got)
		}
	}

	// The 4th advancement signals sequence end without another send.
	if _, ok, err := p.Next(ctx); ok || err != nil {
		t.Errorf("Expected clean sequence end, got ok=%v err=%v", ok, err)
	}
	if stub.calls != 3 {
		t.Errorf("Expected no send after exhaustion, got %d calls", stub.calls)
	}
}

func TestPaginatorFirstFetchFails(t *testing.T) {
	boom := errors.New("boom")
	stub := &pagedStub{failures: map[int]error{1: boom}}
	p := Paginate[Page[string]](stub)
	ctx := context.Background()

	_, ok, err := p.Next(ctx)
	if ok {
		t.Error("Expected no page on failure")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the failure verbatim, got %v", err)
	}

	// A failed paginator is permanently closed: no re-send.
	if _, ok, err := p.Next(ctx); ok || err != nil {
		t.Errorf("Expected sequence end after failure, got ok=%v err=%v", ok, err)
	}
	if stub.calls != 1 {
		t.Errorf("Expected exactly 1 send, got %d", stub.calls)
	}
}

func TestPaginatorErrorMidSequence(t *testing.T) {
	boom := errors.New("boom")
	stub := &pagedStub{
		pages:    threePages(),
		failures: map[int]error{2: boom},
	}
	p := Paginate[Page[string]](stub)
	ctx := context.Background()

	page, ok, err := p.Next(ctx)
	if err != nil || !ok || page.Value != "P1" {
		t.Fatalf("Expected P1, got page=%+v ok=%v err=%v", page, ok, err)
	}
	if _, _, err := p.Next(ctx); !errors.Is(err, boom) {
		t.Fatalf("Expected the page-fetch error, got %v", err)
	}
	if _, ok, _ := p.Next(ctx); ok {
		t.Error("Expected sequence to stay closed")
	}
}

func TestPaginatorComposedWithRetry(t *testing.T) {
	// Each page fetch fails transiently once before succeeding.
	pages := threePages()
	attempts := map[string]int{}
	var sends int
	var req pagedFunc[Page[string]] = func(token *string) Response[Page[string]] {
		sends++
		key := ""
		idx := 0
		if token != nil {
			key = *token
			switch *token {
			case "t1":
				idx = 1
			case "t2":
				idx = 2
			}
		}
		attempts[key]++
		if attempts[key] == 1 {
			return Fail[Page[string]](errors.New("transient"))
		}
		return Resolve(pages[idx])
	}

	p := Paginate[Page[string]](RetryPaged[Page[string]](req,
		WithBackoffPolicy(&ConstantPolicy{Interval: time.Millisecond}),
	))

	got, err := p.Collect(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(got))
	}
	for i, want := range []string{"P1", "P2", "P3"} {
		if got[i].Value != want {
			t.Errorf("Page %d = %q, want %q", i, got[i].Value, want)
		}
	}
	if sends != 6 {
		t.Errorf("Expected one extra send per page (6 total), got %d", sends)
	}
}

func TestPaginatorPagesIterator(t *testing.T) {
	stub := &pagedStub{pages: threePages()}
	p := Paginate[Page[string]](stub)

	var got []string
	for page, err := range p.Pages(context.Background()) {
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		got = append(got, page.Value)
	}
	if len(got) != 3 || got[0] != "P1" || got[2] != "P3" {
		t.Errorf("Unexpected pages: %v", got)
	}
}

func TestPaginatorPagesIteratorStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	stub := &pagedStub{
		pages:    threePages(),
		failures: map[int]error{3: boom},
	}
	p := Paginate[Page[string]](stub)

	var values []string
	var last error
	for page, err := range p.Pages(context.Background()) {
		if err != nil {
			last = err
			continue
		}
		values = append(values, page.Value)
	}
	if len(values) != 2 {
		t.Errorf("Expected 2 pages before the failure, got %v", values)
	}
	if !errors.Is(last, boom) {
		t.Errorf("Expected the failure to be yielded, got %v", last)
	}
}

func TestPaginatorCollectPartialOnError(t *testing.T) {
	boom := errors.New("boom")
	stub := &pagedStub{
		pages:    threePages(),
		failures: map[int]error{2: boom},
	}
	got, err := Paginate[Page[string]](stub).Collect(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the failure, got %v", err)
	}
	if len(got) != 1 || got[0].Value != "P1" {
		t.Errorf("Expected the already-fetched page to survive, got %v", got)
	}
}

func strPtr(s string) *string { return &s }
