package adventure

import (
	"context"
	"errors"
	"testing"
)

func TestOnceAllowsSingleSend(t *testing.T) {
	calls := 0
	req := Once[int](RequestFunc[int](func() Response[int] {
		calls++
		return Resolve(calls)
	}))

	v, err := req.SendOnce().Wait(context.Background())
	if err != nil || v != 1 {
		t.Fatalf("First SendOnce = (%d, %v), want (1, nil)", v, err)
	}

	_, err = req.SendOnce().Wait(context.Background())
	if !errors.Is(err, ErrRequestConsumed) {
		t.Fatalf("Expected ErrRequestConsumed, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected the underlying request to be sent once, got %d", calls)
	}
}

func TestPageContract(t *testing.T) {
	more := Page[string]{Value: "v", More: true, Token: "next"}
	if !more.HasMore() || more.NextToken() != "next" {
		t.Errorf("Unexpected continuation: HasMore=%v NextToken=%q", more.HasMore(), more.NextToken())
	}

	last := Page[string]{Value: "v"}
	if last.HasMore() {
		t.Error("Expected the zero continuation to report exhaustion")
	}
}
