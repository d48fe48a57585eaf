package ai

import (
	"context"
	"errors"
	"testing"
)

type scriptedClient struct {
	out   string
	err   error
	calls int
}

func (s *scriptedClient) Complete(context.Context, string, string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestFallbackClientUsesNextProvider(t *testing.T) {
	primary := &scriptedClient{err: errors.New("rate limited")}
	secondary := &scriptedClient{out: "[]"}

	client := NewFallbackClient().Add("primary", primary).Add("unset", nil).Add("secondary", secondary)

	out, err := client.Complete(context.Background(), "s", "p")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "[]" || primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("unexpected result %q (calls %d/%d)", out, primary.calls, secondary.calls)
	}
}

func TestFallbackClientReportsAllFailures(t *testing.T) {
	boom := errors.New("boom")
	client := NewFallbackClient().Add("only", &scriptedClient{err: boom})

	_, err := client.Complete(context.Background(), "s", "p")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}

	if _, err := NewFallbackClient().Complete(context.Background(), "s", "p"); err == nil {
		t.Fatal("expected error with no providers")
	}
}
