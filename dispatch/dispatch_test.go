package dispatch

import (
	"context"
	"errors"
	"testing"
)

func TestQueueDefersContinuations(t *testing.T) {
	q := NewQueue(context.Background())
	boom := errors.New("boom")

	var got []error
	q.Go(func(ctx context.Context) error { return nil }, func(err error) { got = append(got, err) })
	q.Go(func(ctx context.Context) error { return boom }, func(err error) { got = append(got, err) })
	q.Go(func(ctx context.Context) error { return nil }, nil)
	q.Wait()

	if len(got) != 0 {
		t.Fatalf("continuations ran before Drain")
	}
	if n := q.Drain(); n != 2 {
		t.Fatalf("Drain ran %d continuations, want 2", n)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	var sawBoom bool
	for _, err := range got {
		if errors.Is(err, boom) {
			sawBoom = true
		}
	}
	if !sawBoom {
		t.Fatalf("error not delivered: %v", got)
	}
	if q.Drain() != 0 {
		t.Fatalf("second Drain should be empty")
	}
}

func TestInlineRunsSynchronously(t *testing.T) {
	var order []string
	Inline{}.Go(func(ctx context.Context) error {
		order = append(order, "work")
		return nil
	}, func(err error) {
		order = append(order, "done")
	})
	if len(order) != 2 || order[0] != "work" || order[1] != "done" {
		t.Fatalf("unexpected order %v", order)
	}
}
