package exec

import (
	"context"
	"sync"
	"testing"
)

func TestSubmitRunsEveryConcurrentSubmission(t *testing.T) {
	e := New(0)
	defer e.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Submit(func(ctx context.Context) (interface{}, error) {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return i, nil
			})
			if err != nil {
				t.Errorf("submit %d: %v", i, err)
			}
		}()
	}
	wg.Wait()

	if len(order) != 5 {
		t.Fatalf("expected 5 jobs to run, got %d", len(order))
	}
}

func TestOnWorkerDistinguishesExecutors(t *testing.T) {
	e1 := New(0)
	e2 := New(0)
	defer e1.Close()
	defer e2.Close()

	v, _ := e1.Submit(func(ctx context.Context) (interface{}, error) {
		return e1.OnWorker(ctx) && !e2.OnWorker(ctx), nil
	})
	if v != true {
		t.Errorf("expected e1.OnWorker true and e2.OnWorker false inside e1's task, got %v", v)
	}
}

func TestSubmitOrInlineAvoidsDeadlock(t *testing.T) {
	e := New(0)
	defer e.Close()

	v, err := e.Submit(func(ctx context.Context) (interface{}, error) {
		return e.SubmitOrInline(ctx, func(ctx context.Context) (interface{}, error) {
			return "nested", nil
		})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "nested" {
		t.Errorf("got %v", v)
	}
}

func TestSubmitPropagatesError(t *testing.T) {
	e := New(0)
	defer e.Close()

	_, err := e.Submit(func(ctx context.Context) (interface{}, error) {
		return nil, context.DeadlineExceeded
	})
	if err != context.DeadlineExceeded {
		t.Errorf("expected propagated error, got %v", err)
	}
}
