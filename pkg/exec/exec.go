// Package exec implements the single-worker task queue spec.md §5
// requires: all pipeline executions run one at a time on a dedicated
// goroutine, so two REPL/plugin callers racing to mutate the catalog or
// a table can never interleave. No repo in the retrieval pack ships a
// generic worker-pool library for this shape, so it is hand-rolled with
// plain channels, the idiomatic Go approach.
package exec

import (
	"context"
	"fmt"
)

// Task is the work a caller submits: fn receives a context that is
// tagged with this executor's worker identity while it runs, so a
// built-in that needs to issue a nested query can tell whether it is
// already on the worker (and must run inline) or calling in from
// outside (and should Submit normally).
type Task func(ctx context.Context) (interface{}, error)

type job struct {
	fn   Task
	done chan result
}

type result struct {
	value interface{}
	err   error
}

// Executor owns a single worker goroutine draining a FIFO queue of
// jobs. Submit from any goroutine; the worker runs jobs strictly in
// arrival order, so no two jobs from this executor ever run concurrently.
type Executor struct {
	queue chan job
	token *int // unique per Executor; used as an unexported context key
	stop  chan struct{}
}

// New starts an Executor with the given queue depth (0 means
// unbuffered — Submit blocks until the worker is free).
func New(queueDepth int) *Executor {
	e := &Executor{
		queue: make(chan job, queueDepth),
		token: new(int),
		stop:  make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *Executor) run() {
	ctx := context.WithValue(context.Background(), e.token, true)
	for {
		select {
		case j := <-e.queue:
			v, err := j.fn(ctx)
			j.done <- result{value: v, err: err}
		case <-e.stop:
			return
		}
	}
}

// OnWorker reports whether ctx was produced inside this executor's
// worker loop — the reentrancy check a built-in must use before trying
// to Submit again on the same executor, since Go has no portable
// "current thread id"; a context value set only inside run() is the
// idiomatic substitute.
func (e *Executor) OnWorker(ctx context.Context) bool {
	v, _ := ctx.Value(e.token).(bool)
	return v
}

// Submit enqueues fn and blocks until it has run, returning its result.
// Submitting from inside a Task already running on e's own worker
// deadlocks the single worker; callers in that position must check
// OnWorker first and run the work inline instead.
func (e *Executor) Submit(fn Task) (interface{}, error) {
	j := job{fn: fn, done: make(chan result, 1)}
	e.queue <- j
	r := <-j.done
	return r.value, r.err
}

// SubmitOrInline is Submit, except when ctx indicates the caller is
// already on this executor's worker — then fn runs inline instead of
// being enqueued, avoiding the self-deadlock a recursive built-in (for
// example a plugin callback that itself issues a query) would otherwise
// cause.
func (e *Executor) SubmitOrInline(ctx context.Context, fn Task) (interface{}, error) {
	if e.OnWorker(ctx) {
		return fn(ctx)
	}
	return e.Submit(fn)
}

// Close stops the worker goroutine. It does not wait for in-flight or
// still-queued jobs to finish; callers should stop submitting first.
func (e *Executor) Close() error {
	select {
	case <-e.stop:
		return fmt.Errorf("executor already closed")
	default:
		close(e.stop)
		return nil
	}
}
