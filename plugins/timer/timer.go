// Command timer is the bundled example plugin of spec.md §4.H: it
// schedules parsed pipelines to run repeatedly at integer-second
// intervals. Built with `go build -buildmode=plugin` it produces a
// .so exporting LumiDBPlugin, the symbol pkg/plugin's host looks up.
package main

import (
	"container/heap"
	"fmt"
	"sync"
	"time"

	"github.com/brody715/lumidb/pkg/function"
	lumiplugin "github.com/brody715/lumidb/pkg/plugin"
	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// scheduledTask is one entry in the manager's min-heap, ordered by
// deadline. cancelled tasks are left in the heap and skipped when
// popped (lazy deletion), since removing an arbitrary heap element by
// id would need an index map for no real benefit at this scale.
type scheduledTask struct {
	id        string
	deadline  time.Time
	interval  time.Duration
	query     string
	cancelled bool
}

type taskHeap []*scheduledTask

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h taskHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x interface{}) { *h = append(*h, x.(*scheduledTask)) }
func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TimerManager owns a background ticker goroutine that pops due tasks
// off a min-heap of deadlines and re-executes their pipeline, per
// spec.md §4.H's bundled-plugin example.
type TimerManager struct {
	mu      sync.Mutex
	heap    taskHeap
	tasks   map[string]*scheduledTask
	nextID  int64
	execute func(query string) error
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func newTimerManager(execute func(query string) error) *TimerManager {
	return &TimerManager{
		tasks:   make(map[string]*scheduledTask),
		execute: execute,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (m *TimerManager) start() {
	m.running = true
	go m.loop()
}

// stopAndJoin sets the running flag false and joins within one tick, as
// spec.md §5 requires of plugin background threads on drop.
func (m *TimerManager) stopAndJoin() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	close(m.stop)
	<-m.done
}

func (m *TimerManager) loop() {
	defer close(m.done)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.runDue(now)
		}
	}
}

func (m *TimerManager) runDue(now time.Time) {
	for {
		m.mu.Lock()
		if m.heap.Len() == 0 {
			m.mu.Unlock()
			return
		}
		next := m.heap[0]
		if next.deadline.After(now) {
			m.mu.Unlock()
			return
		}
		heap.Pop(&m.heap)
		if next.cancelled {
			delete(m.tasks, next.id)
			m.mu.Unlock()
			continue
		}
		next.deadline = now.Add(next.interval)
		heap.Push(&m.heap, next)
		query := next.query
		m.mu.Unlock()

		if err := m.execute(query); err != nil {
			fmt.Printf("timer: scheduled query %q failed: %v\n", query, err)
		}
	}
}

func (m *TimerManager) schedule(seconds float64, query string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("timer-%d", m.nextID)
	interval := time.Duration(seconds) * time.Second
	t := &scheduledTask{id: id, deadline: time.Now().Add(interval), interval: interval, query: query}
	m.tasks[id] = t
	heap.Push(&m.heap, t)
	return id
}

func (m *TimerManager) cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("timer %q does not exist", id)
	}
	t.cancelled = true
	delete(m.tasks, id)
	return nil
}

var manager *TimerManager

func everyFunction() *function.Function {
	return &function.Function{
		Name:        "every",
		Signature:   function.Fixed(value.TypeFloat, value.TypeString),
		CanRoot:     true,
		Description: "schedule a pipeline to run repeatedly every N seconds",
		ExecuteRoot: func(ctx *function.RootExecContext) error {
			seconds := float64(ctx.Args[0].Float())
			if seconds < 1 {
				return fmt.Errorf("every requires an interval of at least 1 second")
			}
			id := manager.schedule(seconds, ctx.Args[1].Str())
			schema, _ := table.NewSchema([]table.Field{{Name: "id", Type: value.TypeString}})
			t := table.New("every", schema)
			_ = t.AddRow(table.Row{value.FromString(id)})
			ctx.Baton = t
			return nil
		},
		FinalizeRoot: func(ctx *function.FinalizeContext) error {
			ctx.Result = ctx.Baton.(*table.Table)
			return nil
		},
	}
}

func cancelTimerFunction() *function.Function {
	return &function.Function{
		Name:        "cancel_timer",
		Signature:   function.Fixed(value.TypeString),
		CanRoot:     true,
		Description: "cancel a previously scheduled timer by id",
		ExecuteRoot: func(ctx *function.RootExecContext) error {
			if err := manager.cancel(ctx.Args[0].Str()); err != nil {
				return err
			}
			schema, _ := table.NewSchema([]table.Field{{Name: "cancelled", Type: value.TypeString}})
			t := table.New("cancel_timer", schema)
			_ = t.AddRow(table.Row{ctx.Args[0]})
			ctx.Baton = t
			return nil
		},
		FinalizeRoot: func(ctx *function.FinalizeContext) error {
			ctx.Result = ctx.Baton.(*table.Table)
			return nil
		},
	}
}

// LumiDBPlugin is the ABI symbol the host resolves via plugin.Lookup.
var LumiDBPlugin = lumiplugin.Def{
	Name:        "timer",
	Version:     "1.0.0",
	Description: "schedule pipelines to run on a recurring timer",
	OnLoad: func(ctx *lumiplugin.Context) error {
		execute, ok := ctx.UserData.(func(string) error)
		if !ok {
			return fmt.Errorf("timer plugin requires a query-execution hook in ctx.UserData")
		}
		manager = newTimerManager(execute)
		manager.start()
		return ctx.Catalog.RegisterFunctionList([]*function.Function{everyFunction(), cancelTimerFunction()})
	},
	OnUnload: func(ctx *lumiplugin.Context) error {
		manager.stopAndJoin()
		return ctx.Catalog.UnregisterFunctionList([]string{"every", "cancel_timer"})
	},
}
