// Package bridge marshals work from RPC goroutines onto the GUI thread.
//
// The host application's document and view APIs may only be called on the
// GUI thread, while the RPC endpoint serves callers on its own goroutine.
// The bridge is a request/response queue pair: submitters enqueue a task
// and block; a periodically re-armed drain tick on the GUI loop executes
// pending tasks in FIFO order and pushes each non-nil result back.
package bridge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/parcad/parcad/pkg/console"
	"github.com/parcad/parcad/pkg/gui"
)

// DefaultInterval is the drain tick period.
const DefaultInterval = 500 * time.Millisecond

// Task is a unit of work executed once on the GUI thread. A task that
// returns nil produces no response-queue entry (fire-and-forget); every
// task submitted via SubmitAndWait must return a non-nil value or its
// caller blocks forever. Tasks encode their own failures as string
// results instead of panicking.
type Task func() any

// Bridge is the queue pair plus the drain tick.
type Bridge struct {
	loop     *gui.Loop
	con      *console.Console
	interval time.Duration

	requests  *fifo[Task]
	responses *ticketQueue

	submitMu sync.Mutex
	running  atomic.Bool
}

// Option customizes a Bridge.
type Option func(*Bridge)

// WithInterval overrides the drain tick period.
func WithInterval(d time.Duration) Option {
	return func(b *Bridge) { b.interval = d }
}

// WithConsole routes bridge diagnostics to con.
func WithConsole(con *console.Console) Option {
	return func(b *Bridge) { b.con = con }
}

// New creates a bridge bound to the given GUI loop.
func New(loop *gui.Loop, opts ...Option) *Bridge {
	b := &Bridge{
		loop:      loop,
		con:       console.Default(),
		interval:  DefaultInterval,
		requests:  newFIFO[Task](),
		responses: newTicketQueue(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start arms the first drain tick. Idempotent.
func (b *Bridge) Start() {
	if b.running.CompareAndSwap(false, true) {
		b.loop.SingleShot(b.interval, b.drain)
	}
}

// Stop prevents further ticks from being armed. Tasks already queued stay
// queued; callers blocked in SubmitAndWait stay blocked, matching the
// contract that a GUI loop that never ticks again deadlocks its clients.
func (b *Bridge) Stop() {
	b.running.Store(false)
}

// SubmitAndWait enqueues task and blocks until the GUI thread has
// executed it, returning the task's result. Results are delivered in
// submission order across all concurrent callers.
func (b *Bridge) SubmitAndWait(task Task) any {
	// Ticket allocation and enqueue must be atomic so the response
	// delivery order matches the request order.
	b.submitMu.Lock()
	ticket := b.responses.ticket()
	b.requests.put(task)
	b.submitMu.Unlock()
	return b.responses.take(ticket)
}

// Submit enqueues a fire-and-forget task. The task must return nil.
func (b *Bridge) Submit(task Task) {
	b.requests.put(task)
}

// Pending returns the request queue depth. Diagnostic only.
func (b *Bridge) Pending() int {
	return b.requests.size()
}

// drain runs on the GUI thread: it processes the request queue to
// exhaustion, then re-arms itself.
func (b *Bridge) drain() {
	for {
		task, ok := b.requests.tryGet()
		if !ok {
			break
		}
		if result := b.runTask(task); result != nil {
			b.responses.put(result)
		}
	}
	if b.running.Load() {
		b.loop.SingleShot(b.interval, b.drain)
	}
}

// DrainOnce processes the queue a single time on the calling goroutine.
// Tests drive the bridge with this instead of waiting for timer ticks.
func (b *Bridge) DrainOnce() {
	b.drain()
}

// runTask shields the GUI loop from a panicking task. A recovered panic
// is a defect in the submitting code; the task's result is lost, so a
// SubmitAndWait caller for that task will hang. The alternative would
// take down the whole host GUI.
func (b *Bridge) runTask(task Task) (result any) {
	defer func() {
		if r := recover(); r != nil {
			b.con.Error("panic in GUI task: %v", r)
			result = nil
		}
	}()
	return task()
}
