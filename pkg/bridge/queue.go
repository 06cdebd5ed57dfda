package bridge

import "sync"

// fifo is an unbounded thread-safe FIFO. The bridge needs unbounded
// buffering on the request side: the GUI thread must never block putting
// or draining, and submitters must never block enqueueing.
type fifo[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []T
}

func newFIFO[T any]() *fifo[T] {
	q := &fifo[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// put appends v and wakes any blocked getter.
func (q *fifo[T]) put(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// get blocks until an item is available.
func (q *fifo[T]) get() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.cond.Wait()
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v
}

// tryGet pops the head without blocking.
func (q *fifo[T]) tryGet() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

// size returns the current queue depth.
func (q *fifo[T]) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// ticketQueue is the response side of the bridge: values are delivered to
// waiters strictly in ticket order, so the N-th submitter always receives
// the N-th result even when many callers block concurrently.
type ticketQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []any
	next    int // next ticket to hand out
	serving int // ticket allowed to take the head
}

func newTicketQueue() *ticketQueue {
	q := &ticketQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// ticket reserves the next delivery slot.
func (q *ticketQueue) ticket() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	t := q.next
	q.next++
	return t
}

// put appends a result value.
func (q *ticketQueue) put(v any) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// take blocks until the holder of ticket t may take the head value.
func (q *ticketQueue) take(t int) any {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.serving != t || len(q.items) == 0 {
		q.cond.Wait()
	}
	v := q.items[0]
	q.items = q.items[1:]
	q.serving++
	q.cond.Broadcast()
	return v
}
