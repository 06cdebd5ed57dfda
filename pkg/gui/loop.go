// Package gui provides the event loop that stands in for the host
// application's GUI main loop. All document and view mutation must happen
// on this loop; other goroutines hand work over with Post or schedule it
// with SingleShot, the same way addon code uses the toolkit's single-shot
// timers.
package gui

import (
	"runtime"
	"sync"
	"time"
)

// Loop is a single-consumer event loop. Run pins itself to an OS thread,
// matching the thread-affinity rules of real GUI toolkits.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop. Call Run on the goroutine that should own it.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 128),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Run executes posted callbacks on the calling goroutine until Quit. It
// is the GUI thread: everything it runs may touch document state freely.
func (l *Loop) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.quit:
			// Drain anything already queued before exiting.
			for {
				select {
				case fn := <-l.tasks:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Post schedules fn to run on the loop thread. Posting to a stopped loop
// drops fn.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
	case l.tasks <- fn:
	}
}

// SingleShot arms a one-shot timer: after d, fn is posted to the loop.
// There is no persistent ticker; re-arming is the caller's job, which
// keeps a slow callback from stacking up invocations.
func (l *Loop) SingleShot(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Post(fn) })
}

// Quit asks the loop to exit once pending tasks have drained.
func (l *Loop) Quit() {
	l.once.Do(func() { close(l.quit) })
}

// Wait blocks until the loop has exited.
func (l *Loop) Wait() {
	<-l.done
}
