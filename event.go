package cobb

import "sync"

// event is a one-shot, edge-triggered binary rendezvous between exactly one
// notifier and one waiter. It has two states, armed and fired: notify moves
// it armed -> fired and wakes the waiter; wait consumes a fired -> armed
// transition, blocking until one is available.
//
// A second notify prior to a wait is absorbed (idempotent); a wait always
// consumes exactly one notify. Concurrent waiters are not supported - cobb
// only ever has one waiter per event, the worker it's assigned to.
type event struct {
	mu    sync.Mutex
	cond  *sync.Cond
	fired bool
}

func newEvent() *event {
	e := &event{}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// notify sets the latch, waking the waiter if one is blocked. Non-blocking.
func (e *event) notify() {
	e.mu.Lock()
	e.fired = true
	e.mu.Unlock()
	e.cond.Signal()
}

// wait blocks until the latch is set, then clears it. If the latch is
// already set, it clears it and returns immediately.
func (e *event) wait() {
	e.mu.Lock()
	for !e.fired {
		e.cond.Wait()
	}
	e.fired = false
	e.mu.Unlock()
}
