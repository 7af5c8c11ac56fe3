package cobb_test

import (
	"sync"
	"sync/atomic"
)

// correctMutex is a plain, correctly-synchronized mutex: every RunTest
// driven against it should complete cleanly, regardless of iteration count.
type correctMutex struct {
	mu  sync.Mutex
	val int
}

func (m *correctMutex) lock() func() {
	m.mu.Lock()
	return m.mu.Unlock
}

// buggyMutex is a spinlock that acquires via a real atomic
// compare-and-swap, but releases via a plain, non-atomic write - ported
// from cobb's own "mutex.rs" example of the bug class this harness exists
// to catch. The lock word is never touched outside lock/unlock, so this
// compiles and often "works" in casual testing; it's still a genuine data
// race (the release never synchronizes-with the next CAS), which is
// exactly what RunTest is for.
type buggyMutex struct {
	locked uint32 // CAS'd to acquire, plain-written to release - the bug
	val    int
}

func (m *buggyMutex) lock() func() {
	for !atomic.CompareAndSwapUint32(&m.locked, 0, 1) {
		// busy-wait; a real implementation would yield or park.
	}
	return func() {
		// the bug: a plain store, not atomic.StoreUint32 - deliberately
		// unsound, and exists only to be caught by the harness, never to be
		// copied into real code.
		m.locked = 0
	}
}

// buggyStackCapacity bounds buggyStack's backing array. 16 workers ever push
// at most one outstanding value apiece in the harness's own test (see
// group_test.go), so this leaves a generous margin.
const buggyStackCapacity = 64

// buggyStack is a fixed-capacity stack whose slots are claimed with a real
// atomic compare-and-swap on top, but published with a plain, non-atomic
// write *after* the claim - ported from cobb's "stack.rs" example, whose
// Rust original publishes a pushed value with a relaxed (non-synchronizing)
// store. Go's atomic.Pointer/atomic.Int64 are always sequentially
// consistent (see sync/atomic's docs), so a linked Treiber stack built
// entirely out of them has no way to reproduce that hazard: every write
// that precedes a successful CompareAndSwap in program order is already
// guaranteed visible to whoever observes it. Moving the payload write to
// *after* the index claim, instead of before it, reopens the same hole: a
// concurrent popper can claim and read a slot whose value hasn't been
// written yet, or read while it's mid-write - a genuine, racedetector-
// visible data race on s.data, same bug class as buggyMutex's plain unlock.
type buggyStack struct {
	top  atomic.Int64
	data [buggyStackCapacity]int
}

func (s *buggyStack) push(data int) {
	for {
		top := s.top.Load()
		if top >= buggyStackCapacity {
			continue // full; spin rather than silently drop the push
		}
		if s.top.CompareAndSwap(top, top+1) {
			// the bug: this write should happen before the slot is
			// claimed (or the claim itself should be a release store),
			// not after - a concurrent pop can observe the claim and
			// read s.data[top] before or while this write lands.
			s.data[top] = data
			return
		}
	}
}

func (s *buggyStack) pop() (int, bool) {
	for {
		top := s.top.Load()
		if top == 0 {
			return 0, false
		}
		if s.top.CompareAndSwap(top, top-1) {
			return s.data[top-1], true
		}
	}
}
