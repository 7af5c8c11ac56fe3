package cobb

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// worker runs one driver's per-thread iteration loop: wait for the driver's
// go-ahead, take a shared read lock on the state, run Test for each
// sub-iteration, release, signal completion, then loop. It owns exactly one
// before/after event pair, and one atomic priority bit, for its entire
// lifetime - both are set up once by the driver and never touched by any
// other worker.
type worker[T any] struct {
	index         int
	iterations    int
	subIterations int
	test          func(*T, *TestContext)
	state         *cachePad[T]
	stateMu       *sync.RWMutex
	before        *event
	after         *event
	priHigh       *atomic.Bool
}

// run executes the worker's entire iteration loop. It's meant to be the
// body of its own goroutine. A panic from Test stops further calls to Test
// but not the rendezvous: the worker keeps answering the driver until the
// last iteration, then re-raises the panic out of run, to be recovered and
// re-raised by the driver after every worker has joined.
func (w *worker[T]) run() {
	// Pin to an OS thread so priority changes (see priority_linux.go) stick
	// to this worker specifically, rather than whatever thread the Go
	// runtime happens to schedule this goroutine onto next.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	wantHigh := w.priHigh.Load()
	setOwnPriority(wantHigh)
	curHigh := wantHigh

	tctx := TestContext{threadIndex: w.index, rng: newRng()}

	var (
		panicked bool
		payload  any
	)

	w.before.wait()
	for rep := 0; rep < w.iterations; rep++ {
		if !panicked {
			func() {
				defer func() {
					if r := recover(); r != nil {
						panicked, payload = true, r
					}
				}()
				w.stateMu.RLock()
				defer w.stateMu.RUnlock()
				for sub := 0; sub < max(w.subIterations, 1); sub++ {
					tctx.subIter = sub
					w.test(&w.state.value, &tctx)
				}
			}()
		}

		w.after.notify()

		wantHigh = w.priHigh.Load()
		if wantHigh != curHigh {
			setOwnPriority(wantHigh)
			curHigh = wantHigh
		}

		w.before.wait()
	}

	if panicked {
		panic(payload)
	}
}
