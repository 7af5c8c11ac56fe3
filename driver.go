package cobb

import (
	"sync"
	"sync/atomic"
)

// reprioritizeEvery is how often (in iterations) the driver reassigns
// worker priority bits, when TestConfig.Reprioritize is set. A tuning
// constant derived empirically by the original implementation; changing it
// is safe but should be noted wherever it matters to a test's timing
// assumptions.
const reprioritizeEvery = 200

// workerPanic captures a worker's panic payload for reporting once every
// sibling has joined.
type workerPanic struct {
	threadIndex int
	value       any
}

// driver is the controller half of one group: it owns the shared state, the
// before/after event pairs, and the priority bits for threads workers, and
// drives them through cfg.Iterations iterations in lock-step, perturbing
// the schedule between iterations.
type driver[T any] struct {
	cfg        TestConfig[T]
	groupIndex int
	iterations int
	threads    int

	stateMu sync.RWMutex
	state   *cachePad[T]

	before  []*event
	after   []*event
	priHigh []*atomic.Bool
	order   []int
	rng     *rng

	verbose bool
}

func newDriver[T any](cfg TestConfig[T], groupIndex int) *driver[T] {
	iterations := cfg.Iterations
	if slowChecker() && iterations < 100 {
		iterations = 100
	}
	threads := cfg.Threads

	d := &driver[T]{
		cfg:        cfg,
		groupIndex: groupIndex,
		iterations: iterations,
		threads:    threads,
		state:      newCachePad(cfg.Setup()),
		before:     make([]*event, threads),
		after:      make([]*event, threads),
		priHigh:    make([]*atomic.Bool, threads),
		order:      make([]int, threads),
		rng:        newRng(),
		verbose:    verbose() && groupIndex == 0,
	}
	for i := 0; i < threads; i++ {
		d.before[i] = newEvent()
		d.after[i] = newEvent()
		d.priHigh[i] = &atomic.Bool{}
		d.priHigh[i].Store(true)
		d.order[i] = i
	}
	return d
}

// run executes the driver's full lifecycle: spawn workers, iterate, drain,
// and teardown. It panics if any worker panicked (after logging every
// failure), or if a user hook panics directly.
func (d *driver[T]) run() {
	var wg sync.WaitGroup
	wg.Add(d.threads)

	var (
		failMu sync.Mutex
		failed []workerPanic
	)

	for i := 0; i < d.threads; i++ {
		w := &worker[T]{
			index:         i,
			iterations:    d.iterations,
			subIterations: d.cfg.SubIterations,
			test:          d.cfg.Test,
			state:         d.state,
			stateMu:       &d.stateMu,
			before:        d.before[i],
			after:         d.after[i],
			priHigh:       d.priHigh[i],
		}
		go func(w *worker[T]) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failMu.Lock()
					failed = append(failed, workerPanic{threadIndex: w.index, value: r})
					failMu.Unlock()
				}
			}()
			w.run()
		}(w)
	}

	d.logPhase(-1, "spawned workers")

	for rep := 0; rep < d.iterations; rep++ {
		d.logPhase(rep, "iteration start")

		if d.cfg.Reprioritize != nil && rep != 0 && rep%reprioritizeEvery == 0 {
			d.logPhase(rep, "reprioritize")
			reprioritize(d.priHigh, d.order, *d.cfg.Reprioritize, d.rng)
		}

		shuffle(d.rng, d.order)

		d.logPhase(rep, "before_each")
		d.runUnderReadLock(d.cfg.BeforeEach)

		d.logPhase(rep, "running threads")
		for i := 0; i < d.threads; i++ {
			// one at a time, not in parallel: spreading worker wake-ups
			// across time scrambles instruction interleavings more than a
			// simultaneous release would.
			d.before[d.order[i]].notify()
		}
		for i := 0; i < d.threads; i++ {
			d.after[d.order[i]].wait()
		}

		d.logPhase(rep, "after_each")
		d.runUnderReadLock(d.cfg.AfterEach)
	}

	// last kick: release any worker still blocked on its before-event,
	// waiting for an iteration that will never come.
	for i := 0; i < d.threads; i++ {
		d.before[d.order[i]].notify()
	}

	wg.Wait()

	if len(failed) != 0 {
		for _, f := range failed {
			logWorkerFailure(d.cfg.Name, d.groupIndex, f.threadIndex, f.value)
		}
		logWorkerFailureSummary(d.cfg.Name, d.groupIndex, len(failed))
		// teardown is intentionally skipped here: a fatal failure aborts
		// cleanup rather than risk running it against state a buggy Test
		// may have left in an inconsistent state.
		panic(failed[len(failed)-1].value)
	}

	d.cfg.Teardown(&d.state.value)
}

// reprioritize assigns priHigh[order[i]] = (i < p), where p is the pivot
// count mode.pivot picks for the current threads count: the first p workers
// in the current shuffle order are marked high priority, the rest low.
func reprioritize(priHigh []*atomic.Bool, order []int, mode PrioritizeMode, r *rng) {
	p := mode.pivot(r, len(order))
	for i := range order {
		priHigh[order[i]].Store(i < p)
	}
}

// runUnderReadLock runs hook against the shared state while holding the
// read side of stateMu, releasing it even if hook panics. Read (rather than
// write) access is sufficient here: no worker can be touching the state at
// either call site, since before BeforeEach none has been notified of the
// current iteration yet, and before AfterEach every worker has already
// released its read lock and signalled completion.
func (d *driver[T]) runUnderReadLock(hook func(*T)) {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()
	hook(&d.state.value)
}

func (d *driver[T]) logPhase(rep int, phase string) {
	if !d.verbose {
		return
	}
	logPhaseMarker(d.cfg.Name, d.groupIndex, rep, d.iterations, phase)
}

