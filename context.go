package cobb

// TestContext is handed to Test on every invocation. It's per-worker and
// iteration-scoped: ThreadIndex is stable for the life of the worker,
// SubIteration advances within one worker's portion of one iteration, and
// each worker owns its own PRNG (not shared, not safe to use from Test
// concurrently with itself - which is fine, since a given TestContext is
// only ever handed to one goroutine at a time).
type TestContext struct {
	threadIndex int
	subIter     int
	rng         *rng
}

// ThreadIndex is this worker's index, in [0, TestConfig.Threads).
func (c *TestContext) ThreadIndex() int { return c.threadIndex }

// SubIteration is which sub-iteration this is, in [0, TestConfig.SubIterations).
func (c *TestContext) SubIteration() int { return c.subIter }

// Sp hints that, were this goroutine to be preempted right here, it might
// help expose a bug. It performs one randomly-selected scheduling
// perturbation - a sleep, a yield, a busy spin, or timing noise - drawn from
// a fixed distribution. Calling it, or not, never changes how many times
// Test gets invoked; it only ever perturbs when those invocations happen
// relative to other workers.
func (c *TestContext) Sp() {
	schedulePoint(uint8(c.rng.gen() >> 24))
}
