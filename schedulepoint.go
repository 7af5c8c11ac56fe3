package cobb

import (
	"runtime"
	"sync/atomic"
	"time"
)

// sinkValue absorbs writes from the busy-spin buckets below, so the compiler
// can't prove the loop bodies are dead and eliminate them.
var sinkValue atomic.Uint64

// schedulePoint performs one randomized scheduling perturbation, selected by
// r from a fixed distribution over a byte. It is the mechanism behind
// TestContext.Sp: diverse perturbations (sleeps, yields, spins, timing
// noise) expose both cache-coherence and scheduler-ordering bugs that a
// single fixed strategy would miss.
func schedulePoint(r uint8) {
	switch {
	case r <= 10:
		time.Sleep(0) // zero-duration sleep still forces a scheduler entry
	case r <= 15:
		time.Sleep(time.Millisecond)
	case r <= 75:
		runtime.Gosched()
	case r <= 125:
		for i := 0; i < 50; i++ {
			sinkValue.Store(uint64(i))
		}
	case r >= 225:
		for i := 0; i < 6; i++ {
			runtime.Gosched()
		}
	default:
		for i := 0; i < int(r); i++ {
			sinkValue.Store(uint64(i))
			_ = sinkValue.Load()
		}
	}
}
