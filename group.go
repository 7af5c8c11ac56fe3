package cobb

import (
	"sync"

	_ "go.uber.org/automaxprocs" // ensure GOMAXPROCS reflects container CPU quota: more real cores visible to the runtime means more genuine interleavings per wall-clock second.
	"golang.org/x/sync/errgroup"
)

// RunTest runs cfg: if cfg.Groups <= 1 (or a slow-checker environment is
// configured, see TestConfig and COBB_SLOW_CHECKER), it runs a single
// driver inline. Otherwise it spawns cfg.Groups independent drivers
// concurrently, each with its own copy of cfg and a distinct group index,
// and aggregates their failures.
//
// RunTest panics if any worker, or any group, fails: it logs every failure
// it sees before re-raising the last one. A fatal precondition violation
// (e.g. a nil TestConfig.Setup, or a malformed COBB_REPRIORITIZE) panics
// immediately, before any goroutine is spawned.
func RunTest[T any](cfg TestConfig[T]) {
	cfg = cfg.withDefaults()

	if cfg.Groups <= 1 || slowChecker() {
		newDriver(cfg, 0).run()
		return
	}

	var eg errgroup.Group
	var (
		failMu sync.Mutex
		failed []groupPanic
	)

	for g := 0; g < cfg.Groups; g++ {
		groupIndex := g
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					failMu.Lock()
					failed = append(failed, groupPanic{groupIndex: groupIndex, value: r})
					failMu.Unlock()
				}
			}()
			newDriver(cfg, groupIndex).run()
			return nil
		})
	}

	// errgroup.Group.Wait only ever returns nil here: every Go func
	// recovers its own panic instead of returning an error, so failures are
	// reported (and re-raised) via the failed slice below.
	_ = eg.Wait()

	if len(failed) != 0 {
		groupIndexes := make([]int, len(failed))
		for i, f := range failed {
			groupIndexes[i] = f.groupIndex
			logGroupFailure(cfg.Name, f.groupIndex, f.value)
		}
		logGroupFailureSummary(cfg.Name, len(failed), groupIndexes)
		panic(failed[len(failed)-1].value)
	}
}

// groupPanic captures a group driver's panic payload for reporting once
// every sibling group has joined.
type groupPanic struct {
	groupIndex int
	value      any
}
