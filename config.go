package cobb

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PrioritizeMode selects how the driver picks the pivot count when
// reprioritizing workers (see TestConfig.Reprioritize).
type PrioritizeMode struct {
	kind  prioritizeKind
	count int
}

type prioritizeKind int

const (
	prioritizeRandom prioritizeKind = iota
	prioritizeMostlyLo
	prioritizeMostlyHi
	prioritizeCount
)

// PrioritizeRandom picks a uniformly random pivot in [1, threads-1) on each
// reprioritization event.
func PrioritizeRandom() PrioritizeMode { return PrioritizeMode{kind: prioritizeRandom} }

// PrioritizeMostlyLo sets all but one worker's priority bit high, leaving
// exactly one worker low.
func PrioritizeMostlyLo() PrioritizeMode { return PrioritizeMode{kind: prioritizeMostlyLo} }

// PrioritizeMostlyHi sets exactly one worker's priority bit high.
func PrioritizeMostlyHi() PrioritizeMode { return PrioritizeMode{kind: prioritizeMostlyHi} }

// PrioritizeCount sets exactly n workers' priority bits high.
func PrioritizeCount(n int) PrioritizeMode { return PrioritizeMode{kind: prioritizeCount, count: n} }

// pivot computes the pivot count p for a reprioritization event: workers
// order[0:p] get the high bit, order[p:] get the low bit.
func (m PrioritizeMode) pivot(r *rng, threads int) int {
	switch m.kind {
	case prioritizeMostlyHi:
		return 1
	case prioritizeMostlyLo:
		return threads - 1
	case prioritizeCount:
		return m.count
	default: // prioritizeRandom
		return between(r, 1, threads-1)
	}
}

// TestConfig describes one stress test: the shared state under test, the
// hooks the driver invokes around it, and the knobs controlling how many
// workers, iterations, and groups to run. T is owned exclusively by the
// driver and workers for the lifetime of RunTest; it must not be retained
// or published by Test beyond the call.
type TestConfig[T any] struct {
	// Threads is the number of worker goroutines per group. Defaults to 4
	// if zero.
	Threads int

	// Iterations is the number of iterations run per group. Defaults to
	// COBB_ITERATIONS, or 1000 if that's unset or invalid.
	Iterations int

	// SubIterations is the number of times Test is invoked per worker, per
	// iteration. Defaults to 1; values less than 1 are treated as 1.
	SubIterations int

	// Groups is the number of independent drivers run concurrently, each
	// with its own state and workers. Defaults to COBB_GROUPS, or 1 if
	// that's unset or invalid.
	Groups int

	// Setup produces a fresh T. Required.
	Setup func() T

	// Teardown runs once, after the last iteration of a successful group.
	// It does not run if the group panics. Optional.
	Teardown func(*T)

	// Test is the function under test. Optional, but a no-op Test makes for
	// a pointless stress test.
	Test func(*T, *TestContext)

	// BeforeEach runs before every iteration, on the driver goroutine, with
	// exclusive access to the state. Optional.
	BeforeEach func(*T)

	// AfterEach runs after every iteration, on the driver goroutine, once
	// all workers have quiesced. Optional.
	AfterEach func(*T)

	// Name identifies this test in goroutine names and diagnostics.
	Name string

	// Reprioritize, if set, periodically reassigns each worker's priority
	// bit to provoke uneven scheduling. Defaults to COBB_REPRIORITIZE
	// (unset by default).
	Reprioritize *PrioritizeMode
}

// withDefaults returns a copy of c with zero-valued fields populated from
// their defaults (falling back to environment variables where the spec
// calls for it), and validates required fields. It panics on a precondition
// violation, matching cobb's "fatal, reported, abort immediately" policy for
// malformed configuration.
func (c TestConfig[T]) withDefaults() TestConfig[T] {
	if c.Setup == nil {
		panic("cobb: TestConfig.Setup is required")
	}
	if c.Threads == 0 {
		c.Threads = 4
	}
	if c.SubIterations < 1 {
		c.SubIterations = 1
	}
	if c.Iterations == 0 {
		c.Iterations = envInt("COBB_ITERATIONS", 1000)
	}
	if c.Groups == 0 {
		c.Groups = envInt("COBB_GROUPS", 1)
	}
	if c.Teardown == nil {
		c.Teardown = func(*T) {}
	}
	if c.BeforeEach == nil {
		c.BeforeEach = func(*T) {}
	}
	if c.AfterEach == nil {
		c.AfterEach = func(*T) {}
	}
	if c.Test == nil {
		c.Test = func(*T, *TestContext) {}
	}
	if c.Name == "" {
		c.Name = "cobb"
	}
	if c.Reprioritize == nil {
		if mode, ok := envReprioritize(); ok {
			c.Reprioritize = &mode
		}
	}
	return c
}

// envInt parses a positive-integer environment variable, falling back to
// def if the variable is unset, empty, "0", or unparseable.
func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" || v == "0" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "cobb: couldn't parse %s=%q, using default %d\n", name, v, def)
		return def
	}
	return n
}

// envReprioritize parses COBB_REPRIORITIZE. An unknown, non-empty value is
// a precondition violation and panics, matching the original's behavior.
func envReprioritize() (PrioritizeMode, bool) {
	v := strings.TrimSpace(os.Getenv("COBB_REPRIORITIZE"))
	switch {
	case v == "" || v == "0":
		return PrioritizeMode{}, false
	case strings.EqualFold(v, "random"):
		return PrioritizeRandom(), true
	case strings.EqualFold(v, "mostly-high"):
		return PrioritizeMostlyHi(), true
	case strings.EqualFold(v, "mostly-low"):
		return PrioritizeMostlyLo(), true
	default:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return PrioritizeCount(n), true
		}
		panic(fmt.Sprintf("cobb: unknown COBB_REPRIORITIZE=%q, must be random|mostly-high|mostly-low|<positive integer>", v))
	}
}

// verbose reports whether COBB_VERBOSE is set to a nonzero/nonempty value.
func verbose() bool {
	v := os.Getenv("COBB_VERBOSE")
	return v != "" && v != "0"
}

// slowChecker reports whether cobb is running under an environment where
// the race/memory checker itself dominates wall time (e.g. under the Go
// race detector with an unusually constrained CI runner), in which case
// iteration counts should be clamped to keep wall time sane. cobb has no
// direct equivalent of Miri, but COBB_SLOW_CHECKER lets a caller opt into
// the same "fewer iterations, single inline group" behavior by hand.
func slowChecker() bool {
	v := os.Getenv("COBB_SLOW_CHECKER")
	return v != "" && v != "0"
}
