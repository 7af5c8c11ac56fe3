// Package cobb is a concurrency stress-test harness for lock-free and other
// low-level synchronization code. Given a shared value and a short test
// function, RunTest repeatedly launches a fixed number of worker goroutines
// against that value, forcing them through a controller-mediated rendezvous
// each iteration, while randomizing scheduling to maximize the odds that a
// data race, an ordering bug, or an ABA hazard actually manifests within a
// bounded number of iterations.
//
// cobb is a fuzzer, not a model checker: a clean run is evidence of absence,
// not proof of it. See [TestConfig] for the knobs, and [RunTest] for the
// entry point.
package cobb
