package cobb

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReprioritize_MostlyHi_ExactlyOneHigh(t *testing.T) {
	const threads = 8
	priHigh := make([]*atomic.Bool, threads)
	order := make([]int, threads)
	for i := range order {
		priHigh[i] = &atomic.Bool{}
		order[i] = i
	}

	mode := PrioritizeMostlyHi()
	reprioritize(priHigh, order, mode, newRng())

	high := 0
	for _, b := range priHigh {
		if b.Load() {
			high++
		}
	}
	assert.Equal(t, 1, high)
}

func TestReprioritize_MostlyLo_ExactlyOneLow(t *testing.T) {
	const threads = 8
	priHigh := make([]*atomic.Bool, threads)
	order := make([]int, threads)
	for i := range order {
		priHigh[i] = &atomic.Bool{}
		order[i] = i
	}

	mode := PrioritizeMostlyLo()
	reprioritize(priHigh, order, mode, newRng())

	low := 0
	for _, b := range priHigh {
		if !b.Load() {
			low++
		}
	}
	assert.Equal(t, 1, low)
}

func TestReprioritize_Count(t *testing.T) {
	const threads = 10
	priHigh := make([]*atomic.Bool, threads)
	order := make([]int, threads)
	for i := range order {
		priHigh[i] = &atomic.Bool{}
		order[i] = i
	}

	reprioritize(priHigh, order, PrioritizeCount(4), newRng())

	high := 0
	for _, b := range priHigh {
		if b.Load() {
			high++
		}
	}
	assert.Equal(t, 4, high)
}

func TestReprioritize_RespectsShuffledOrder(t *testing.T) {
	const threads = 6
	priHigh := make([]*atomic.Bool, threads)
	for i := range priHigh {
		priHigh[i] = &atomic.Bool{}
	}
	// worker 5 occupies position 0 in this (fixed, pre-shuffled) order.
	order := []int{5, 0, 1, 2, 3, 4}

	reprioritize(priHigh, order, PrioritizeMostlyHi(), newRng())

	assert.True(t, priHigh[5].Load(), "the worker at position 0 in order should be high priority")
	for _, idx := range []int{0, 1, 2, 3, 4} {
		assert.False(t, priHigh[idx].Load())
	}
}
