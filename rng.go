package cobb

import (
	"math/rand"
	"time"

	"golang.org/x/exp/constraints"
)

// rng is a cheap, non-cryptographic xorshift64* generator, seeded from a
// process-entropy source at construction. It is not safe for concurrent use;
// cobb gives each owner (driver or worker) its own instance.
type rng struct {
	state uint64
}

// newRng seeds a new generator from crypto-adjacent process entropy,
// forcing the seed odd (required by the xorshift64* construction below).
func newRng() *rng {
	seed := uint64(time.Now().UnixNano()) ^ uint64(rand.Int63())
	return &rng{state: seed | 1}
}

// gen returns the next pseudo-random value.
func (r *rng) gen() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 0x2545F4914F6CDD1D
}

// upto returns a value in [0, n). Biased for small n, which is acceptable
// for scheduler jitter - this is not a statistical sampling tool.
func upto[N constraints.Integer](r *rng, n N) N {
	if n <= 0 {
		return 0
	}
	return N(r.gen() % uint64(n))
}

// between returns a value in [lo, hi).
func between[N constraints.Integer](r *rng, lo, hi N) N {
	return upto(r, hi-lo) + lo
}

// shuffle performs an in-place Fisher-Yates shuffle over v.
func shuffle[E any](r *rng, v []E) {
	for i := 0; i < len(v)-1; i++ {
		j := between(r, i, len(v))
		v[i], v[j] = v[j], v[i]
	}
}
