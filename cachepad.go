package cobb

// cacheLineSize is the assumed line size for false-sharing mitigation. Most
// mainstream platforms cobb targets use 64 bytes; this is a tuning constant,
// not a correctness requirement.
const cacheLineSize = 64

// cachePad wraps a value so that it does not share a cache line with
// whatever comes immediately before or after it in memory. It is purely a
// performance mitigation against false sharing between the driver's state
// value and neighbouring memory; semantically it behaves as T.
//
// Go doesn't expose the padding-around-a-field trick from the original (a
// repr(C, align(64)) struct with MaybeUninit padding either side) quite as
// literally, since the runtime doesn't guarantee placement of adjacent
// struct fields relative to surrounding allocations the way a fixed-layout
// repr(C) struct does in a systems language. We approximate it with padding
// alone: a leading pad keeps whatever precedes the struct off the payload's
// line, and a trailing pad does the same for whatever the GC places
// immediately after it. The struct itself is not aligned to a cache line.
type cachePad[T any] struct {
	_     [cacheLineSize]byte
	value T
	_     [cacheLineSize]byte
}

func newCachePad[T any](value T) *cachePad[T] {
	return &cachePad[T]{value: value}
}

// get returns the padded value.
func (c *cachePad[T]) get() T {
	return c.value
}

// set replaces the padded value in place.
func (c *cachePad[T]) set(value T) {
	c.value = value
}
