//go:build !linux

package cobb

// setOwnPriorityPlatform is a no-op on platforms cobb doesn't know how to
// renice a single thread on. The priority bit is still tracked and observed
// by the worker loop; it just has no OS-level effect here.
func setOwnPriorityPlatform(high bool) {}
