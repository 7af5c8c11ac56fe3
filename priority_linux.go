//go:build linux

package cobb

import "golang.org/x/sys/unix"

// niceHigh and niceLow bound the advisory nice-value range cobb toggles
// between. They're deliberately modest: the goal is to bias the scheduler,
// not starve the rest of the host.
const (
	niceHigh = 0
	niceLow  = 10
)

// setOwnPriorityPlatform renices the calling thread. The caller is expected
// to have pinned the calling goroutine to its OS thread via
// runtime.LockOSThread, otherwise the nice value could end up applied to
// whichever thread happens to be running this goroutine at the time.
func setOwnPriorityPlatform(high bool) {
	pri := niceHigh
	if !high {
		pri = niceLow
	}
	// best-effort: an unprivileged process may not be able to raise its own
	// nice value back down once lowered, and that's fine - the priority bit
	// is advisory, cobb's correctness never depends on this call succeeding.
	_ = unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), pri)
}
