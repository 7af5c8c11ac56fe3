package cobb

// setOwnPriority applies a best-effort OS-level priority hint to the calling
// goroutine's underlying OS thread: high, or a deprioritized background
// tier. It is advisory only - cobb's correctness never depends on this
// actually doing anything, only on the priority bit being observed. Platform
// implementations live in priority_linux.go and priority_other.go.
func setOwnPriority(high bool) {
	setOwnPriorityPlatform(high)
}
