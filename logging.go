package cobb

import (
	"fmt"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// diagLogger is cobb's diagnostic sink: phase markers under COBB_VERBOSE,
// and failure summaries for worker, group, and hook panics. It writes
// structured JSON lines to stderr via stumpy, the logiface backend the rest
// of this ecosystem standardizes on, rather than hand-rolled fmt.Fprintf
// calls. Built lazily so a program that never triggers a failure and never
// sets COBB_VERBOSE pays nothing for it.
var diagLogger = sync.OnceValue(func() *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(),
		stumpy.L.WithLevel(logiface.LevelTrace),
	)
})

// logPhaseMarker emits a verbose-mode phase marker for group 0 only,
// matching the original's "don't drown stderr in every group's chatter"
// behavior.
func logPhaseMarker(name string, group, rep, iterations int, phase string) {
	diagLogger().Debug().
		Str(`test`, name).
		Int(`group`, group).
		Int(`rep`, rep).
		Int(`iterations`, iterations).
		Log(phase)
}

// logWorkerFailure records one worker's panic payload, ahead of the
// re-raise that terminates the group.
func logWorkerFailure(name string, group, thread int, payload any) {
	diagLogger().Err().
		Str(`test`, name).
		Int(`group`, group).
		Int(`thread`, thread).
		Str(`panic`, extractPanicMessage(payload)).
		Log(`worker failed`)
}

// logWorkerFailureSummary records how many workers within one group failed,
// once the join loop completes.
func logWorkerFailureSummary(name string, group, failedCount int) {
	diagLogger().Err().
		Str(`test`, name).
		Int(`group`, group).
		Int(`failed`, failedCount).
		Log(`threads failed`)
}

// logGroupFailure records one group's panic payload, ahead of the re-raise
// that terminates RunTest.
func logGroupFailure(name string, group int, payload any) {
	diagLogger().Err().
		Str(`test`, name).
		Int(`group`, group).
		Str(`panic`, extractPanicMessage(payload)).
		Log(`group failed`)
}

// logGroupFailureSummary records how many groups failed, once every group
// has joined.
func logGroupFailureSummary(name string, failedCount int, groups []int) {
	diagLogger().Err().
		Str(`test`, name).
		Int(`failed`, failedCount).
		Str(`groups`, fmt.Sprint(groups)).
		Log(`groups failed`)
}

// extractPanicMessage renders a recovered panic payload as a string for
// diagnostics, on a best-effort basis. The original panic value (not this
// rendering) is what actually gets re-raised.
func extractPanicMessage(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
