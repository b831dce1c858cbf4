// Package trace provides dispatch-trace recording for Round Robin runs.
// This package has no dependencies on sim/: it stores pure data types.
package trace

// Outcome describes what happened to a process at the end of a slice.
type Outcome string

const (
	OutcomePreempted Outcome = "preempted" // quantum expired, process requeued
	OutcomeCompleted Outcome = "completed" // remaining time reached zero
)

// DispatchRecord captures one execution slice.
type DispatchRecord struct {
	PID        int64   `json:"pid"`
	Start      int64   `json:"start"`       // clock when the slice began
	End        int64   `json:"end"`         // clock when the slice ended
	Remaining  int64   `json:"remaining"`   // remaining burst after the slice
	QueueDepth int     `json:"queue_depth"` // ready processes waiting during the slice
	Outcome    Outcome `json:"outcome"`
}

// IdleRecord captures a one-tick idle step taken while waiting for arrivals.
type IdleRecord struct {
	Clock int64 `json:"clock"` // clock before the idle tick
}
