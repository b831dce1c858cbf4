// Defines the Process struct that models one schedulable unit in the simulation.
// Tracks arrival, burst and remaining CPU time, plus waiting time accrued while ready.

package sim

import (
	"fmt"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StatePending   ProcessState = "pending"
	StateReady     ProcessState = "ready"
	StateRunning   ProcessState = "running"
	StateCompleted ProcessState = "completed"
)

// validTransitions lists every state change the engine may perform.
var validTransitions = map[ProcessState]map[ProcessState]bool{
	StatePending: {StateReady: true},
	StateReady:   {StateRunning: true},
	StateRunning: {StateReady: true, StateCompleted: true},
}

// CanTransition reports whether a process may move from one state to another.
func CanTransition(from, to ProcessState) bool {
	return validTransitions[from][to]
}

// Process is the mutable, not-yet-completed view of a schedulable unit.
// Completion fields only exist on CompletedProcess, which is produced the
// instant RemainingTime reaches 0.
type Process struct {
	PID         int64 // Caller-assigned identifier, used for tie-breaks and reporting
	ArrivalTime int64 // Tick at which the process becomes ready (>= 0)
	BurstTime   int64 // Total CPU time required (> 0)

	RemainingTime int64        // CPU time still owed; 0 <= RemainingTime <= BurstTime
	WaitingTime   int64        // Ticks spent ready but not running
	State         ProcessState // pending, ready, running, completed
}

// NewProcess creates a pending process with RemainingTime = BurstTime.
func NewProcess(pid, arrivalTime, burstTime int64) *Process {
	return &Process{
		PID:           pid,
		ArrivalTime:   arrivalTime,
		BurstTime:     burstTime,
		RemainingTime: burstTime,
		State:         StatePending,
	}
}

// transition moves the process to the given state.
// Panics on a transition the engine must never perform.
func (p *Process) transition(to ProcessState) {
	if !CanTransition(p.State, to) {
		panic(fmt.Sprintf("process %d: invalid transition %s -> %s", p.PID, p.State, to))
	}
	p.State = to
}

// run consumes up to slice ticks of CPU time.
func (p *Process) run(slice int64) {
	if slice <= 0 || slice > p.RemainingTime {
		panic(fmt.Sprintf("process %d: slice %d outside (0, %d]", p.PID, slice, p.RemainingTime))
	}
	p.RemainingTime -= slice
}

// complete converts a finished process into its immutable completion record.
func (p *Process) complete(clock int64) CompletedProcess {
	if p.RemainingTime != 0 {
		panic(fmt.Sprintf("process %d: completed with %d ticks remaining", p.PID, p.RemainingTime))
	}
	p.transition(StateCompleted)
	return CompletedProcess{
		PID:            p.PID,
		ArrivalTime:    p.ArrivalTime,
		BurstTime:      p.BurstTime,
		CompletionTime: clock,
		TurnaroundTime: clock - p.ArrivalTime,
		WaitingTime:    p.WaitingTime,
	}
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (PID: %d, State: %s, Remaining: %d, ArrivalTime: %d)", p.PID, p.State, p.RemainingTime, p.ArrivalTime)
}

// CompletedProcess is the read-only record of a finished process.
type CompletedProcess struct {
	PID            int64 `json:"pid"`
	ArrivalTime    int64 `json:"arrival_time"`
	BurstTime      int64 `json:"burst_time"`
	CompletionTime int64 `json:"completion_time"`
	TurnaroundTime int64 `json:"turnaround_time"` // CompletionTime - ArrivalTime
	WaitingTime    int64 `json:"waiting_time"`
}

// Conserved reports whether TurnaroundTime == WaitingTime + BurstTime.
func (c CompletedProcess) Conserved() bool {
	return c.TurnaroundTime == c.WaitingTime+c.BurstTime
}
