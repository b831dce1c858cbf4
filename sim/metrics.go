// Derives simulation-wide statistics from a finished run:
// CPU utilization, throughput, average waiting and turnaround time.

package sim

// DefaultContextSwitchTime is the per-switch overhead used when none is configured.
const DefaultContextSwitchTime = 0.1

// Metrics aggregates statistics about one simulation for final reporting.
// It is a snapshot: compute it once with CalculateMetrics.
type Metrics struct {
	CPUUtilization       float64 `json:"cpu_utilization"`        // 1 - switch overhead / total time, not clamped
	Throughput           float64 `json:"throughput"`             // completed processes per tick
	AvgWaitingTime       float64 `json:"avg_waiting_time"`       // mean ticks spent ready
	AvgTurnaroundTime    float64 `json:"avg_turnaround_time"`    // mean completion - arrival
	TotalContextSwitches int     `json:"total_context_switches"` // fresh dispatches, including the first
}

// CalculateMetrics is a pure function of the completed processes and run counters.
// An empty run (or a zero total time) yields the all-zero record.
func CalculateMetrics(completed []CompletedProcess, contextSwitches int, contextSwitchTime float64, totalExecutionTime int64) Metrics {
	if len(completed) == 0 || totalExecutionTime == 0 {
		return Metrics{}
	}

	var totalWaiting, totalTurnaround int64
	for _, p := range completed {
		totalWaiting += p.WaitingTime
		totalTurnaround += p.TurnaroundTime
	}
	n := float64(len(completed))
	total := float64(totalExecutionTime)
	overhead := contextSwitchTime * float64(contextSwitches)

	return Metrics{
		CPUUtilization:       1 - overhead/total,
		Throughput:           n / total,
		AvgWaitingTime:       float64(totalWaiting) / n,
		AvgTurnaroundTime:    float64(totalTurnaround) / n,
		TotalContextSwitches: contextSwitches,
	}
}

// Metrics computes the run's Metrics with the given per-switch overhead.
func (r *Result) Metrics(contextSwitchTime float64) Metrics {
	return CalculateMetrics(r.Completed, r.ContextSwitches, contextSwitchTime, r.TotalExecutionTime)
}
