package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDispatches int
	DispatchOrder   []int64       // PIDs in dispatch order
	DispatchCounts  map[int64]int // PID → number of slices
	Preemptions     int
	BusyTicks       int64
	IdleTicks       int64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchOrder:  make([]int64, 0),
		DispatchCounts: make(map[int64]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDispatches = len(st.Dispatches)
	for _, d := range st.Dispatches {
		summary.DispatchOrder = append(summary.DispatchOrder, d.PID)
		summary.DispatchCounts[d.PID]++
		summary.BusyTicks += d.End - d.Start
		if d.Outcome == OutcomePreempted {
			summary.Preemptions++
		}
	}
	summary.IdleTicks = int64(len(st.Idles))

	return summary
}
