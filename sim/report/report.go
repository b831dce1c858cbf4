// Package report renders simulation results for people and programs:
// fixed-width tables on a terminal and JSON summaries for tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/inference-sim/rrsim/sim"
	"github.com/inference-sim/rrsim/sim/trace"
)

// Summary is the complete, serializable outcome of one simulation.
type Summary struct {
	Quantum            int64                  `json:"quantum"`
	ContextSwitchTime  float64                `json:"context_switch_time"`
	TotalExecutionTime int64                  `json:"total_execution_time"`
	Metrics            sim.Metrics            `json:"metrics"`
	WaitingTime        Distribution           `json:"waiting_time"`
	TurnaroundTime     Distribution           `json:"turnaround_time"`
	Processes          []sim.CompletedProcess `json:"processes"`
	Dispatches         []trace.DispatchRecord `json:"dispatches,omitempty"`
}

// NewSummary derives metrics and distributions from a run.
// st may be nil; when it holds dispatches they are included.
func NewSummary(res *sim.Result, contextSwitchTime float64, st *trace.SimulationTrace) *Summary {
	waiting := make([]float64, len(res.Completed))
	turnaround := make([]float64, len(res.Completed))
	for i, p := range res.Completed {
		waiting[i] = float64(p.WaitingTime)
		turnaround[i] = float64(p.TurnaroundTime)
	}
	s := &Summary{
		Quantum:            res.Quantum,
		ContextSwitchTime:  contextSwitchTime,
		TotalExecutionTime: res.TotalExecutionTime,
		Metrics:            res.Metrics(contextSwitchTime),
		WaitingTime:        NewDistribution(waiting),
		TurnaroundTime:     NewDistribution(turnaround),
		Processes:          res.Completed,
	}
	if st != nil && len(st.Dispatches) > 0 {
		s.Dispatches = st.Dispatches
	}
	return s
}

// Print writes the headline metrics and the per-process completion table.
func Print(w io.Writer, quantum int64, m sim.Metrics, completed []sim.CompletedProcess) {
	fmt.Fprintf(w, "\nResults for Time Quantum: %d\n", quantum)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "CPU Utilization: %.2f%%\n", m.CPUUtilization*100)
	fmt.Fprintf(w, "Throughput: %.2f processes/unit time\n", m.Throughput)
	fmt.Fprintf(w, "Average Waiting Time: %.2f units\n", m.AvgWaitingTime)
	fmt.Fprintf(w, "Average Turnaround Time: %.2f units\n", m.AvgTurnaroundTime)
	fmt.Fprintf(w, "Total Context Switches: %d\n", m.TotalContextSwitches)

	fmt.Fprintln(w, "\nProcess Completion Details:")
	rows := make([][]string, 0, len(completed))
	for _, p := range completed {
		rows = append(rows, []string{
			fmt.Sprint(p.PID),
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.BurstTime),
			fmt.Sprint(p.CompletionTime),
			fmt.Sprint(p.TurnaroundTime),
			fmt.Sprint(p.WaitingTime),
		})
	}
	table := newTable(w, []string{"PID", "Arrival", "Burst", "Completion", "Turnaround", "Waiting"})
	table.AppendBulk(rows)
	table.Render()
}

// PrintSummary prints a Summary the same way as Print.
func PrintSummary(w io.Writer, s *Summary) {
	Print(w, s.Quantum, s.Metrics, s.Processes)
}

// PrintTimeline writes the dispatch trace as a table, one row per slice.
// Consecutive idle ticks are collapsed into a single row.
func PrintTimeline(w io.Writer, st *trace.SimulationTrace) {
	fmt.Fprintln(w, "\nDispatch Timeline:")
	rows := make([][]string, 0, len(st.Dispatches)+1)

	idles := st.Idles
	flushIdle := func(before int64) {
		if len(idles) == 0 || idles[0].Clock >= before {
			return
		}
		start := idles[0].Clock
		n := 0
		for n < len(idles) && idles[n].Clock < before {
			n++
		}
		end := idles[n-1].Clock + 1
		idles = idles[n:]
		rows = append(rows, []string{fmt.Sprint(start), fmt.Sprint(end), "idle", "", "", ""})
	}
	for _, d := range st.Dispatches {
		flushIdle(d.Start)
		rows = append(rows, []string{
			fmt.Sprint(d.Start),
			fmt.Sprint(d.End),
			fmt.Sprint(d.PID),
			fmt.Sprint(d.Remaining),
			fmt.Sprint(d.QueueDepth),
			string(d.Outcome),
		})
	}
	if len(idles) > 0 {
		flushIdle(idles[len(idles)-1].Clock + 1)
	}

	table := newTable(w, []string{"Start", "End", "PID", "Remaining", "Queued", "Outcome"})
	table.AppendBulk(rows)
	table.Render()
}

// PrintSweep writes one comparison row per simulated quantum.
func PrintSweep(w io.Writer, summaries []*Summary) {
	fmt.Fprintln(w, "\nQuantum Comparison:")
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.FormatInt(s.Quantum, 10),
			fmt.Sprintf("%.2f%%", s.Metrics.CPUUtilization*100),
			fmt.Sprintf("%.2f", s.Metrics.Throughput),
			fmt.Sprintf("%.2f", s.Metrics.AvgWaitingTime),
			fmt.Sprintf("%.2f", s.Metrics.AvgTurnaroundTime),
			strconv.Itoa(s.Metrics.TotalContextSwitches),
		})
	}
	table := newTable(w, []string{"Quantum", "CPU Util", "Throughput", "Avg Waiting", "Avg Turnaround", "Switches"})
	table.AppendBulk(rows)
	table.Render()
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}
