package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rrsim/sim"
	"github.com/inference-sim/rrsim/sim/trace"
)

// simulate runs the late-arrival workload with tracing enabled.
func simulate(t *testing.T) (*sim.Result, *trace.SimulationTrace) {
	t.Helper()
	procs, err := sim.NewProcesses([]sim.AdmissionRecord{
		{PID: 1, ArrivalTime: 0, BurstTime: 5},
		{PID: 2, ArrivalTime: 1, BurstTime: 3},
	})
	require.NoError(t, err)
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDispatches})
	e, err := sim.NewEngine(2, sim.WithTrace(st))
	require.NoError(t, err)
	res, err := e.Run(procs)
	require.NoError(t, err)
	return res, st
}

func TestPrint_RendersMetricsAndTable(t *testing.T) {
	// GIVEN a finished run
	res, _ := simulate(t)
	var buf bytes.Buffer

	// WHEN printed
	Print(&buf, res.Quantum, res.Metrics(0.1), res.Completed)
	out := buf.String()

	// THEN the headline metrics use percentage and per-unit formats
	assert.Contains(t, out, "Results for Time Quantum: 2")
	assert.Contains(t, out, "CPU Utilization: 93.75%")
	assert.Contains(t, out, "Throughput: 0.25 processes/unit time")
	assert.Contains(t, out, "Average Waiting Time: 3.00 units")
	assert.Contains(t, out, "Average Turnaround Time: 7.00 units")
	assert.Contains(t, out, "Total Context Switches: 5")

	// AND the table has the completion columns in order
	assert.Contains(t, out, "Process Completion Details:")
	header := lineContaining(out, "PID")
	for _, col := range []string{"Arrival", "Burst", "Completion", "Turnaround", "Waiting"} {
		assert.Contains(t, header, col)
	}
	assert.Less(t, strings.Index(header, "Completion"), strings.Index(header, "Waiting"))
}

func TestPrint_EmptyRun_NoRows(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, 3, sim.Metrics{}, nil)
	assert.Contains(t, buf.String(), "CPU Utilization: 0.00%")
	assert.Contains(t, buf.String(), "Total Context Switches: 0")
}

func TestNewSummary_IncludesDistributionsAndDispatches(t *testing.T) {
	res, st := simulate(t)

	s := NewSummary(res, 0.1, st)

	assert.Equal(t, int64(2), s.Quantum)
	assert.Equal(t, int64(8), s.TotalExecutionTime)
	assert.Equal(t, 5, s.Metrics.TotalContextSwitches)
	assert.Equal(t, 2, s.WaitingTime.Count)
	assert.Equal(t, 3.0, s.WaitingTime.Mean)
	assert.Equal(t, 8.0, s.TurnaroundTime.Max)
	assert.Len(t, s.Dispatches, 5)
}

func TestNewSummary_NilTrace_OmitsDispatches(t *testing.T) {
	res, _ := simulate(t)
	s := NewSummary(res, 0.1, nil)
	assert.Nil(t, s.Dispatches)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, s))
	assert.NotContains(t, buf.String(), "dispatches")
}

func TestWriteJSON_SummaryFieldNames(t *testing.T) {
	res, st := simulate(t)
	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, NewSummary(res, 0.1, st)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for _, key := range []string{"quantum", "metrics", "waiting_time", "turnaround_time", "processes", "dispatches"} {
		assert.Contains(t, decoded, key)
	}
	metrics := decoded["metrics"].(map[string]any)
	assert.Equal(t, 0.9375, metrics["cpu_utilization"])
	assert.Equal(t, 5.0, metrics["total_context_switches"])
}

func TestPrintTimeline_CollapsesIdleTicks(t *testing.T) {
	// GIVEN a run that idles five ticks before its only process arrives
	procs, err := sim.NewProcesses([]sim.AdmissionRecord{{PID: 1, ArrivalTime: 5, BurstTime: 3}})
	require.NoError(t, err)
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDispatches})
	e, err := sim.NewEngine(2, sim.WithTrace(st))
	require.NoError(t, err)
	_, err = e.Run(procs)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintTimeline(&buf, st)
	out := buf.String()

	// THEN one idle row spans 0-5, followed by both slices
	assert.Equal(t, 1, strings.Count(out, "idle"))
	idle := lineContaining(out, "idle")
	assert.Contains(t, idle, "0")
	assert.Contains(t, idle, "5")
	assert.Contains(t, out, string(trace.OutcomePreempted))
	assert.Contains(t, out, string(trace.OutcomeCompleted))
}

func TestPrintSweep_OneRowPerQuantum(t *testing.T) {
	summaries := make([]*Summary, 0, 3)
	for _, q := range []int64{1, 2, 3} {
		procs, err := sim.NewProcesses([]sim.AdmissionRecord{{PID: 1, ArrivalTime: 0, BurstTime: 4}})
		require.NoError(t, err)
		e, err := sim.NewEngine(q)
		require.NoError(t, err)
		res, err := e.Run(procs)
		require.NoError(t, err)
		summaries = append(summaries, NewSummary(res, 0.1, nil))
	}

	var buf bytes.Buffer
	PrintSweep(&buf, summaries)
	out := buf.String()

	assert.Contains(t, out, "Quantum Comparison:")
	// q=1 needs 4 dispatches: utilization 1 - 0.4/4
	assert.Contains(t, out, "90.00%")
	// q=3 needs 2 dispatches: 1 - 0.2/4
	assert.Contains(t, out, "95.00%")
}

// lineContaining returns the first line of s containing substr.
func lineContaining(s, substr string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}
