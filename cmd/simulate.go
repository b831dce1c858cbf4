package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rrsim/sim"
	"github.com/inference-sim/rrsim/sim/report"
	"github.com/inference-sim/rrsim/sim/trace"
)

// Simulate validates the records and runs one fresh engine for quantum.
// The returned trace is nil unless withTrace is set.
func Simulate(records []sim.AdmissionRecord, quantum int64, contextSwitchTime float64, withTrace bool) (*report.Summary, *trace.SimulationTrace, error) {
	if err := validateContextSwitchTime(contextSwitchTime); err != nil {
		return nil, nil, err
	}
	procs, err := sim.NewProcesses(records)
	if err != nil {
		return nil, nil, err
	}

	var st *trace.SimulationTrace
	if withTrace {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDispatches})
	}
	engine, err := sim.NewEngine(quantum, sim.WithTrace(st))
	if err != nil {
		return nil, nil, err
	}
	res, err := engine.Run(procs)
	if err != nil {
		return nil, nil, err
	}
	return report.NewSummary(res, contextSwitchTime, st), st, nil
}

// SweepQuanta simulates the same records once per quantum, each on its own engine.
func SweepQuanta(records []sim.AdmissionRecord, quanta []int64, contextSwitchTime float64) ([]*report.Summary, error) {
	if len(quanta) == 0 {
		return nil, fmt.Errorf("%w: at least one quantum is required", sim.ErrInvalidConfiguration)
	}
	summaries := make([]*report.Summary, 0, len(quanta))
	for _, q := range quanta {
		s, _, err := Simulate(records, q, contextSwitchTime, false)
		if err != nil {
			return nil, fmt.Errorf("quantum %d: %w", q, err)
		}
		logrus.Infof("quantum=%d: utilization=%.4f switches=%d", q, s.Metrics.CPUUtilization, s.Metrics.TotalContextSwitches)
		summaries = append(summaries, s)
	}
	return summaries, nil
}
