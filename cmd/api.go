package cmd

import (
	"github.com/markphelps/optional"

	"github.com/inference-sim/rrsim/sim"
)

// SimulationRequest is the body of POST /api/v1/rr.
type SimulationRequest struct {
	Quantum int64 `json:"quantum"`
	// ContextSwitchTime falls back to the server default when absent or null
	ContextSwitchTime optional.Float64      `json:"context_switch_time"`
	Trace             bool                  `json:"trace,omitempty"` // include dispatch records in the response
	Processes         []sim.AdmissionRecord `json:"processes"`
}

// SweepRequest is the body of POST /api/v1/sweep.
type SweepRequest struct {
	Quanta            []int64               `json:"quanta"`
	ContextSwitchTime optional.Float64      `json:"context_switch_time"`
	Processes         []sim.AdmissionRecord `json:"processes"`
}

// errorResponse is returned with every non-2xx status.
type errorResponse struct {
	Error string `json:"error"`
}
