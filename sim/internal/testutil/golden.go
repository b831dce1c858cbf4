// Package testutil provides shared test infrastructure for the simulator.
// It holds the golden dataset types and assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenProcess is one admission row of a golden case.
type GoldenProcess struct {
	PID    int64 `json:"pid"`
	Arrive int64 `json:"arrive"`
	Burst  int64 `json:"burst"`
}

// GoldenTestCase represents a single hand-traced case from the golden dataset.
type GoldenTestCase struct {
	Name              string          `json:"name"`
	Quantum           int64           `json:"quantum"`
	ContextSwitchTime float64         `json:"context_switch_time"`
	Processes         []GoldenProcess `json:"processes"`
	Expected          GoldenExpected  `json:"expected"`
}

// GoldenCompletion is the expected record of one finished process.
type GoldenCompletion struct {
	PID            int64 `json:"pid"`
	CompletionTime int64 `json:"completion_time"`
	TurnaroundTime int64 `json:"turnaround_time"`
	WaitingTime    int64 `json:"waiting_time"`
}

// GoldenExpected holds the exact outcome of a case.
type GoldenExpected struct {
	DispatchOrder      []int64            `json:"dispatch_order"`
	ContextSwitches    int                `json:"context_switches"`
	TotalExecutionTime int64              `json:"total_execution_time"`
	IdleTicks          int64              `json:"idle_ticks"`
	Completed          []GoldenCompletion `json:"completed"` // completion order
	Metrics            GoldenMetrics      `json:"metrics"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	CPUUtilization    float64 `json:"cpu_utilization"`
	Throughput        float64 `json:"throughput"`
	AvgWaitingTime    float64 `json:"avg_waiting_time"`
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	path := filepath.Join(RepoRoot(t), "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// RepoRoot returns the module root directory.
func RepoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..")
}

// TestdataPath returns the path of a file under the repo's testdata directory.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(RepoRoot(t), "testdata", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
