// Turns raw admission rows into validated, arrival-ordered processes.

package sim

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AdmissionRecord is one raw process definition as read from a tabular source.
type AdmissionRecord struct {
	PID         int64 `json:"pid"`
	ArrivalTime int64 `json:"arrive"`
	BurstTime   int64 `json:"burst"`
}

// ParseAdmissionRecord converts the string fields of one row into an AdmissionRecord.
// Surrounding whitespace is ignored; any non-integer field is ErrInvalidInput.
func ParseAdmissionRecord(pid, arrive, burst string) (AdmissionRecord, error) {
	var rec AdmissionRecord
	fields := []struct {
		name string
		raw  string
		dst  *int64
	}{
		{"pid", pid, &rec.PID},
		{"arrive", arrive, &rec.ArrivalTime},
		{"burst", burst, &rec.BurstTime},
	}
	for _, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f.raw), 10, 64)
		if err != nil {
			return AdmissionRecord{}, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidInput, f.name, f.raw)
		}
		*f.dst = v
	}
	return rec, nil
}

// Validate checks a single record in isolation.
func (r AdmissionRecord) Validate() error {
	if r.BurstTime <= 0 {
		return fmt.Errorf("%w: pid %d: burst must be positive, got %d", ErrInvalidInput, r.PID, r.BurstTime)
	}
	if r.ArrivalTime < 0 {
		return fmt.Errorf("%w: pid %d: arrival must be non-negative, got %d", ErrInvalidInput, r.PID, r.ArrivalTime)
	}
	return nil
}

// NewProcesses validates the records and returns pending processes sorted
// ascending by (ArrivalTime, PID). The input slice is left untouched.
func NewProcesses(records []AdmissionRecord) ([]*Process, error) {
	seen := make(map[int64]bool, len(records))
	procs := make([]*Process, 0, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if seen[r.PID] {
			return nil, fmt.Errorf("record %d: %w: duplicate pid %d", i, ErrInvalidInput, r.PID)
		}
		seen[r.PID] = true
		procs = append(procs, NewProcess(r.PID, r.ArrivalTime, r.BurstTime))
	}
	if _, err := Horizon(records); err != nil {
		return nil, err
	}
	sort.Slice(procs, func(i, j int) bool {
		return arrivesBefore(procs[i], procs[j])
	})
	return procs, nil
}

// Horizon bounds the final clock of a run over records: the latest arrival
// plus the total burst time. The clock never exceeds it, so a horizon that
// does not fit in int64 is ErrInvalidInput.
func Horizon(records []AdmissionRecord) (int64, error) {
	var latest, work int64
	for _, r := range records {
		latest = max(latest, r.ArrivalTime)
		if r.BurstTime > 0 {
			if work > math.MaxInt64-r.BurstTime {
				return 0, fmt.Errorf("%w: total burst time overflows int64", ErrInvalidInput)
			}
			work += r.BurstTime
		}
	}
	if latest > math.MaxInt64-work {
		return 0, fmt.Errorf("%w: latest arrival %d plus total burst %d overflows int64", ErrInvalidInput, latest, work)
	}
	return latest + work, nil
}

// arrivesBefore is the admission order: arrival time first, PID breaks ties.
func arrivesBefore(a, b *Process) bool {
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.PID < b.PID
}

// checkAdmissionOrder verifies the engine precondition on its input.
func checkAdmissionOrder(procs []*Process) error {
	for i := 1; i < len(procs); i++ {
		if !arrivesBefore(procs[i-1], procs[i]) {
			return fmt.Errorf("%w: process %d (arrival %d) is not ordered after process %d (arrival %d)",
				ErrInvalidInput, procs[i].PID, procs[i].ArrivalTime, procs[i-1].PID, procs[i-1].ArrivalTime)
		}
	}
	return nil
}
