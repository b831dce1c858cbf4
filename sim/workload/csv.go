// Package workload loads process definitions for the simulator.
// Process files are CSV with a header naming pid, arrive and burst columns.
package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rrsim/sim"
)

// Column names recognized in the CSV header.
const (
	ColumnPID    = "pid"
	ColumnArrive = "arrive"
	ColumnBurst  = "burst"
)

var requiredColumns = []string{ColumnPID, ColumnArrive, ColumnBurst}

// LoadProcessesCSV reads admission records from the CSV file at path.
func LoadProcessesCSV(path string) ([]sim.AdmissionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening process file: %w", err)
	}
	defer file.Close()

	records, err := ReadProcessesCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("Loaded %d process definitions from %s", len(records), path)
	return records, nil
}

// ReadProcessesCSV parses admission records from r. Columns may appear in any
// order and extra columns are ignored. Structural problems and non-numeric
// fields are reported as sim.ErrInvalidInput with the 1-based data row.
func ReadProcessesCSV(r io.Reader) ([]sim.AdmissionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row width is checked against the header below
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing CSV header (want %s)", sim.ErrInvalidInput, strings.Join(requiredColumns, ","))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header: %v", sim.ErrInvalidInput, err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	records := make([]sim.AdmissionRecord, 0)
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV row %d: %v", sim.ErrInvalidInput, row, err)
		}
		if isBlank(fields) {
			continue
		}
		if len(fields) < len(header) {
			return nil, fmt.Errorf("%w: CSV row %d has %d columns, expected %d", sim.ErrInvalidInput, row, len(fields), len(header))
		}
		rec, err := sim.ParseAdmissionRecord(fields[index[ColumnPID]], fields[index[ColumnArrive]], fields[index[ColumnBurst]])
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: %w", row, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// columnIndex maps each required column to its position in the header.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate CSV column %q", sim.ErrInvalidInput, name)
		}
		index[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: CSV header missing column %q", sim.ErrInvalidInput, col)
		}
	}
	return index, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
