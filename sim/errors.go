package sim

import "errors"

var (
	// ErrInvalidInput reports malformed admission data: non-numeric fields,
	// non-positive bursts, negative arrivals, duplicate PIDs or an unsorted
	// process sequence handed to the engine.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration reports a non-positive time quantum or another
	// unusable simulation parameter.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEngineReused is returned when Run is called twice on one Engine.
	ErrEngineReused = errors.New("engine already ran")
)
