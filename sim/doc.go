// Package sim provides the core discrete-event simulation engine for
// preemptive Round Robin CPU scheduling.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - process.go: Process lifecycle (pending → ready → running → completed) and state machine
//   - registry.go: admission records, validation and (arrival, pid) ordering
//   - engine.go: the time-stepped loop, quantum accounting and context switches
//   - metrics.go: utilization, throughput and averages derived after a run
//
// # Architecture
//
// The sim package holds the model and the engine; supporting code lives in
// sub-packages:
//   - sim/trace/: dispatch and idle records collected during a run
//   - sim/workload/: CSV loading of pid,arrive,burst admission rows
//   - sim/report/: tables, JSON summaries and latency distributions
//
// The engine is single-threaded and used once: build a fresh Engine for every
// time quantum you want to simulate.
package sim
