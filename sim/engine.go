// sim/engine.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rrsim/sim/trace"
)

// EngineOption configures optional Engine behavior.
type EngineOption func(*Engine)

// WithTrace records every slice and idle tick into st.
// A nil trace or TraceLevelNone records nothing.
func WithTrace(st *trace.SimulationTrace) EngineOption {
	return func(e *Engine) {
		e.trace = st
	}
}

// Result is what a completed run hands to the metrics and report layers.
type Result struct {
	Quantum            int64
	Completed          []CompletedProcess // in completion order
	ContextSwitches    int
	TotalExecutionTime int64
}

// Engine is the Round Robin simulation kernel. It holds simulated time,
// the ready queue and the running slot, and owns every process for the
// duration of one Run.
type Engine struct {
	Clock   int64
	Quantum int64
	// ReadyQ holds admitted processes in FIFO dispatch order
	ReadyQ *ReadyQueue
	// Running is the process holding the CPU, nil while idle
	Running            *Process
	ContextSwitches    int
	TotalExecutionTime int64

	pending   []*Process // not yet arrived, sorted by (ArrivalTime, PID)
	completed []CompletedProcess
	trace     *trace.SimulationTrace
	ran       bool
}

// NewEngine builds an engine for one time quantum.
// A non-positive quantum is ErrInvalidConfiguration.
func NewEngine(quantum int64, opts ...EngineOption) (*Engine, error) {
	if quantum <= 0 {
		return nil, fmt.Errorf("%w: time quantum must be positive, got %d", ErrInvalidConfiguration, quantum)
	}
	e := &Engine{
		Quantum: quantum,
		ReadyQ:  &ReadyQueue{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run simulates the given processes to completion. The sequence must be
// sorted by (ArrivalTime, PID), as returned by NewProcesses, and every
// process must still be pending. An Engine runs exactly once.
func (e *Engine) Run(procs []*Process) (*Result, error) {
	if e.ran {
		return nil, ErrEngineReused
	}
	e.ran = true

	if err := checkAdmissionOrder(procs); err != nil {
		return nil, err
	}
	for _, p := range procs {
		if p.State != StatePending {
			return nil, fmt.Errorf("%w: process %d is %s, want %s", ErrInvalidInput, p.PID, p.State, StatePending)
		}
	}
	e.pending = append([]*Process(nil), procs...)
	e.completed = make([]CompletedProcess, 0, len(procs))

	logrus.Infof("Starting round robin with %d processes, quantum=%d", len(procs), e.Quantum)

	for len(e.pending) > 0 || e.ReadyQ.Len() > 0 || e.Running != nil {
		e.admit()
		if e.Running == nil && e.ReadyQ.Len() > 0 {
			e.dispatch()
		}
		if e.Running != nil {
			e.executeSlice()
		} else {
			e.idle()
		}
	}
	e.TotalExecutionTime = e.Clock

	logrus.Infof("[tick %07d] Simulation ended after %d context switches", e.Clock, e.ContextSwitches)

	return &Result{
		Quantum:            e.Quantum,
		Completed:          e.completed,
		ContextSwitches:    e.ContextSwitches,
		TotalExecutionTime: e.TotalExecutionTime,
	}, nil
}

// admit moves every process that has arrived by the current clock to the
// tail of the ready queue. A process admitted after its arrival tick (it
// arrived during a slice) was already ready for that interval, so it is
// credited as waiting time.
func (e *Engine) admit() {
	for len(e.pending) > 0 && e.pending[0].ArrivalTime <= e.Clock {
		p := e.pending[0]
		e.pending[0] = nil
		e.pending = e.pending[1:]

		p.transition(StateReady)
		p.WaitingTime += e.Clock - p.ArrivalTime
		e.ReadyQ.Enqueue(p)
		logrus.Debugf("[tick %07d] << Arrival: pid %d (arrived %d)", e.Clock, p.PID, p.ArrivalTime)
	}
}

// dispatch hands the CPU to the head of the ready queue. Every fresh
// dispatch counts as a context switch, including the first one and a
// re-dispatch of the process that just ran.
func (e *Engine) dispatch() {
	p := e.ReadyQ.Dequeue()
	p.transition(StateRunning)
	e.Running = p
	e.ContextSwitches++
	logrus.Debugf("[tick %07d] dispatch pid %d, queue=%v", e.Clock, p.PID, e.ReadyQ)
}

// executeSlice runs the current process for at most one quantum, then
// either completes it or requeues it behind any arrivals up to the new clock.
func (e *Engine) executeSlice() {
	p := e.Running
	slice := min(e.Quantum, p.RemainingTime)
	start := e.Clock
	depth := e.ReadyQ.Len()

	e.Clock += slice
	p.run(slice)
	e.ReadyQ.accrueWaiting(slice)

	outcome := trace.OutcomePreempted
	if p.RemainingTime == 0 {
		outcome = trace.OutcomeCompleted
		done := p.complete(e.Clock)
		e.completed = append(e.completed, done)
		logrus.Debugf("[tick %07d] pid %d completed, turnaround=%d waiting=%d", e.Clock, done.PID, done.TurnaroundTime, done.WaitingTime)
	} else {
		// arrivals up to this boundary enter the queue ahead of the preempted process
		e.admit()
		p.transition(StateReady)
		e.ReadyQ.Enqueue(p)
		logrus.Debugf("[tick %07d] pid %d preempted, remaining=%d", e.Clock, p.PID, p.RemainingTime)
	}
	e.Running = nil

	if e.trace.Enabled() {
		e.trace.RecordDispatch(trace.DispatchRecord{
			PID:        p.PID,
			Start:      start,
			End:        e.Clock,
			Remaining:  p.RemainingTime,
			QueueDepth: depth,
			Outcome:    outcome,
		})
	}
}

// idle advances the clock by one tick while the CPU has nothing to run.
func (e *Engine) idle() {
	if e.trace.Enabled() {
		e.trace.RecordIdle(trace.IdleRecord{Clock: e.Clock})
	}
	e.Clock++
}
