// Package orchestrator runs discovered test modules one function at a time.
//
// The run is an explicit state machine. It advances on two kinds of events:
// the one-shot start trigger and the runtime's completion callback for the
// single function in flight. Between those events it holds no goroutine and
// no lock.
package orchestrator

import (
	"fmt"
)

// State is a position in the run lifecycle.
type State int32

const (
	Idle State = iota
	Started
	SelectingModule
	SelectingFunction
	Dispatched
	Finished
	Exited
)

var stateNames = [...]string{
	Idle:              "idle",
	Started:           "started",
	SelectingModule:   "selecting-module",
	SelectingFunction: "selecting-function",
	Dispatched:        "dispatched",
	Finished:          "finished",
	Exited:            "exited",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int32(s))
	}
	return stateNames[s]
}

// Result holds the global counters of a run.
type Result struct {
	Passed int
	Failed int
}

// Total returns the number of functions that ran.
func (r Result) Total() int {
	return r.Passed + r.Failed
}

// Summary returns the final transcript line for r.
func (r Result) Summary() string {
	switch {
	case r.Failed > 0:
		return fmt.Sprintf("Tests failed. %d passed, %d failed.", r.Passed, r.Failed)
	case r.Passed > 0:
		return fmt.Sprintf("Tests passed. %d passed, %d failed.", r.Passed, r.Failed)
	default:
		return "No tests ran"
	}
}

// Exiter terminates the host process.
type Exiter interface {
	Exit(code int)
}

// ExitFunc adapts a function to Exiter.
type ExitFunc func(code int)

// Exit calls f(code).
func (f ExitFunc) Exit(code int) { f(code) }
