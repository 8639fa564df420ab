package orchestrator

import (
	"github.com/AndreyAkinshin/skyunit/internal/transcript"
)

// Aggregator classifies finished functions and keeps the global totals.
// It is only touched by the sequencer, never concurrently.
type Aggregator struct {
	sink   transcript.Sink
	result Result
}

// NewAggregator creates an aggregator writing results to sink.
func NewAggregator(sink transcript.Sink) *Aggregator {
	return &Aggregator{sink: sink}
}

// Finalize records function as passed when it had no failing checks and as
// failed otherwise. It reports whether the function passed.
func (a *Aggregator) Finalize(function string, failures int64) bool {
	if failures > 0 {
		a.result.Failed++
		a.sink.Line("%s%s", transcript.FailPrefix, function)
		return false
	}
	a.result.Passed++
	a.sink.Line("%s%s", transcript.PassPrefix, function)
	return true
}

// Totals returns the counters so far.
func (a *Aggregator) Totals() Result {
	return a.result
}
