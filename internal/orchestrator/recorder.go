package orchestrator

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/skyunit/internal/transcript"
)

// Recorder counts failing checks of the function in flight.
// Check may be called from the runtime's goroutines.
type Recorder struct {
	sink     transcript.Sink
	logger   zerolog.Logger
	active   atomic.Bool
	failures atomic.Int64
}

// NewRecorder creates a recorder writing failure messages to sink.
func NewRecorder(sink transcript.Sink, logger zerolog.Logger) *Recorder {
	return &Recorder{sink: sink, logger: logger}
}

// Check records a failure when result is false and returns result unchanged.
// Outside of a running function it records nothing.
func (r *Recorder) Check(result bool, message string) bool {
	if result {
		return result
	}
	if !r.active.Load() {
		r.logger.Warn().Str("message", message).Msg("check failed outside of a test function; ignored")
		return result
	}
	r.failures.Add(1)
	r.sink.Line("%s%s", transcript.AssertionPrefix, message)
	return result
}

// Failures returns the failure count of the function in flight.
func (r *Recorder) Failures() int64 {
	return r.failures.Load()
}

// begin resets the counter for a new function.
func (r *Recorder) begin() {
	r.failures.Store(0)
	r.active.Store(true)
}

// end stops recording and returns the count, resetting it to zero.
func (r *Recorder) end() int64 {
	r.active.Store(false)
	return r.failures.Swap(0)
}
