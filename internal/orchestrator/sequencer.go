package orchestrator

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/skyunit/internal/script"
	"github.com/AndreyAkinshin/skyunit/internal/transcript"
)

// Dispatch phases. The completion callback may arrive on any goroutine,
// including the one still inside Runtime.Dispatch; the phase decides who
// continues the run.
const (
	phaseNone        uint64 = iota // no function in flight
	phaseDispatching               // inside Runtime.Dispatch
	phaseAwaiting                  // Dispatch returned, waiting for the callback
	phaseEarly                     // callback arrived before Dispatch returned
)

// phaseBits is the width of the phase in a dispatch word. The remaining bits
// hold the dispatch generation, so a callback can only move the phase of the
// dispatch it was issued for.
const phaseBits = 2

func dispatchWord(gen, phase uint64) uint64 {
	return gen<<phaseBits | phase
}

// Sequencer owns the module and function queues and walks them strictly in
// order, one function in flight at a time.
type Sequencer struct {
	runtime    script.Runtime
	sink       transcript.Sink
	logger     zerolog.Logger
	recorder   *Recorder
	aggregator *Aggregator
	onFinished func()

	modules   []string
	functions []string
	module    string
	function  string
	current   bool // function holds a dispatched, not yet finalized function

	dispatches int
	gen        uint64 // generation of the latest dispatch; owned by the selecting goroutine
	state      atomic.Int32
	word       atomic.Uint64 // dispatchWord(gen, phase)
}

// NewSequencer creates a sequencer over the given module queue. onFinished
// runs once, after the last function has been finalized.
func NewSequencer(modules []string, runtime script.Runtime, recorder *Recorder, aggregator *Aggregator,
	sink transcript.Sink, logger zerolog.Logger, onFinished func()) *Sequencer {
	return &Sequencer{
		modules:    append([]string(nil), modules...),
		runtime:    runtime,
		recorder:   recorder,
		aggregator: aggregator,
		sink:       sink,
		logger:     logger,
		onFinished: onFinished,
	}
}

// State returns the current state.
func (s *Sequencer) State() State {
	return State(s.state.Load())
}

// Dispatches returns the number of functions handed to the runtime so far,
// including ones the runtime refused.
func (s *Sequencer) Dispatches() int {
	return s.dispatches
}

func (s *Sequencer) setState(st State) {
	s.state.Store(int32(st))
	s.logger.Debug().Stringer("state", st).Str("module", s.module).Str("function", s.function).Msg("transition")
}

// begin moves from Started into the first module.
func (s *Sequencer) begin() {
	s.setState(Started)
	s.resume()
}

// completion returns the callback for the dispatch of generation gen.
// Calls after the first, and calls arriving once a later dispatch has
// started, are ignored.
func (s *Sequencer) completion(gen uint64) func() {
	return func() {
		if s.word.CompareAndSwap(dispatchWord(gen, phaseAwaiting), dispatchWord(gen, phaseNone)) {
			s.resume()
			return
		}
		if s.word.CompareAndSwap(dispatchWord(gen, phaseDispatching), dispatchWord(gen, phaseEarly)) {
			return
		}
		s.logger.Warn().Uint64("dispatch", gen).
			Msg("stale or repeated completion callback; ignored")
	}
}

// resume runs selection steps until a function is awaiting its callback or
// the run has finished.
func (s *Sequencer) resume() {
	for s.selectFunction() {
	}
}

// selectFunction finalizes the previous function, then dispatches the next
// one, moving through modules as their queues empty. It returns true when
// the caller should select again right away.
func (s *Sequencer) selectFunction() bool {
	s.setState(SelectingFunction)
	s.finalize()

	for len(s.functions) == 0 {
		if !s.selectModule() {
			s.finish()
			return false
		}
		s.setState(SelectingFunction)
	}

	s.function = s.functions[0]
	s.functions = s.functions[1:]
	s.current = true
	s.recorder.begin()
	s.dispatches++
	s.setState(Dispatched)

	s.gen++
	gen := s.gen
	s.word.Store(dispatchWord(gen, phaseDispatching))
	if err := s.runtime.Dispatch(s.module, s.function, s.completion(gen)); err != nil {
		s.word.Store(dispatchWord(gen, phaseNone))
		s.logger.Error().Err(err).Str("module", s.module).Str("function", s.function).Msg("dispatch failed")
		s.recorder.Check(false, "dispatch failed: "+err.Error())
		return true
	}
	if s.word.CompareAndSwap(dispatchWord(gen, phaseDispatching), dispatchWord(gen, phaseAwaiting)) {
		return false
	}
	// The callback already fired on another goroutine or inside Dispatch.
	s.word.Store(dispatchWord(gen, phaseNone))
	return true
}

// selectModule pops the next module and enumerates its functions. It
// returns false when no modules remain.
func (s *Sequencer) selectModule() bool {
	s.setState(SelectingModule)
	if len(s.modules) == 0 {
		return false
	}
	s.module = s.modules[0]
	s.modules = s.modules[1:]
	s.sink.Module(s.module)

	functions, err := s.runtime.Functions(s.module)
	if err != nil {
		s.logger.Error().Err(err).Str("module", s.module).Msg("function enumeration failed")
		s.sink.Line("%s%s: %v", transcript.ErrorPrefix, s.module, err)
		functions = nil
	}
	s.functions = functions
	s.logger.Debug().Str("module", s.module).Int("functions", len(functions)).Msg("module selected")
	return true
}

// finalize classifies the function that just completed, if any.
func (s *Sequencer) finalize() {
	if !s.current {
		return
	}
	s.aggregator.Finalize(s.function, s.recorder.end())
	s.current = false
}

func (s *Sequencer) finish() {
	s.setState(Finished)
	if s.onFinished != nil {
		s.onFinished()
	}
}
