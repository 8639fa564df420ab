package orchestrator

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/skyunit/internal/transcript"
	"github.com/AndreyAkinshin/skyunit/pkg/skyunit"
)

// Controller is the start/finish surface of a run. Start is safe to call
// from any number of goroutines; only the first call starts the run.
type Controller struct {
	sink       transcript.Sink
	logger     zerolog.Logger
	exiter     Exiter
	strictExit bool

	started atomic.Bool
	seq     *Sequencer
	agg     *Aggregator

	mu     sync.Mutex
	result Result
	done   chan struct{}
}

// NewController wires a controller. The sequencer is attached with attach.
func NewController(sink transcript.Sink, logger zerolog.Logger, exiter Exiter, strictExit bool) *Controller {
	return &Controller{
		sink:       sink,
		logger:     logger,
		exiter:     exiter,
		strictExit: strictExit,
		done:       make(chan struct{}),
	}
}

func (c *Controller) attach(seq *Sequencer, agg *Aggregator) {
	c.seq = seq
	c.agg = agg
}

// Start begins the run. It reports whether this call started it.
func (c *Controller) Start() bool {
	if !c.started.CompareAndSwap(false, true) {
		c.logger.Debug().Msg("start requested again; ignored")
		return false
	}
	c.logger.Info().Msg("run started")
	c.seq.begin()
	return true
}

// Started reports whether the run has been started.
func (c *Controller) Started() bool {
	return c.started.Load()
}

// Done is closed once the summary has been written.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Result returns the final counters. It is meaningful after Done is closed.
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// ExitCode returns the status the run exits with.
func (c *Controller) ExitCode(r Result) int {
	if c.strictExit && r.Failed > 0 {
		return skyunit.ExitFailure
	}
	return skyunit.ExitSuccess
}

// finished writes the summary and terminates the process.
func (c *Controller) finished() {
	r := c.agg.Totals()
	c.mu.Lock()
	c.result = r
	c.mu.Unlock()

	c.sink.Line("%s", r.Summary())
	c.logger.Info().Int("passed", r.Passed).Int("failed", r.Failed).Msg("run finished")

	c.seq.setState(Exited)
	close(c.done)
	if c.exiter != nil {
		c.exiter.Exit(c.ExitCode(r))
	}
}
