package orchestrator

import (
	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/skyunit/internal/discovery"
	"github.com/AndreyAkinshin/skyunit/internal/errors"
	"github.com/AndreyAkinshin/skyunit/internal/ready"
	"github.com/AndreyAkinshin/skyunit/internal/script"
	"github.com/AndreyAkinshin/skyunit/internal/transcript"
)

// Options configures an Orchestrator.
type Options struct {
	Repository discovery.Repository
	Runtime    script.Runtime
	Sink       transcript.Sink
	Exiter     Exiter
	Logger     zerolog.Logger

	Location  string // Scripts directory inside the repository
	Suffix    string // Module name suffix, e.g. "UnitTest"
	Extension string // Compiled artifact extension, e.g. ".hcl"

	// StrictExit exits with a failure status when any test failed.
	StrictExit bool
}

// Orchestrator wires discovery, the sequencer and the run controller.
type Orchestrator struct {
	opts       Options
	modules    []string
	recorder   *Recorder
	sequencer  *Sequencer
	controller *Controller
}

// New creates an orchestrator. Call Init before Start.
func New(opts Options) *Orchestrator {
	if opts.Sink == nil {
		opts.Sink = transcript.Discard
	}
	if opts.Suffix == "" {
		opts.Suffix = discovery.DefaultSuffix
	}
	o := &Orchestrator{opts: opts}
	o.recorder = NewRecorder(opts.Sink, opts.Logger)
	o.controller = NewController(opts.Sink, opts.Logger, opts.Exiter, opts.StrictExit)
	return o
}

// Init discovers the test modules, writes the discovery report and, when
// anything was found, registers the check function with the runtime. It
// returns the number of modules found. A discovery error leaves the
// orchestrator unable to start.
func (o *Orchestrator) Init() (int, error) {
	pattern := discovery.Pattern(o.opts.Location, o.opts.Suffix, o.opts.Extension)
	modules, err := discovery.Discover(o.opts.Repository, o.opts.Location, o.opts.Suffix, o.opts.Extension)
	if err != nil {
		o.opts.Sink.Line("Unit test discovery failed (%s): %v", pattern, err)
		o.opts.Logger.Error().Err(err).Str("location", o.opts.Location).Msg("discovery failed")
		return 0, err
	}

	o.modules = modules
	o.opts.Sink.Line("%s", discovery.Report(len(modules), pattern))
	if len(modules) == 0 {
		return 0, nil
	}

	if err := o.opts.Runtime.Register(script.CheckFunctionName, o.recorder.Check); err != nil {
		return 0, errors.Wrap(err, "register check function")
	}

	agg := NewAggregator(o.opts.Sink)
	o.sequencer = NewSequencer(modules, o.opts.Runtime, o.recorder, agg, o.opts.Sink, o.opts.Logger, o.controller.finished)
	o.controller.attach(o.sequencer, agg)
	return len(modules), nil
}

// Modules returns the discovered module queue.
func (o *Orchestrator) Modules() []string {
	return append([]string(nil), o.modules...)
}

// Start starts the run once. It does nothing when Init found no modules.
func (o *Orchestrator) Start() bool {
	if o.sequencer == nil {
		o.opts.Logger.Debug().Msg("nothing to run; start ignored")
		return false
	}
	return o.controller.Start()
}

// Listen starts the run on the first event of src.
func (o *Orchestrator) Listen(src ready.Source) error {
	_, err := ready.Once(src, func() { o.Start() })
	return err
}

// Check is the native check function exposed to test code.
func (o *Orchestrator) Check(result bool, message string) bool {
	return o.recorder.Check(result, message)
}

// State returns the sequencer state, Idle before a run exists.
func (o *Orchestrator) State() State {
	if o.sequencer == nil {
		return Idle
	}
	return o.sequencer.State()
}

// Done is closed when the run has finished.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.controller.Done()
}

// Result returns the counters of a finished run.
func (o *Orchestrator) Result() Result {
	return o.controller.Result()
}

// Dispatches returns how many functions were dispatched. Read it after Done.
func (o *Orchestrator) Dispatches() int {
	if o.sequencer == nil {
		return 0
	}
	return o.sequencer.Dispatches()
}
