// Package cli provides the skyunit command-line interface.
package cli

import (
	"io"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/AndreyAkinshin/skyunit/internal/config"
	"github.com/AndreyAkinshin/skyunit/internal/errors"
	"github.com/AndreyAkinshin/skyunit/internal/output"
	"github.com/AndreyAkinshin/skyunit/internal/testparser"
)

// Version is set at build time.
var Version = "dev"

// Command names.
const (
	cmdRunName     = "run"
	cmdListName    = "list"
	cmdSummaryName = "summary"
	cmdVersionName = "version"
	cmdHelpName    = "help"
)

// arguments holds the parsed command line. Empty strings mean "not given".
type arguments struct {
	command string

	configPath string
	dir        string
	runtime    string
	quiet      bool
	verbose    bool

	ready      string
	readyFile  string
	logDir     string
	strictExit bool

	summaryInput  string
	summaryFormat string
}

// env carries the process streams a command works with.
type env struct {
	out    *output.Writer
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	return execute(args, &env{
		out:    output.New(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
	})
}

func execute(args []string, e *env) int {
	app, a := newApp()
	app.UsageWriter(e.stdout)
	app.ErrorWriter(e.stderr)

	if wantsHelp(args) {
		app.Usage(args)
		return errors.ExitSuccess
	}
	if len(args) > 0 && args[0] == "--version" {
		args = []string{cmdVersionName}
	}
	args = stdinArgument(args)

	command, err := app.Parse(args)
	if err != nil {
		e.out.ErrorPrefix("%v, try --help", err)
		return errors.ExitConfigError
	}
	a.command = command
	if a.quiet && a.verbose {
		e.out.ErrorPrefix("--quiet and --verbose are mutually exclusive")
		return errors.ExitConfigError
	}
	e.out.SetQuiet(a.quiet)

	switch a.command {
	case cmdRunName:
		return cmdRun(a, e)
	case cmdListName:
		return cmdList(a, e)
	case cmdSummaryName:
		return cmdSummary(a, e)
	case cmdVersionName:
		e.out.Println("skyunit %s", Version)
		return errors.ExitSuccess
	case cmdHelpName:
		return errors.ExitSuccess
	}
	e.out.ErrorPrefix("unknown command %q", a.command)
	return errors.ExitConfigError
}

// newApp declares the command line.
func newApp() (*kingpin.Application, *arguments) {
	a := &arguments{}
	app := kingpin.New("skyunit", "Runs the *UnitTest modules of a scripts directory one test function at a time and logs the results.")
	app.Terminate(func(int) {})
	app.HelpFlag.Short('h')

	app.Flag("config", "Configuration file (default: ./"+config.FileName+" when present).").StringVar(&a.configPath)
	app.Flag("dir", "Directory holding the test modules.").StringVar(&a.dir)
	app.Flag("runtime", "Script runtime hosting the modules.").EnumVar(&a.runtime, config.RuntimeHCL, config.RuntimeGoTest)
	app.Flag("quiet", "Only print failures and the summary.").Short('q').BoolVar(&a.quiet)
	app.Flag("verbose", "Log diagnostics at debug level.").Short('v').BoolVar(&a.verbose)

	run := app.Command(cmdRunName, "Discover and run the unit tests (default).").Default()
	run.Flag("ready", "Signal that starts the run.").EnumVar(&a.ready, config.ReadyImmediate, config.ReadyFile, config.ReadySignal)
	run.Flag("ready-file", "File whose creation starts the run in file mode.").StringVar(&a.readyFile)
	run.Flag("log-dir", "Directory of the results transcript.").StringVar(&a.logDir)
	run.Flag("strict-exit", "Exit with status 1 when any test failed.").BoolVar(&a.strictExit)

	app.Command(cmdListName, "List the discovered modules and their test functions.")

	summary := app.Command(cmdSummaryName, "Summarize a results transcript; exits 1 when it records failures.")
	summary.Arg("file", "Transcript to read, or - for stdin.").Default("-").StringVar(&a.summaryInput)
	summary.Flag("format", "Input format.").Default("skyunit").EnumVar(&a.summaryFormat, testparser.NewRegistry().Formats()...)

	app.Command(cmdVersionName, "Show the version.")

	return app, a
}

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// stdinArgument drops a bare "-" following the summary command. kingpin
// reads it as a short flag; the file argument already defaults to stdin.
func stdinArgument(args []string) []string {
	out := make([]string, 0, len(args))
	summary := false
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if arg == cmdSummaryName {
			summary = true
		}
		if summary && arg == "-" {
			continue
		}
		out = append(out, arg)
	}
	return out
}
