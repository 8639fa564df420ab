// Package skyunit provides public constants for external tools integrating
// with SkyUnit.
package skyunit

// Exit codes returned by the skyunit CLI.
// A finished run exits with ExitSuccess whether or not tests failed, unless
// strict exit codes are enabled; the transcript is the pass/fail signal.
const (
	// ExitSuccess indicates the run finished (or found nothing to run).
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure, or failed tests in strict mode.
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid skyunit.yaml, bad flag, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (unreadable scripts directory, etc.).
	ExitEnvError = 3
)

// TranscriptFileName is the default name of the results transcript.
const TranscriptFileName = "SkyUnit.TestResults.log"
