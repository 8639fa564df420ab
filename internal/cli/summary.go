package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AndreyAkinshin/skyunit/internal/errors"
	"github.com/AndreyAkinshin/skyunit/internal/testparser"
	"github.com/AndreyAkinshin/skyunit/pkg/skyunit"
)

// maxReasonLen keeps failure reasons on one terminal line.
const maxReasonLen = 80

// cmdSummary parses a transcript (or go test -v output) and prints a
// summary. It exits 1 when the input records failures.
func cmdSummary(a *arguments, e *env) int {
	var input io.Reader = e.stdin
	if a.summaryInput != "" && a.summaryInput != "-" {
		f, err := os.Open(a.summaryInput)
		if err != nil {
			e.out.ErrorPrefix("%v", err)
			return errors.ExitRuntimeError
		}
		defer func() { _ = f.Close() }()
		input = f
	}

	data, err := io.ReadAll(input)
	if err != nil {
		e.out.ErrorPrefix("read input: %v", err)
		return errors.ExitRuntimeError
	}

	registry := testparser.NewRegistry()
	parser := registry.GetParser(a.summaryFormat)
	if parser == nil {
		e.out.ErrorPrefix("unknown format %q (valid: %s)", a.summaryFormat, strings.Join(registry.Formats(), ", "))
		return errors.ExitConfigError
	}

	counts := parser.Parse(string(data))
	if _, ok := parser.(*testparser.TranscriptParser); ok {
		t, err := testparser.ParseTranscript(strings.NewReader(string(data)))
		if err == nil {
			reportTranscriptHealth(t, e)
		}
	}

	if !counts.Parsed {
		e.out.ErrorPrefix("no test results found in input")
		e.out.Hint("pass the %s transcript, or use --format=go for go test -v output", skyunit.TranscriptFileName)
		return errors.ExitRuntimeError
	}

	printTestSummary(&counts, e)
	if counts.Failed > 0 {
		return errors.ExitRuntimeError
	}
	return errors.ExitSuccess
}

// reportTranscriptHealth warns about transcripts of runs that did not finish
// or whose summary line disagrees with the result lines.
func reportTranscriptHealth(t *testparser.Transcript, e *env) {
	for _, msg := range t.Errors {
		e.out.Warning("module error: %s", msg)
	}
	switch {
	case !t.Complete() && t.Counts.Total > 0:
		e.out.Warning("transcript has no summary line; the run did not finish")
	case t.Complete() && !t.Consistent():
		e.out.Warning("summary line %q disagrees with %d passed, %d failed", t.Summary, t.Counts.Passed, t.Counts.Failed)
	}
}

// printTestSummary prints a formatted test summary.
func printTestSummary(counts *testparser.TestCounts, e *env) {
	e.out.Println("")
	e.out.SummaryHeader("Test Summary")

	e.out.SummaryPassed("Passed", fmt.Sprintf("%d", counts.Passed))
	if counts.Failed > 0 {
		e.out.SummaryFailed("Failed", fmt.Sprintf("%d", counts.Failed))
	}
	if counts.Skipped > 0 {
		e.out.SummaryItem("Skipped", fmt.Sprintf("%d", counts.Skipped))
	}
	e.out.SummaryItem("Total", fmt.Sprintf("%d", counts.Total))

	if len(counts.FailedTests) > 0 {
		e.out.Println("")
		e.out.SummarySectionLabel("Failed Tests:")
		for _, ft := range counts.FailedTests {
			name := ft.Name
			if ft.Module != "" {
				name = ft.Module + "." + ft.Name
			}
			reason := testparser.Truncate(ft.Reason(), maxReasonLen)
			if more := len(ft.Reasons) - 1; more > 0 {
				reason = fmt.Sprintf("%s (+%d more)", reason, more)
			}
			e.out.SummaryFailed("  "+name, reason)
		}
	}

	e.out.Println("")
	if counts.Failed == 0 {
		e.out.FinalSuccess("All %d tests passed.", counts.Total)
	} else {
		e.out.FinalFailure("%d of %d tests failed.", counts.Failed, counts.Total)
	}
}
