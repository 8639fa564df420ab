package testparser

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/skyunit/internal/transcript"
)

var (
	discoveryLineRegex = regexp.MustCompile(`^(Found \d+ unit tests|No unit tests found|Unit test discovery failed) \(.*\)`)
	summaryLineRegex   = regexp.MustCompile(`^Tests (passed|failed)\. (\d+) passed, (\d+) failed\.$`)
)

const noTestsLine = "No tests ran"

// Transcript is a parsed results log.
type Transcript struct {
	Discovery string   // Discovery report line
	Modules   []string // Module header lines in run order
	Errors    []string // Enumeration errors
	Counts    TestCounts

	// Summary is the final line; empty when the run did not finish.
	Summary        string
	SummaryPassed  int
	SummaryFailed  int
	SummaryPresent bool
}

// Complete reports whether the run wrote its summary line.
func (t *Transcript) Complete() bool {
	return t.SummaryPresent
}

// Consistent reports whether the summary counts match the per-function
// result lines. An incomplete transcript is never consistent.
func (t *Transcript) Consistent() bool {
	return t.SummaryPresent &&
		t.SummaryPassed == t.Counts.Passed &&
		t.SummaryFailed == t.Counts.Failed
}

// ParseTranscript reads a results log. Assertion lines are attached to the
// next [FAIL] line of the same module.
func ParseTranscript(r io.Reader) (*Transcript, error) {
	t := &Transcript{}
	var module string
	var pending []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "":
		case strings.HasPrefix(line, transcript.PassPrefix):
			t.Counts.Passed++
			pending = nil
		case strings.HasPrefix(line, transcript.FailPrefix):
			t.Counts.Failed++
			t.Counts.FailedTests = append(t.Counts.FailedTests, FailedTest{
				Module:  module,
				Name:    strings.TrimPrefix(line, transcript.FailPrefix),
				Reasons: pending,
			})
			pending = nil
		case strings.HasPrefix(line, transcript.AssertionPrefix):
			pending = append(pending, strings.TrimPrefix(line, transcript.AssertionPrefix))
		case strings.HasPrefix(line, transcript.ErrorPrefix):
			t.Errors = append(t.Errors, strings.TrimPrefix(line, transcript.ErrorPrefix))
		case line == noTestsLine:
			t.Summary = line
			t.SummaryPresent = true
		case summaryLineRegex.MatchString(line):
			m := summaryLineRegex.FindStringSubmatch(line)
			t.Summary = line
			t.SummaryPresent = true
			t.SummaryPassed, _ = strconv.Atoi(m[2])
			t.SummaryFailed, _ = strconv.Atoi(m[3])
		case t.Discovery == "" && discoveryLineRegex.MatchString(line):
			t.Discovery = line
		default:
			module = line
			t.Modules = append(t.Modules, line)
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	t.Counts.Total = t.Counts.Passed + t.Counts.Failed
	t.Counts.Parsed = t.Counts.Total > 0 || t.SummaryPresent
	return t, nil
}

// TranscriptParser adapts ParseTranscript to the Parser interface.
type TranscriptParser struct{}

// Name returns the parser name.
func (p *TranscriptParser) Name() string {
	return "skyunit"
}

// Parse extracts test counts from a results log.
func (p *TranscriptParser) Parse(output string) TestCounts {
	t, err := ParseTranscript(strings.NewReader(output))
	if err != nil {
		return TestCounts{}
	}
	return t.Counts
}
