package testparser

import (
	"regexp"
	"slices"
	"strings"
)

var (
	goPassRegex     = regexp.MustCompile(`(?m)^---\s+PASS:\s+`)
	goFailRegex     = regexp.MustCompile(`(?m)^---\s+FAIL:\s+(\S+)`)
	goSkipRegex     = regexp.MustCompile(`(?m)^---\s+SKIP:\s+`)
	goFailLineRegex = regexp.MustCompile(`^---\s+FAIL:\s+(\S+)\s+`)
	goErrorLine     = regexp.MustCompile(`^\s+\S+\.go:\d+:`)
)

// GoParser parses the verbose output of a Go test binary:
//
//	=== RUN   TestFoo
//	    foo_test.go:15: expected 42, got 0
//	--- FAIL: TestFoo (0.01s)
type GoParser struct{}

// Name returns the parser name.
func (p *GoParser) Name() string {
	return "go"
}

// Parse extracts test counts from Go test output.
func (p *GoParser) Parse(output string) TestCounts {
	counts := TestCounts{}

	counts.Passed = len(goPassRegex.FindAllString(output, -1))
	counts.Skipped = len(goSkipRegex.FindAllString(output, -1))

	failMatches := goFailRegex.FindAllStringSubmatch(output, -1)
	counts.Failed = len(failMatches)
	if counts.Failed > 0 {
		lines := strings.Split(output, "\n")
		for _, match := range failMatches {
			counts.FailedTests = append(counts.FailedTests, FailedTest{
				Name:    match[1],
				Reasons: failureReasons(lines, match[1]),
			})
		}
	}

	// A bare "PASS"/"ok" summary without per-test lines stays unparsed.
	if counts.Passed > 0 || counts.Failed > 0 || counts.Skipped > 0 {
		counts.Parsed = true
		counts.Total = counts.Passed + counts.Failed + counts.Skipped
	}
	return counts
}

// GoFailureReasons returns the "file.go:N: message" messages logged by test
// before its FAIL line, with the file prefix stripped.
func GoFailureReasons(output, test string) []string {
	return failureReasons(strings.Split(output, "\n"), test)
}

// GoFailed reports whether output contains a FAIL line for test.
func GoFailed(output, test string) bool {
	for _, match := range goFailRegex.FindAllStringSubmatch(output, -1) {
		if match[1] == test {
			return true
		}
	}
	return false
}

// isTestBoundary returns true if the line marks the start of a test run
// or the result of a test.
func isTestBoundary(line string) bool {
	return strings.HasPrefix(line, "=== RUN") ||
		strings.HasPrefix(line, "--- PASS:") ||
		strings.HasPrefix(line, "--- FAIL:") ||
		strings.HasPrefix(line, "--- SKIP:")
}

func failureReasons(lines []string, testName string) []string {
	failLineIdx := -1
	for i, line := range lines {
		match := goFailLineRegex.FindStringSubmatch(line)
		if match != nil && match[1] == testName {
			failLineIdx = i
			break
		}
	}
	if failLineIdx == -1 {
		return nil
	}

	var reasons []string
	for i := failLineIdx - 1; i >= 0; i-- {
		line := lines[i]
		if isTestBoundary(line) {
			break
		}
		if goErrorLine.MatchString(line) {
			reasons = append(reasons, stripLocation(strings.TrimSpace(line)))
		}
	}
	// Collected bottom-up.
	slices.Reverse(reasons)
	return reasons
}

// stripLocation drops the "file.go:N: " prefix of a log line.
func stripLocation(line string) string {
	idx := strings.Index(line, ".go:")
	if idx == -1 {
		return line
	}
	afterFile := line[idx+4:]
	if colonIdx := strings.Index(afterFile, ": "); colonIdx != -1 {
		return strings.TrimSpace(afterFile[colonIdx+2:])
	}
	return line
}
