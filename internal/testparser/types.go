// Package testparser extracts results from test output: SkyUnit transcripts
// and the verbose output of compiled Go test binaries.
package testparser

// FailedTest holds information about a single failed test.
type FailedTest struct {
	Module  string   // Module the test belongs to, when known
	Name    string   // Test name (e.g., "TestFoo/subtest")
	Reasons []string // Failure messages in the order they were reported
}

// Reason returns the first failure message, or "" when none was reported.
func (f FailedTest) Reason() string {
	if len(f.Reasons) == 0 {
		return ""
	}
	return f.Reasons[0]
}

// TestCounts holds parsed test result counts.
type TestCounts struct {
	Passed      int
	Failed      int
	Skipped     int
	Total       int
	Parsed      bool         // true if counts were successfully extracted
	FailedTests []FailedTest // details of failed tests
}

// Add adds another TestCounts to this one, aggregating the counts.
// Parsed is sticky: the aggregate is parsed when any part was.
func (tc *TestCounts) Add(other *TestCounts) {
	if other == nil {
		return
	}
	tc.Passed += other.Passed
	tc.Failed += other.Failed
	tc.Skipped += other.Skipped
	tc.Total += other.Total
	tc.FailedTests = append(tc.FailedTests, other.FailedTests...)
	if other.Parsed {
		tc.Parsed = true
	}
}

// Parser defines the interface for test output parsers.
type Parser interface {
	// Parse extracts test counts from test output.
	Parse(output string) TestCounts
	// Name returns the name of the parser.
	Name() string
}

// Truncate shortens s to at most max bytes, marking the cut with "...".
func Truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
