package testparser

import (
	"reflect"
	"testing"
)

// assertTestCountsEqual compares counts, ignoring FailedTests details.
func assertTestCountsEqual(t *testing.T, got, want TestCounts) {
	t.Helper()
	if got.Passed != want.Passed || got.Failed != want.Failed ||
		got.Skipped != want.Skipped || got.Total != want.Total || got.Parsed != want.Parsed {
		t.Errorf("counts = {Passed:%d Failed:%d Skipped:%d Total:%d Parsed:%v}, want {Passed:%d Failed:%d Skipped:%d Total:%d Parsed:%v}",
			got.Passed, got.Failed, got.Skipped, got.Total, got.Parsed,
			want.Passed, want.Failed, want.Skipped, want.Total, want.Parsed)
	}
}

func TestTestCountsAdd(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		base     TestCounts
		add      *TestCounts
		expected TestCounts
	}{
		{
			name:     "add to zero",
			base:     TestCounts{},
			add:      &TestCounts{Passed: 10, Failed: 2, Skipped: 3, Total: 15, Parsed: true},
			expected: TestCounts{Passed: 10, Failed: 2, Skipped: 3, Total: 15, Parsed: true},
		},
		{
			name:     "add to existing",
			base:     TestCounts{Passed: 5, Failed: 1, Skipped: 2, Total: 8, Parsed: true},
			add:      &TestCounts{Passed: 10, Failed: 2, Skipped: 3, Total: 15, Parsed: true},
			expected: TestCounts{Passed: 15, Failed: 3, Skipped: 5, Total: 23, Parsed: true},
		},
		{
			name:     "add nil",
			base:     TestCounts{Passed: 5, Failed: 1, Total: 6, Parsed: true},
			add:      nil,
			expected: TestCounts{Passed: 5, Failed: 1, Total: 6, Parsed: true},
		},
		{
			name:     "parsed is sticky",
			base:     TestCounts{Parsed: true},
			add:      &TestCounts{Passed: 1, Total: 1},
			expected: TestCounts{Passed: 1, Total: 1, Parsed: true},
		},
		{
			name:     "unparsed becomes parsed",
			base:     TestCounts{},
			add:      &TestCounts{Parsed: true},
			expected: TestCounts{Parsed: true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tc := tt.base
			tc.Add(tt.add)
			assertTestCountsEqual(t, tc, tt.expected)
		})
	}
}

func TestTestCountsAdd_FailedTests(t *testing.T) {
	t.Parallel()
	tc := TestCounts{FailedTests: []FailedTest{{Name: "TestA"}}}
	tc.Add(&TestCounts{FailedTests: []FailedTest{{Module: "FooUnitTest", Name: "TestB", Reasons: []string{"x"}}}})

	want := []FailedTest{{Name: "TestA"}, {Module: "FooUnitTest", Name: "TestB", Reasons: []string{"x"}}}
	if !reflect.DeepEqual(tc.FailedTests, want) {
		t.Errorf("FailedTests = %+v, want %+v", tc.FailedTests, want)
	}
}

func TestFailedTestReason(t *testing.T) {
	t.Parallel()
	if got := (FailedTest{}).Reason(); got != "" {
		t.Errorf("Reason() = %q, want empty", got)
	}
	if got := (FailedTest{Reasons: []string{"first", "second"}}).Reason(); got != "first" {
		t.Errorf("Reason() = %q, want first", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 80, "short"},
		{"abcdefghij", 10, "abcdefghij"},
		{"abcdefghijk", 10, "abcdefg..."},
		{"abcdef", 3, "abcdef"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
