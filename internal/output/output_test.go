package output

import (
	"bytes"
	"strings"
	"testing"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	w := &Writer{
		out:   stdout,
		err:   stderr,
		color: false,
		quiet: false,
	}
	return w, stdout, stderr
}

func TestNew(t *testing.T) {
	w := New()
	if w == nil {
		t.Fatal("New() returned nil")
	}
	if w.out == nil {
		t.Error("out writer is nil")
	}
	if w.err == nil {
		t.Error("err writer is nil")
	}
}

func TestWriter_Println(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Println("hello %s", "world")

	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("Println() = %q, want %q", got, "hello world\n")
	}
}

func TestWriter_Errorln(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Errorln("error %d", 42)

	if got := stderr.String(); got != "error 42\n" {
		t.Errorf("Errorln() = %q, want %q", got, "error 42\n")
	}
}

func TestWriter_Info(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		expect string
	}{
		{"normal mode", false, "info message\n"},
		{"quiet mode", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.quiet = tt.quiet

			w.Info("info %s", "message")

			if got := stdout.String(); got != tt.expect {
				t.Errorf("Info() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_Warning(t *testing.T) {
	tests := []struct {
		name   string
		color  bool
		expect string
	}{
		{"without color", false, "warning: caution\n"},
		{"with color", true, "\033[33mwarning: caution\033[0m\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, stderr := newTestWriter()
			w.color = tt.color

			w.Warning("caution")

			if got := stderr.String(); got != tt.expect {
				t.Errorf("Warning() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_ErrorPrefix(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.ErrorPrefix("discovery failed for %s", "Data/Scripts")

	if got := stderr.String(); got != "skyunit: discovery failed for Data/Scripts\n" {
		t.Errorf("ErrorPrefix() = %q", got)
	}
}

func TestWriter_TranscriptLine(t *testing.T) {
	tests := []struct {
		name   string
		kind   int
		quiet  bool
		color  bool
		expect string
	}{
		{"module plain", LineModule, false, false, "FooUnitTest\n"},
		{"module color", LineModule, false, true, "\033[1m\033[36mFooUnitTest\033[0m\n"},
		{"module quiet", LineModule, true, false, ""},
		{"pass color", LinePass, false, true, "\033[32m[PASS] TestA\033[0m\n"},
		{"pass quiet", LinePass, true, false, ""},
		{"fail quiet still printed", LineFail, true, false, "[FAIL] TestB\n"},
		{"fail color", LineFail, false, true, "\033[31m[FAIL] TestB\033[0m\n"},
		{"plain", LinePlain, false, true, "Tests passed. 1 passed, 0 failed.\n"},
	}

	lines := map[int]string{
		LineModule: "FooUnitTest",
		LinePass:   "[PASS] TestA",
		LineFail:   "[FAIL] TestB",
		LinePlain:  "Tests passed. 1 passed, 0 failed.",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.quiet = tt.quiet
			w.color = tt.color

			w.TranscriptLine(tt.kind, lines[tt.kind])

			if got := stdout.String(); got != tt.expect {
				t.Errorf("TranscriptLine() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_Section(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		color  bool
		expect string
	}{
		{"normal without color", false, false, "\n=== Modules ===\n"},
		{"normal with color", false, true, "\n\033[1m=== Modules ===\033[0m\n"},
		{"quiet mode", true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.quiet = tt.quiet
			w.color = tt.color

			w.Section("Modules")

			if got := stdout.String(); got != tt.expect {
				t.Errorf("Section() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_List(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.List([]string{"TestA", "TestB"})

	expected := "  - TestA\n  - TestB\n"
	if got := stdout.String(); got != expected {
		t.Errorf("List() = %q, want %q", got, expected)
	}
}

func TestWriter_Table(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Table([]string{"Module", "Functions"}, [][]string{
		{"FooUnitTest", "2"},
		{"BarUnitTest", "10"},
	})

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Table() printed %d lines, want 4:\n%s", len(lines), stdout.String())
	}
	if lines[0] != "Module       Functions" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "-----------") {
		t.Errorf("separator = %q", lines[1])
	}
	if lines[3] != "BarUnitTest  10" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestWriter_Summary(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.SummaryHeader("Test Summary")
	w.SummaryPassed("Passed", "1")
	w.SummaryFailed("Failed", "1")
	w.FinalFailure("%d of %d tests failed.", 1, 2)

	expected := "\n=== Test Summary ===\n\n  Passed: 1\n  Failed: 1\n\n1 of 2 tests failed.\n"
	if got := stdout.String(); got != expected {
		t.Errorf("summary output = %q, want %q", got, expected)
	}
}
