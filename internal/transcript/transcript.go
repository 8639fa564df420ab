// Package transcript writes the plain-text results log of a run.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AndreyAkinshin/skyunit/internal/output"
)

// Line prefixes written by the orchestrator.
const (
	PassPrefix      = "[PASS] "
	FailPrefix      = "[FAIL] "
	AssertionPrefix = "FAIL! "
	ErrorPrefix     = "[ERROR] "
)

// Sink accepts transcript lines.
type Sink interface {
	// Line appends a formatted line.
	Line(format string, args ...interface{})
	// Module appends the header line naming the module about to run.
	Module(name string)
}

// Transcript writes one line per call and flushes after every line, so the
// file is complete up to the last line even if the process is killed.
type Transcript struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	mirror *output.Writer
	path   string
	err    error // first write error
}

// New creates a transcript writing to w. mirror may be nil.
func New(w io.Writer, mirror *output.Writer) *Transcript {
	t := &Transcript{w: bufio.NewWriter(w), mirror: mirror}
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t
}

// Open creates dir if needed and truncates dir/name.
func Open(dir, name string, mirror *output.Writer) (*Transcript, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create transcript: %w", err)
	}
	t := New(f, mirror)
	t.path = path
	return t, nil
}

// Path returns the file path for transcripts created by Open.
func (t *Transcript) Path() string {
	return t.path
}

// Line formats and appends one line.
func (t *Transcript) Line(format string, args ...interface{}) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	t.write(Classify(line), line)
}

// Module appends a module header line.
func (t *Transcript) Module(name string) {
	t.write(output.LineModule, name)
}

func (t *Transcript) write(kind int, line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		if _, err := t.w.WriteString(line + "\n"); err != nil {
			t.err = err
		} else if err := t.w.Flush(); err != nil {
			t.err = err
		}
	}
	if t.mirror != nil {
		t.mirror.TranscriptLine(kind, line)
	}
}

// Err returns the first error writing a line, if any. Lines after a failed
// write are dropped from the file but still mirrored.
func (t *Transcript) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Close flushes and closes the underlying file. It reports the first write
// error, so a truncated transcript is never silent.
func (t *Transcript) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.err
	if err == nil {
		err = t.w.Flush()
	}
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Classify maps a transcript line to its output line kind.
func Classify(line string) int {
	switch {
	case strings.HasPrefix(line, PassPrefix):
		return output.LinePass
	case strings.HasPrefix(line, FailPrefix):
		return output.LineFail
	case strings.HasPrefix(line, AssertionPrefix):
		return output.LineAssertion
	}
	return output.LinePlain
}

// Discard is a Sink that drops every line.
var Discard Sink = discard{}

type discard struct{}

func (discard) Line(string, ...interface{}) {}
func (discard) Module(string)                {}
