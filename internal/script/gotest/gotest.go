// Package gotest hosts test modules that are compiled Go test binaries
// (built with "go test -c"). Each top-level Test function of a binary is a
// test function of the module.
package gotest

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/skyunit/internal/errors"
	"github.com/AndreyAkinshin/skyunit/internal/script"
	"github.com/AndreyAkinshin/skyunit/internal/testparser"
)

// Extension is the artifact extension of compiled Go test binaries.
const Extension = ".test"

// ExecFunc runs binary with args and returns its combined output. A non-nil
// error means the binary could not run or exited with a failure status.
type ExecFunc func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Options configures a Runtime.
type Options struct {
	Dir       string // Directory holding the binaries
	Extension string // Defaults to Extension
	Logger    zerolog.Logger

	// Exec runs binaries; defaults to os/exec.
	Exec ExecFunc
}

// Runtime is a script.Runtime over compiled Go test binaries.
type Runtime struct {
	dir    string
	ext    string
	logger zerolog.Logger
	exec   ExecFunc
	parser testparser.GoParser

	mu       sync.Mutex
	binaries map[string]string
	checks   map[string]script.CheckFunc
}

// New creates a runtime for binaries in opts.Dir.
func New(opts Options) *Runtime {
	ext := opts.Extension
	if ext == "" {
		ext = Extension
	}
	run := opts.Exec
	if run == nil {
		run = execCommand
	}
	return &Runtime{
		dir:      opts.Dir,
		ext:      ext,
		logger:   opts.Logger,
		exec:     run,
		binaries: make(map[string]string),
		checks:   make(map[string]script.CheckFunc),
	}
}

func execCommand(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = filepath.Dir(binary)
	return cmd.CombinedOutput()
}

// Register implements script.Runtime. Binaries report through their own
// testing.T, so only the default check function is used.
func (r *Runtime) Register(name string, fn script.CheckFunc) error {
	if fn == nil {
		return errors.Newf("register %s: nil function", name)
	}
	r.mu.Lock()
	r.checks[name] = fn
	r.mu.Unlock()
	return nil
}

// Functions implements script.Runtime by listing the binary's tests.
func (r *Runtime) Functions(module string) ([]string, error) {
	binary, err := r.resolve(module)
	if err != nil {
		return nil, err
	}
	out, err := r.exec(context.Background(), binary, "-test.list", ".")
	if err != nil {
		return nil, errors.Newf("list tests of %s: %v: %s", binary, err, lastLine(out))
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(name, "Test") || strings.HasPrefix(name, "Example") {
			names = append(names, name)
		}
	}
	return names, nil
}

// Dispatch implements script.Runtime. The binary runs on its own goroutine;
// each failure message it logs becomes a failing check.
func (r *Runtime) Dispatch(module, function string, onComplete func()) error {
	binary, err := r.resolve(module)
	if err != nil {
		return err
	}
	r.mu.Lock()
	check := r.checks[script.CheckFunctionName]
	r.mu.Unlock()
	if check == nil {
		check = func(result bool, _ string) bool { return result }
	}

	go func() {
		defer onComplete()
		r.run(binary, module, function, check)
	}()
	return nil
}

func (r *Runtime) run(binary, module, function string, check script.CheckFunc) {
	pattern := "^" + regexp.QuoteMeta(function) + "$"
	out, err := r.exec(context.Background(), binary, "-test.run", pattern, "-test.v", "-test.count=1")
	output := string(out)
	r.logger.Debug().Str("module", module).Str("function", function).Err(err).Int("bytes", len(out)).Msg("binary finished")

	if testparser.GoFailed(output, function) {
		reported := false
		for _, ft := range r.parser.Parse(output).FailedTests {
			if ft.Name != function && !strings.HasPrefix(ft.Name, function+"/") {
				continue
			}
			for _, reason := range ft.Reasons {
				check(false, reason)
				reported = true
			}
		}
		if !reported {
			check(false, function+" failed")
		}
		return
	}
	if err != nil {
		check(false, "run "+filepath.Base(binary)+": "+err.Error()+": "+lastLine(out))
		return
	}
	if strings.Contains(output, "testing: warning: no tests to run") {
		check(false, function+" not found in "+filepath.Base(binary))
	}
}

// resolve finds the binary of a module, matching its name case-insensitively.
func (r *Runtime) resolve(module string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.binaries[module]; ok {
		return p, nil
	}

	want := module + r.ext
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return "", errors.Newf("list %s: %v", r.dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), want) {
			p, err := filepath.Abs(filepath.Join(r.dir, e.Name()))
			if err != nil {
				return "", err
			}
			r.binaries[module] = p
			return p, nil
		}
	}
	return "", errors.NotFound("module", module)
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
