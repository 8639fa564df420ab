package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/skyunit/internal/config"
	"github.com/AndreyAkinshin/skyunit/internal/discovery"
	"github.com/AndreyAkinshin/skyunit/internal/errors"
	"github.com/AndreyAkinshin/skyunit/internal/logging"
	"github.com/AndreyAkinshin/skyunit/internal/orchestrator"
	"github.com/AndreyAkinshin/skyunit/internal/ready"
	"github.com/AndreyAkinshin/skyunit/internal/script"
	"github.com/AndreyAkinshin/skyunit/internal/script/gotest"
	"github.com/AndreyAkinshin/skyunit/internal/script/hclscript"
	"github.com/AndreyAkinshin/skyunit/internal/transcript"
)

// cmdRun discovers the modules, waits for the ready signal and runs them.
// It returns once the run controller has asked to exit.
func cmdRun(a *arguments, e *env) (code int) {
	cfg, code := loadConfig(a, e)
	if cfg == nil {
		return code
	}
	logger, closeLog, err := newLogger(cfg, e)
	if err != nil {
		e.out.ErrorPrefix("%v", err)
		return errors.ExitEnvironmentError
	}
	defer closeLog()

	fs, location := scriptsLocation(cfg.Scripts.Dir)
	rt := newRuntime(cfg, fs, location, logger)

	tr, err := transcript.Open(cfg.Transcript.Dir, cfg.Transcript.File, e.out)
	if err != nil {
		e.out.ErrorPrefix("open transcript: %v", err)
		return errors.ExitEnvironmentError
	}
	defer func() {
		if err := tr.Close(); err != nil {
			logger.Error().Err(err).Str("transcript", tr.Path()).Msg("transcript incomplete")
			e.out.ErrorPrefix("%s is incomplete: %v", tr.Path(), err)
			if code == errors.ExitSuccess {
				code = errors.ExitEnvironmentError
			}
		}
	}()
	logger.Info().Str("transcript", tr.Path()).Str("runtime", cfg.Scripts.Runtime).Str("dir", cfg.Scripts.Dir).Msg("starting")

	exits := make(chan int, 1)
	orch := orchestrator.New(orchestrator.Options{
		Repository: discovery.NewFSRepository(fs),
		Runtime:    rt,
		Sink:       tr,
		Exiter:     orchestrator.ExitFunc(func(code int) { exits <- code }),
		Logger:     logger,
		Location:   location,
		Suffix:     cfg.Scripts.Suffix,
		Extension:  cfg.Scripts.Extension,
		StrictExit: cfg.StrictExit,
	})

	n, err := orch.Init()
	if err != nil {
		e.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if n == 0 {
		return errors.ExitSuccess
	}

	src, err := newReadySource(cfg, logger)
	if err != nil {
		e.out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}
	if cfg.Ready.Mode != config.ReadyImmediate {
		e.out.Info("Waiting for the %s ready signal...", cfg.Ready.Mode)
	}
	if err := orch.Listen(src); err != nil {
		e.out.ErrorPrefix("wait for ready signal: %v", err)
		return errors.ExitEnvironmentError
	}
	return <-exits
}

// loadConfig resolves the configuration and applies command-line overrides.
// It returns a nil config and the exit code on failure.
func loadConfig(a *arguments, e *env) (*config.Config, int) {
	cfg, warnings, err := config.Resolve(a.configPath)
	for _, w := range warnings {
		e.out.Warning("%s", w)
	}
	if err != nil {
		e.out.ErrorPrefix("%v", err)
		return nil, errors.ExitConfigError
	}

	if a.dir != "" {
		cfg.Scripts.Dir = a.dir
	}
	if a.runtime != "" && a.runtime != cfg.Scripts.Runtime {
		cfg.Scripts.Runtime = a.runtime
		cfg.Scripts.Extension = ""
	}
	if a.ready != "" {
		cfg.Ready.Mode = a.ready
	}
	if a.readyFile != "" {
		cfg.Ready.File = a.readyFile
	}
	if a.logDir != "" {
		cfg.Transcript.Dir = a.logDir
	}
	if a.strictExit {
		cfg.StrictExit = true
	}
	if a.verbose {
		cfg.Log.Level = zerolog.LevelDebugValue
	}
	config.ApplyDefaults(cfg)

	if _, err := config.Validate(cfg); err != nil {
		e.out.ErrorPrefix("%v", err)
		return nil, errors.ExitConfigError
	}
	return cfg, errors.ExitSuccess
}

// newLogger builds the diagnostic logger; entries go to stderr unless the
// configuration names a log file.
func newLogger(cfg *config.Config, e *env) (zerolog.Logger, func(), error) {
	var w io.Writer = e.stderr
	closeFn := func() {}
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return zerolog.Nop(), closeFn, errors.Environmentf("create log directory: %v", err)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, errors.Environmentf("open log file: %v", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	logger, _ := logging.WithRunID(logging.New(cfg.Log.Level, cfg.Log.Format, w))
	return logger, closeFn, nil
}

// scriptsLocation splits dir into a filesystem and a location inside it.
// Relative directories below the working directory keep their relative
// spelling so reports read the way they were configured.
func scriptsLocation(dir string) (billy.Filesystem, string) {
	clean := filepath.ToSlash(filepath.Clean(dir))
	if !filepath.IsAbs(dir) && clean != ".." && !strings.HasPrefix(clean, "../") {
		return osfs.New("."), clean
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	root := filepath.VolumeName(abs) + string(filepath.Separator)
	return osfs.New(root), filepath.ToSlash(abs)
}

func newRuntime(cfg *config.Config, fs billy.Filesystem, location string, logger zerolog.Logger) script.Runtime {
	if cfg.Scripts.Runtime == config.RuntimeGoTest {
		return gotest.New(gotest.Options{
			Dir:       fs.Join(fs.Root(), location),
			Extension: cfg.Scripts.Extension,
			Logger:    logger,
		})
	}
	return hclscript.New(hclscript.Options{
		FS:        fs,
		Dir:       location,
		Extension: cfg.Scripts.Extension,
		Logger:    logger,
	})
}

func newReadySource(cfg *config.Config, logger zerolog.Logger) (ready.Source, error) {
	switch cfg.Ready.Mode {
	case config.ReadyFile:
		return ready.NewFile(cfg.Ready.File, logger), nil
	case config.ReadySignal:
		return ready.NewSignal(), nil
	case config.ReadyImmediate:
		return ready.Immediate{}, nil
	}
	return nil, errors.Configf("unknown ready mode %q", cfg.Ready.Mode)
}
