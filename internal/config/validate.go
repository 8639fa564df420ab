package config

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/skyunit/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied and returns warnings
// for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := validateScripts(cfg.Scripts); err != nil {
		return nil, err
	}
	if err := validateReady(cfg.Ready); err != nil {
		return nil, err
	}
	if err := validateLog(cfg.Log); err != nil {
		return nil, err
	}
	if cfg.Ready.Mode != ReadyFile && cfg.Ready.File != "" {
		warnings = append(warnings, fmt.Sprintf("ready.file is ignored in %q mode", cfg.Ready.Mode))
	}
	if ext, ok := runtimeExtensions[cfg.Scripts.Runtime]; ok && !strings.EqualFold(ext, cfg.Scripts.Extension) {
		warnings = append(warnings, fmt.Sprintf("scripts.extension %q differs from the %s runtime default %q",
			cfg.Scripts.Extension, cfg.Scripts.Runtime, ext))
	}
	return warnings, nil
}

func validateScripts(s ScriptsConfig) error {
	if _, ok := runtimeExtensions[s.Runtime]; !ok {
		return &ValidationError{
			Field:   "scripts.runtime",
			Message: fmt.Sprintf("unknown runtime %q (want %q or %q)", s.Runtime, RuntimeHCL, RuntimeGoTest),
		}
	}
	if strings.ContainsAny(s.Suffix, `/\*?`) {
		return &ValidationError{Field: "scripts.suffix", Message: "must not contain path separators or wildcards"}
	}
	if !strings.HasPrefix(s.Extension, ".") || len(s.Extension) < 2 {
		return &ValidationError{Field: "scripts.extension", Message: `must start with "." (e.g. ".hcl")`}
	}
	return nil
}

func validateReady(r ReadyConfig) error {
	switch r.Mode {
	case ReadyImmediate, ReadySignal:
		return nil
	case ReadyFile:
		if r.File == "" {
			return &ValidationError{Field: "ready.file", Message: `is required in "file" mode`}
		}
		return nil
	}
	return &ValidationError{
		Field:   "ready.mode",
		Message: fmt.Sprintf("unknown mode %q (want %q, %q or %q)", r.Mode, ReadyImmediate, ReadyFile, ReadySignal),
	}
}

func validateLog(l LogConfig) error {
	if !logging.ValidLevel(l.Level) {
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", l.Level)}
	}
	if l.Format != logging.FormatConsole && l.Format != logging.FormatJSON {
		return &ValidationError{Field: "log.format", Message: `must be "console" or "json"`}
	}
	return nil
}
