package config

import (
	"github.com/AndreyAkinshin/skyunit/pkg/skyunit"
)

// Default configuration values.
const (
	DefaultScriptsDir    = "Data/Scripts"
	DefaultSuffix        = "UnitTest"
	DefaultRuntime       = RuntimeHCL
	DefaultTranscriptDir = "logs"
	DefaultReadyMode     = ReadyImmediate
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// Runtime names.
const (
	RuntimeHCL    = "hcl"
	RuntimeGoTest = "gotest"
)

// Ready modes.
const (
	ReadyImmediate = "immediate"
	ReadyFile      = "file"
	ReadySignal    = "signal"
)

// runtimeExtensions maps runtimes to their default artifact extension.
var runtimeExtensions = map[string]string{
	RuntimeHCL:    ".hcl",
	RuntimeGoTest: ".test",
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for unset configuration fields.
// Call it again after overriding fields, since the extension follows the
// runtime.
func ApplyDefaults(cfg *Config) {
	applyScriptsDefaults(cfg)
	applyTranscriptDefaults(cfg)
	if cfg.Ready.Mode == "" {
		cfg.Ready.Mode = DefaultReadyMode
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

func applyScriptsDefaults(cfg *Config) {
	if cfg.Scripts.Dir == "" {
		cfg.Scripts.Dir = DefaultScriptsDir
	}
	if cfg.Scripts.Suffix == "" {
		cfg.Scripts.Suffix = DefaultSuffix
	}
	if cfg.Scripts.Runtime == "" {
		cfg.Scripts.Runtime = DefaultRuntime
	}
	if cfg.Scripts.Extension == "" {
		cfg.Scripts.Extension = runtimeExtensions[cfg.Scripts.Runtime]
	}
}

func applyTranscriptDefaults(cfg *Config) {
	if cfg.Transcript.Dir == "" {
		cfg.Transcript.Dir = DefaultTranscriptDir
	}
	if cfg.Transcript.File == "" {
		cfg.Transcript.File = skyunit.TranscriptFileName
	}
}
