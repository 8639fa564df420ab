// Package config provides configuration loading and validation for skyunit.yaml.
package config

// FileName is the configuration file looked up in the working directory.
const FileName = "skyunit.yaml"

// Config represents the complete skyunit.yaml configuration.
type Config struct {
	Scripts    ScriptsConfig    `yaml:"scripts"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Ready      ReadyConfig      `yaml:"ready"`
	Log        LogConfig        `yaml:"log"`
	StrictExit bool             `yaml:"strict_exit"`
}

// ScriptsConfig selects the test modules and the runtime hosting them.
type ScriptsConfig struct {
	Dir       string `yaml:"dir"`
	Suffix    string `yaml:"suffix"`
	Runtime   string `yaml:"runtime"`
	Extension string `yaml:"extension"`
}

// TranscriptConfig locates the results log.
type TranscriptConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// ReadyConfig selects the signal that starts the run.
type ReadyConfig struct {
	Mode string `yaml:"mode"`
	File string `yaml:"file"` // Watched path in "file" mode
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"` // Empty logs to stderr
}
