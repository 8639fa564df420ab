package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/skyunit/internal/schema"
)

// Load reads and parses a skyunit.yaml file without applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration data without applying defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// LoadWithDefaults reads a config file and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadAndValidate reads a config file, checks it against the schema,
// applies defaults and validates it. Unknown keys are reported as warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseAndValidate(data)
}

// ParseAndValidate is LoadAndValidate over in-memory data.
func ParseAndValidate(data []byte) (*Config, []string, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if doc != nil {
		if err := schema.ValidateValue(doc); err != nil {
			return nil, nil, err
		}
	}

	cfg, warnings, err := ParseWithWarnings(data)
	if err != nil {
		return nil, nil, err
	}

	ApplyDefaults(cfg)
	validationWarnings, err := Validate(cfg)
	warnings = append(warnings, validationWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}

// Resolve loads path when given; otherwise it loads FileName from the
// working directory if present and falls back to the defaults.
func Resolve(path string) (*Config, []string, error) {
	if path != "" {
		return LoadAndValidate(path)
	}
	cfg, warnings, err := LoadAndValidate(FileName)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil, nil
	}
	return cfg, warnings, err
}
