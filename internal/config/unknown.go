package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseWithWarnings parses configuration data and returns warnings for keys
// the configuration does not know.
func ParseWithWarnings(data []byte) (*Config, []string, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}
	return cfg, detectUnknownFields(data), nil
}

// detectUnknownFields compares the raw document with known struct fields.
func detectUnknownFields(data []byte) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// Parse already succeeded, so a failure here is internal.
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	var warnings []string
	configType := reflect.TypeOf(Config{})
	known := getYAMLFields(configType)
	for _, key := range sortedKeys(raw) {
		field, ok := known[key]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
			continue
		}
		section, ok := raw[key].(map[string]any)
		if !ok || field.Kind() != reflect.Struct {
			continue
		}
		nested := getYAMLFields(field)
		for _, sub := range sortedKeys(section) {
			if _, ok := nested[sub]; !ok {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", sub, key))
			}
		}
	}
	return warnings
}

// getYAMLFields maps the yaml field names of a struct type to their types.
func getYAMLFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = field.Type
		}
	}
	return fields
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
