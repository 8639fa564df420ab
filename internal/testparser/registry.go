package testparser

import (
	"sort"
	"strings"
)

// Registry maps output format names to their parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a registry with the built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	transcriptParser := &TranscriptParser{}
	goParser := &GoParser{}

	r.parsers["skyunit"] = transcriptParser
	r.parsers["transcript"] = transcriptParser
	r.parsers["go"] = goParser
	r.parsers["gotest"] = goParser

	return r
}

// GetParser returns the parser for format, or nil.
func (r *Registry) GetParser(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// RegisterParser adds a custom parser for a format.
func (r *Registry) RegisterParser(format string, parser Parser) {
	r.parsers[strings.ToLower(format)] = parser
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
