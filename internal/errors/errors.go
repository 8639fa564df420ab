// Package errors provides structured error types and exit codes for SkyUnit.
package errors

import (
	"fmt"
	"strings"
)

// Exit codes returned by the skyunit binary.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (dispatch failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config, etc.)
	ExitEnvironmentError = 3 // Environment error (scripts directory unreadable, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
	KindDiscovery
)

// SkyunitError is the base error type for SkyUnit.
type SkyunitError struct {
	Kind     ErrorKind
	Message  string
	Module   string // Test module name if applicable
	Function string // Test function name if applicable
	Cause    error  // Underlying error
}

func (e *SkyunitError) Error() string {
	msg := e.Message
	if e.Cause != nil && !strings.Contains(msg, e.Cause.Error()) {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Module != "" && e.Function != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Module, e.Function, msg)
	}
	if e.Module != "" {
		return fmt.Sprintf("[%s] %s", e.Module, msg)
	}
	return msg
}

func (e *SkyunitError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *SkyunitError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment, KindDiscovery:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *SkyunitError {
	return &SkyunitError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *SkyunitError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *SkyunitError {
	return &SkyunitError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *SkyunitError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *SkyunitError {
	return &SkyunitError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *SkyunitError {
	return Environment(fmt.Sprintf(format, args...))
}

// Discovery creates an error for a scripts location that could not be listed.
// It is distinct from a discovery that simply found no test modules.
func Discovery(location string, cause error) *SkyunitError {
	return &SkyunitError{
		Kind:    KindDiscovery,
		Message: fmt.Sprintf("discovery failed for %s", location),
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *SkyunitError {
	return &SkyunitError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// FunctionError creates an error for a specific test function.
func FunctionError(module, function, message string) *SkyunitError {
	return &SkyunitError{
		Kind:     KindRuntime,
		Module:   module,
		Function: function,
		Message:  message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *SkyunitError {
	return &SkyunitError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// IsKind reports whether err is a SkyunitError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	se, ok := err.(*SkyunitError)
	return ok && se.Kind == kind
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if se, ok := err.(*SkyunitError); ok {
		return se.ExitCode()
	}
	return ExitRuntimeError
}
