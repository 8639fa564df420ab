// Package script defines the contract between the orchestrator and the
// runtime that executes test functions.
package script

// CheckFunctionName is the name the check function is registered under.
const CheckFunctionName = "assert"

// CheckFunc is the native check exposed to test code. It records a failure
// when result is false and always returns result unchanged.
type CheckFunc func(result bool, message string) bool

// Runtime executes module functions asynchronously.
type Runtime interface {
	// Register exposes a native check function to test code under name.
	Register(name string, fn CheckFunc) error

	// Functions returns the functions module exposes, in declaration order.
	Functions(module string) ([]string, error)

	// Dispatch starts module.function with no arguments and returns without
	// waiting. onComplete is called exactly once when execution ends, possibly
	// from another goroutine. A non-nil error means nothing was started and
	// onComplete will not be called.
	Dispatch(module, function string, onComplete func()) error
}
