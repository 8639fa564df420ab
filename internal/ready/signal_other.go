//go:build !unix

package ready

import "os"

// DefaultSignal is the signal a host sends when it is ready.
var DefaultSignal os.Signal = os.Interrupt
