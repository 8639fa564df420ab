//go:build unix

package ready

import (
	"os"
	"syscall"
)

// DefaultSignal is the signal a host sends when it is ready.
var DefaultSignal os.Signal = syscall.SIGUSR1
