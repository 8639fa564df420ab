package script

import (
	"fmt"
	"sync"

	"github.com/AndreyAkinshin/skyunit/internal/errors"
)

// Func is a test function hosted by the Memory runtime.
type Func func(check CheckFunc)

// Memory is a Runtime whose modules are Go functions registered in code.
// Dispatched functions run on their own goroutine unless Synchronous is set.
type Memory struct {
	// Synchronous makes Dispatch run the function and its completion callback
	// before returning.
	Synchronous bool

	mu      sync.RWMutex
	modules map[string]*memoryModule
	checks  map[string]CheckFunc
}

type memoryModule struct {
	order []string
	funcs map[string]Func
}

// NewMemory creates an empty in-memory runtime.
func NewMemory() *Memory {
	return &Memory{
		modules: make(map[string]*memoryModule),
		checks:  make(map[string]CheckFunc),
	}
}

// Add appends a function to module, creating the module on first use.
// Functions are enumerated in the order they were added.
func (m *Memory) Add(module, function string, fn Func) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	mod, ok := m.modules[module]
	if !ok {
		mod = &memoryModule{funcs: make(map[string]Func)}
		m.modules[module] = mod
	}
	if _, exists := mod.funcs[function]; !exists {
		mod.order = append(mod.order, function)
	}
	mod.funcs[function] = fn
	return m
}

// Register implements Runtime.
func (m *Memory) Register(name string, fn CheckFunc) error {
	if fn == nil {
		return fmt.Errorf("register %s: nil function", name)
	}
	m.mu.Lock()
	m.checks[name] = fn
	m.mu.Unlock()
	return nil
}

// Functions implements Runtime.
func (m *Memory) Functions(module string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mod, ok := m.modules[module]
	if !ok {
		return nil, errors.NotFound("module", module)
	}
	return append([]string(nil), mod.order...), nil
}

// Dispatch implements Runtime.
func (m *Memory) Dispatch(module, function string, onComplete func()) error {
	m.mu.RLock()
	mod, ok := m.modules[module]
	var fn Func
	if ok {
		fn = mod.funcs[function]
	}
	check := m.checks[CheckFunctionName]
	m.mu.RUnlock()

	if fn == nil {
		return errors.FunctionError(module, function, "function not found")
	}
	if check == nil {
		check = func(result bool, _ string) bool { return result }
	}

	run := func() {
		defer onComplete()
		fn(check)
	}
	if m.Synchronous {
		run()
		return nil
	}
	go run()
	return nil
}
