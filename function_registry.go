package filters

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Function is a callable exposed to predicate expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores predicate functions keyed by lower-cased name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
	// id changes on every Register; clones share it until they diverge.
	id uint64
}

var registryIDs atomic.Uint64

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("filters: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("filters: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("filters: function %q already registered", name)
	}
	r.functions[key] = fn
	r.id = registryIDs.Add(1)
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
		id:        r.id,
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("filters: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("filters: function %q not registered", name)
	}
	return fn(args...)
}

// fingerprint identifies the registry contents for program cache keys.
func (r *FunctionRegistry) fingerprint() uint64 {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// merge registers every function of other that r does not already hold.
func (r *FunctionRegistry) merge(other *FunctionRegistry) error {
	for _, name := range other.Names() {
		other.mu.RLock()
		fn := other.functions[name]
		other.mu.RUnlock()
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}
