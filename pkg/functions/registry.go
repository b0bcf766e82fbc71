package functions

import (
	"sort"
	"strings"
	"sync"
)

// Registry maps upper-cased function names to descriptors.
//
// Safe for concurrent use by multiple goroutines.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]*Descriptor)}
}

// Add registers descriptors, replacing any previous ones with the same name.
func (r *Registry) Add(descriptors ...*Descriptor) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range descriptors {
		r.descriptors[strings.ToUpper(d.Name)] = d
	}
	return r
}

// Get returns the descriptor of name, case-insensitively.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[strings.ToUpper(name)]
	return d, ok
}

// Names returns the registered names in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}
