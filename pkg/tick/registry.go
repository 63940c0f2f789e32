package tick

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps scheme names to instances. The zero value is not usable;
// call NewRegistry. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemes map[string]TickScheme
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemes: make(map[string]TickScheme)}
}

// Register adds a scheme under its name. Re-registering the same
// instance is a no-op; a different instance under an existing name fails
// with ErrDuplicateScheme.
func (r *Registry) Register(scheme TickScheme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.schemes[scheme.Name()]
	if ok {
		if existing == scheme {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateScheme, scheme.Name())
	}
	r.schemes[scheme.Name()] = scheme
	return nil
}

// Get returns the scheme registered under name.
func (r *Registry) Get(name string) (TickScheme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scheme, ok := r.schemes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemeNotFound, name)
	}
	return scheme, nil
}

// Names returns the registered scheme names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemes))
	for name := range r.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultRegistry backs the package-level convenience functions.
var defaultRegistry = NewRegistry()

// RegisterTickScheme adds a scheme to the default registry.
func RegisterTickScheme(scheme TickScheme) error {
	return defaultRegistry.Register(scheme)
}

// GetTickScheme looks a scheme up in the default registry.
func GetTickScheme(name string) (TickScheme, error) {
	return defaultRegistry.Get(name)
}

// TickSchemeNames lists the default registry's scheme names.
func TickSchemeNames() []string {
	return defaultRegistry.Names()
}
