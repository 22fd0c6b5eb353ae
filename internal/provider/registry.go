package provider

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProvider indicates a lookup for a provider name that was never
// registered.
var ErrUnknownProvider = errors.New("unknown provider")

// Registry holds the configured providers, keyed by name.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry from the given providers.
// Registering two providers with the same name is a programming error.
func NewRegistry(providers ...Provider) (*Registry, error) {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		if _, dup := m[p.Name()]; dup {
			return nil, fmt.Errorf("duplicate provider %q", p.Name())
		}
		m[p.Name()] = p
	}
	return &Registry{providers: m}, nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// Has reports whether a provider is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.providers[name]
	return ok
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
