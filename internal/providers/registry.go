package providers

import (
	"fmt"
	"sort"
	"sync"
)

// ProviderFactory creates a provider from its configuration.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// Registry manages provider factories and the enabled instances.
// Instances are created once at startup and never re-read per request.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	enabled   map[string]Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]ProviderFactory),
		enabled:   make(map[string]Provider),
	}
}

// RegisterFactory registers a factory for a provider name.
func (r *Registry) RegisterFactory(name string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Enable builds the named provider from cfg and makes it available.
func (r *Registry) Enable(name string, cfg ProviderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	factory, ok := r.factories[name]
	if !ok {
		return fmt.Errorf("provider not registered: %s", name)
	}
	p, err := factory(cfg)
	if err != nil {
		return fmt.Errorf("failed to create provider %s: %w", name, err)
	}
	r.enabled[name] = p
	return nil
}

// Add makes an already-built provider available (tests, wrappers).
func (r *Registry) Add(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled[p.Name()] = p
}

// Get returns the enabled provider or ErrUnknownProvider.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.enabled[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// Enabled returns the sorted names of the enabled providers.
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.enabled))
	for name := range r.enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Wrap replaces every enabled provider with wrap(p).
func (r *Registry) Wrap(wrap func(Provider) Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, p := range r.enabled {
		r.enabled[name] = wrap(p)
	}
}
