package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// BackendFactory builds a backend from resolved configuration. Factories
// are registered once at startup; no reflection is involved in selecting
// the active backend.
type BackendFactory func(cfg Config) (Authenticator, error)

type BackendRegistry struct {
	mu        sync.RWMutex
	factories map[string]BackendFactory
}

func NewBackendRegistry() *BackendRegistry {
	return &BackendRegistry{factories: make(map[string]BackendFactory)}
}

func (r *BackendRegistry) Register(name string, factory BackendFactory) error {
	if r == nil {
		return fmt.Errorf("core: backend registry is nil")
	}
	if factory == nil {
		return fmt.Errorf("core: backend factory is nil")
	}
	key := normalizeBackendName(name)
	if key == "" {
		return fmt.Errorf("core: backend name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("core: backend already registered: %s", key)
	}
	r.factories[key] = factory
	return nil
}

// Build resolves the named factory and constructs the backend. The empty
// name falls back to the configured default selector.
func (r *BackendRegistry) Build(name string, cfg Config) (Authenticator, error) {
	if r == nil {
		return nil, fmt.Errorf("core: backend registry is nil")
	}
	key := normalizeBackendName(name)
	if key == "" {
		key = normalizeBackendName(cfg.Backend)
	}
	if key == "" {
		return nil, fmt.Errorf("core: backend name is required")
	}
	r.mu.RLock()
	factory, ok := r.factories[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("core: backend not registered: %s", key)
	}
	return factory(cfg)
}

func (r *BackendRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func normalizeBackendName(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
