package mod

import (
	"fmt"
	"sync"
)

// Constructor builds a module instance from its configuration file path.
// Construction is the sole mechanism for discovering a module's declared
// dependencies, so a constructor must not perform any processing work.
type Constructor func(configPath string) (Module, error)

// Registry maps module names to constructor functions and their default
// configuration file paths. Modules are constructed fresh per request; they
// are never reused across requests except via the executor's result cache.
type Registry struct {
	entries      map[string]registryEntry
	sync.RWMutex // Add thread safety
}

type registryEntry struct {
	constructor Constructor
	configPath  string
}

// NewRegistry creates a new module registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
	}
}

// Register adds a module constructor to the registry under the given name
func (r *Registry) Register(name string, configPath string, constructor Constructor) error {
	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}
	if constructor == nil {
		return fmt.Errorf("cannot register nil constructor for module %s", name)
	}

	r.Lock()
	defer r.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("module %s is already registered", name)
	}

	r.entries[name] = registryEntry{constructor: constructor, configPath: configPath}
	return nil
}

// Has reports whether a module name is registered
func (r *Registry) Has(name string) bool {
	r.RLock()
	defer r.RUnlock()

	_, exists := r.entries[name]
	return exists
}

// New constructs a fresh module instance. If configPath is empty, the
// config path recorded at registration time is used.
func (r *Registry) New(name string, configPath string) (Module, error) {
	if name == "" {
		return nil, fmt.Errorf("module name cannot be empty")
	}

	r.RLock()
	entry, exists := r.entries[name]
	r.RUnlock()

	if !exists {
		return nil, fmt.Errorf("module %s not found", name)
	}

	if configPath == "" {
		configPath = entry.configPath
	}

	module, err := entry.constructor(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to construct module %s: %w", name, err)
	}
	return module, nil
}

// Names returns the names of all registered modules
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}
