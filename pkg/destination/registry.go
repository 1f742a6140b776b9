package destination

import (
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Destination)
)

// Register adds a destination to the registry. Called by destination
// implementations in their init() functions.
func Register(d Destination) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Type()] = d
}

// FromReference resolves a destination reference (its type name) to the
// registered destination.
func FromReference(ref string) (Destination, error) {
	registryMu.RLock()
	d, ok := registry[ref]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownDestinationError{Type: ref, Available: List()}
	}
	return d, nil
}

// List returns all registered destination type names, sorted.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a destination type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
