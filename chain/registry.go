package chain

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered connectors for lookup by chain ID.
type Registry struct {
	mu         sync.RWMutex
	connectors map[string]Connector
}

// NewRegistry creates an empty chain registry.
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[string]Connector),
	}
}

// Register adds a connector to the registry. Returns an error if a connector
// with the same ID is already registered.
func (r *Registry) Register(c Connector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := c.ID()
	if _, exists := r.connectors[id]; exists {
		return fmt.Errorf("chain: %q already registered", id)
	}
	r.connectors[id] = c
	return nil
}

// Get returns the connector with the given ID.
func (r *Registry) Get(id string) (Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.connectors[id]
	return c, ok
}

// IDs returns the sorted IDs of all registered connectors.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.connectors))
	for id := range r.connectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
