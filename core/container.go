package core

import "sync"

// ContextContainer is a key/value store observed by handoff expression
// conditions and mutated by the derived context engine. Conversations may own
// several containers (one per scope or per agent); the engine writes through
// to every registered container so all observers agree.
//
// Implementations must tolerate concurrent reads; writes within one
// conversation are sequential (single thread of turns) and the engine relies
// on that invariant rather than holding a cross-container lock.
type ContextContainer interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Contains(key string) bool
	Keys() []string
}

// MapContainer is the canonical in-memory ContextContainer. It is safe for
// concurrent access.
type MapContainer struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMapContainer constructs an empty MapContainer.
func NewMapContainer() *MapContainer {
	return &MapContainer{values: make(map[string]any)}
}

// Get returns the value and existence flag for a key.
func (c *MapContainer) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Set stores a key/value pair.
func (c *MapContainer) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Contains reports whether the key is present.
func (c *MapContainer) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.values[key]
	return ok
}

// Keys returns a copy of all stored keys.
func (c *MapContainer) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}
