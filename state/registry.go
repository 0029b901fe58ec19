package state

import "sync"

// Registry tracks the context engine owned by each live conversation. It is
// an explicit, injectable registry with a defined lifecycle: constructed at
// startup, torn down via Close at shutdown. There is deliberately no
// package-level instance.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]*Engine)}
}

// Register associates an engine with a conversation id, replacing any
// previous engine for that conversation.
func (r *Registry) Register(conversationID string, e *Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[conversationID] = e
}

// Lookup returns the engine for a conversation id.
func (r *Registry) Lookup(conversationID string) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[conversationID]
	return e, ok
}

// Drop removes the engine for a conversation id, typically at conversation
// end.
func (r *Registry) Drop(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, conversationID)
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// Close drops every registered engine.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines = make(map[string]*Engine)
}
