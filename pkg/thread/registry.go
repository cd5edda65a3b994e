package thread

import "sync"

// Registry hands out the per-post engine, creating it on first use. Engines
// are kept for the life of the process; each holds at most one generation.
type Registry struct {
	mu      sync.Mutex
	engines map[int64]*Engine
	factory func(postID int64) *Engine
}

// NewRegistry creates a registry backed by the given engine factory.
func NewRegistry(factory func(postID int64) *Engine) *Registry {
	return &Registry{
		engines: make(map[int64]*Engine),
		factory: factory,
	}
}

// Get returns the engine for postID, creating it if needed.
func (r *Registry) Get(postID int64) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.engines[postID]; ok {
		return e
	}
	e := r.factory(postID)
	r.engines[postID] = e
	return e
}

// Find returns the engine for postID only if one already exists.
func (r *Registry) Find(postID int64) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[postID]
	return e, ok
}
