// internal/mergetag/registry.go
package mergetag

import (
	"fmt"
	"sync"
)

// Registry holds the known merge tag groups. Group lookup during
// substitution and dynamic tag injection both go through here, so
// access is guarded for concurrent firings.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]*Group
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*Group)}
}

// Register adds or replaces a group by slug.
func (r *Registry) Register(g *Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[g.Slug]; !ok {
		r.order = append(r.order, g.Slug)
	}
	r.groups[g.Slug] = g
}

// Group returns the group registered under slug.
func (r *Registry) Group(slug string) (*Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[slug]
	return g, ok
}

// All returns the registered groups in registration order.
func (r *Registry) All() []*Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Group, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.groups[slug])
	}
	return out
}

// AddTag injects a tag into an existing group. This is the extension
// point for site-specific tags added at wiring time.
func (r *Registry) AddTag(groupSlug string, t Tag) error {
	if t.Resolve == nil {
		return fmt.Errorf("merge tag %q has no resolver", t.Key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupSlug]
	if !ok {
		return fmt.Errorf("merge tag group %q is not registered", groupSlug)
	}
	g.AddTag(t)
	return nil
}
