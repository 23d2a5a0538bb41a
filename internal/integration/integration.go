// internal/integration/integration.go
package integration

import (
	"context"
	"sync"

	"sitenotify/internal/trigger"
)

// Delivery is the per-call context handed to an integration's send. A
// fresh value is built for every connection, so integrations hold no
// mutable per-call state and concurrent dispatch stays safe.
type Delivery struct {
	Trigger        *trigger.FireContext
	RuleID         int64
	RuleTitle      string
	ConnectionID   string
	ConnectionName string

	// Settings are the connection settings after validation, merge tag
	// substitution and sanitization.
	Settings map[string]interface{}
}

// Integration is one delivery channel. Implementations are stateless
// process-wide singletons; everything call-specific rides in Delivery.
type Integration interface {
	Slug() string
	Name() string
	Schema() *Object

	// Send performs exactly one logical delivery attempt. Transport
	// failures come back as errors and are logged by the caller, never
	// propagated further.
	Send(ctx context.Context, d *Delivery) error
}

// SelfLogger is implemented by integrations that write their own
// delivery log entries, one per subscriber rather than one per
// connection. The processor skips its per-connection entry for these.
type SelfLogger interface {
	LogsOwnDeliveries() bool
}

// ConfigChecker is implemented by integrations that need service-wide
// configuration before any attribute validation makes sense. A non-nil
// Ready error skips the connection with a configuration error log.
type ConfigChecker interface {
	Ready() error
}

// Loader is the registry of available integrations, keyed by slug.
type Loader struct {
	mu    sync.RWMutex
	slugs []string
	items map[string]Integration
}

// NewLoader returns an empty loader.
func NewLoader() *Loader {
	return &Loader{items: make(map[string]Integration)}
}

// Register adds an integration, replacing any earlier one with the
// same slug.
func (l *Loader) Register(i Integration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.items[i.Slug()]; !ok {
		l.slugs = append(l.slugs, i.Slug())
	}
	l.items[i.Slug()] = i
}

// Get returns the integration registered under slug.
func (l *Loader) Get(slug string) (Integration, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.items[slug]
	return i, ok
}

// All returns registered integrations in registration order.
func (l *Loader) All() []Integration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Integration, 0, len(l.slugs))
	for _, slug := range l.slugs {
		out = append(out, l.items[slug])
	}
	return out
}
