// internal/trigger/registry.go
package trigger

import (
	"context"
	"fmt"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/common/metrics"
	"sitenotify/internal/content"
	"sitenotify/internal/models"
)

// RuleSource loads persisted notification rules referencing a trigger slug.
type RuleSource interface {
	ByTrigger(ctx context.Context, triggerSlug string) ([]models.Rule, error)
}

// Dispatcher processes the connections of one rule for one firing. All
// delivery failures are recovered inside the dispatcher; Dispatch never
// aborts the firing.
type Dispatcher interface {
	Dispatch(ctx context.Context, rule models.Rule, fc *FireContext)
}

// EnablementChecker reports whether a trigger slug is enabled in the
// settings store. A nil checker means every registered trigger is enabled.
type EnablementChecker interface {
	TriggerEnabled(ctx context.Context, slug string) bool
}

// Registry holds the registered trigger descriptors and binds each one to
// its repository event at bootstrap. Explicitly constructed and injected;
// tests build a registry with only the descriptors they need.
type Registry struct {
	repo       content.Repository
	bus        *content.HookBus
	rules      RuleSource
	dispatcher Dispatcher
	enablement EnablementChecker
	log        logger.Logger

	descriptors map[string]*Descriptor
	order       []string
}

func NewRegistry(repo content.Repository, bus *content.HookBus, rules RuleSource, dispatcher Dispatcher, log logger.Logger) *Registry {
	return &Registry{
		repo:        repo,
		bus:         bus,
		rules:       rules,
		dispatcher:  dispatcher,
		log:         log.WithFields(map[string]interface{}{"component": "trigger-registry"}),
		descriptors: make(map[string]*Descriptor),
	}
}

// SetEnablementChecker installs the settings-backed trigger toggle source.
func (r *Registry) SetEnablementChecker(c EnablementChecker) {
	r.enablement = c
}

// Register adds a descriptor and subscribes it to its repository event.
// Registration happens once at bootstrap; slugs must be unique.
func (r *Registry) Register(desc *Descriptor) error {
	if desc.Slug == "" {
		return fmt.Errorf("trigger registration requires a slug")
	}
	if desc.Capture == nil {
		return fmt.Errorf("trigger %q registration requires a capture function", desc.Slug)
	}
	if _, exists := r.descriptors[desc.Slug]; exists {
		return fmt.Errorf("trigger %q already registered", desc.Slug)
	}

	r.descriptors[desc.Slug] = desc
	r.order = append(r.order, desc.Slug)

	r.bus.On(desc.Event, func(ctx context.Context, payload interface{}) {
		r.fire(ctx, desc, payload)
	})
	return nil
}

// MustRegister is Register for bootstrap code where a duplicate slug is a
// programming error.
func (r *Registry) MustRegister(desc *Descriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Get returns the descriptor for a slug.
func (r *Registry) Get(slug string) (*Descriptor, bool) {
	d, ok := r.descriptors[slug]
	return d, ok
}

// All returns every registered descriptor in registration order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.descriptors[slug])
	}
	return out
}

// ByGroup returns the registered descriptors bucketed by their group, for
// the admin listing endpoint.
func (r *Registry) ByGroup() map[string][]*Descriptor {
	out := make(map[string][]*Descriptor)
	for _, slug := range r.order {
		d := r.descriptors[slug]
		out[d.Group] = append(out[d.Group], d)
	}
	return out
}

// fire runs one firing: guard, context capture, rule lookup, dispatch.
// Errors and panics are contained here; nothing propagates back to the
// repository event that caused the firing.
func (r *Registry) fire(ctx context.Context, desc *Descriptor, payload interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("trigger firing panicked", map[string]interface{}{
				"trigger":   desc.Slug,
				"recovered": fmt.Sprintf("%v", rec),
			})
		}
	}()

	if desc.Guard != nil && !desc.Guard(payload) {
		return // silent no-op, not an error
	}

	if r.enablement != nil && !r.enablement.TriggerEnabled(ctx, desc.Slug) {
		return
	}

	fc, err := desc.Capture(ctx, r.repo, payload)
	if err != nil {
		stdErr := errors.NewContextCaptureFailedError(desc.Slug, err)
		r.log.Error(stdErr.Message, map[string]interface{}{
			"trigger": desc.Slug,
			"details": stdErr.Details,
		})
		return
	}
	fc.TriggerSlug = desc.Slug
	fc.GroupSlugs = desc.MergeTagGroups

	if site, err := r.repo.Site(ctx); err == nil {
		fc.Site = site
	}

	metrics.TriggersFired.WithLabelValues(desc.Slug).Inc()

	rules, err := r.rules.ByTrigger(ctx, desc.Slug)
	if err != nil {
		stdErr := errors.NewRuleQueryFailedError(desc.Slug, err)
		r.log.Error(stdErr.Message, map[string]interface{}{
			"trigger": desc.Slug,
			"details": stdErr.Details,
		})
		return
	}

	for _, rule := range rules {
		r.dispatcher.Dispatch(ctx, rule, fc)
	}
}
