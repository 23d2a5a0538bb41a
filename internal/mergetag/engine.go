// internal/mergetag/engine.go
package mergetag

import (
	"regexp"
	"strings"

	"sitenotify/internal/trigger"
)

// GeneralGroupSlug is appended to every firing's group list so that
// site-wide tags resolve regardless of trigger type.
const GeneralGroupSlug = "general"

var tokenPattern = regexp.MustCompile(`\{\{([a-z0-9_-]+)\.([A-Za-z0-9_]+)\}\}`)

// Engine substitutes {{group.key}} tokens in notification content using
// the groups a firing's trigger declares. Groups the trigger does not
// declare never match, and tokens naming an unregistered group or an
// undefined key pass through literally.
type Engine struct {
	registry *Registry
}

// NewEngine builds an engine over the given group registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Registry exposes the backing group registry, used by the listing API
// and by dynamic tag injection at wiring time.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// GroupsFor returns the groups active for a firing, in declaration
// order with the general group appended last. Slugs without a
// registered group are skipped.
func (e *Engine) GroupsFor(fc *trigger.FireContext) []*Group {
	slugs := append(append([]string{}, fc.GroupSlugs...), GeneralGroupSlug)
	out := make([]*Group, 0, len(slugs))
	for _, slug := range slugs {
		if g, ok := e.registry.Group(slug); ok {
			out = append(out, g)
		}
	}
	return out
}

// Process walks a content tree and substitutes within every string
// leaf. Container shape is preserved.
func (e *Engine) Process(fc *trigger.FireContext, v Value) Value {
	switch t := v.(type) {
	case String:
		return String(e.ProcessString(fc, string(t)))
	case List:
		out := make(List, len(t))
		for i, item := range t {
			out[i] = e.Process(fc, item)
		}
		return out
	case Map:
		out := make(Map, len(t))
		for k, item := range t {
			out[k] = e.Process(fc, item)
		}
		return out
	default:
		return v
	}
}

// ProcessAny is Process over decoded JSON-ish data, the shape
// connection settings arrive in.
func (e *Engine) ProcessAny(fc *trigger.FireContext, v interface{}) interface{} {
	return ToInterface(e.Process(fc, FromInterface(v)))
}

// ProcessString substitutes tokens in a single string. Each active
// group only ever sees tokens qualified with its own slug; a matching
// token replaces every occurrence of that literal token at once.
func (e *Engine) ProcessString(fc *trigger.FireContext, s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return s
	}
	for _, g := range e.GroupsFor(fc) {
		for _, m := range matches {
			token, groupSlug, key := m[0], m[1], m[2]
			if groupSlug != g.Slug {
				continue
			}
			t, ok := g.Tag(key)
			if !ok {
				continue
			}
			replacement := ""
			if t.RestrictToTrigger == "" || t.RestrictToTrigger == fc.TriggerSlug {
				replacement = t.Resolve(fc)
			}
			s = strings.ReplaceAll(s, token, replacement)
		}
	}
	return s
}
