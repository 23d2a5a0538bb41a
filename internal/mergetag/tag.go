// internal/mergetag/tag.go
package mergetag

import (
	"sitenotify/internal/trigger"
)

// Resolver produces the replacement text for a tag from the firing
// context. Resolvers must tolerate nil context fields and return ""
// instead of erroring when the related entity is missing.
type Resolver func(fc *trigger.FireContext) string

// Tag is one substitutable token within a group. The full token form in
// content is {{<group_slug>.<Key>}}.
type Tag struct {
	Key         string
	Label       string
	Description string

	// RestrictToTrigger, when non-empty, limits the tag to a single
	// trigger slug. Processing under any other trigger substitutes "".
	RestrictToTrigger string

	Resolve Resolver
}

// Group is an ordered set of tags sharing one slug prefix. A group only
// ever matches tokens qualified with its own slug, so two groups can
// define the same key without colliding.
type Group struct {
	Slug        string
	Name        string
	Description string

	tags  []Tag
	index map[string]int
}

// NewGroup builds a group with its initial tag set. Later additions go
// through AddTag.
func NewGroup(slug, name string, tags ...Tag) *Group {
	g := &Group{
		Slug:  slug,
		Name:  name,
		index: make(map[string]int, len(tags)),
	}
	for _, t := range tags {
		g.AddTag(t)
	}
	return g
}

// AddTag appends a tag, replacing any earlier definition with the same
// key while keeping its original position.
func (g *Group) AddTag(t Tag) {
	if i, ok := g.index[t.Key]; ok {
		g.tags[i] = t
		return
	}
	g.index[t.Key] = len(g.tags)
	g.tags = append(g.tags, t)
}

// Tag returns the definition for key, if present.
func (g *Group) Tag(key string) (Tag, bool) {
	i, ok := g.index[key]
	if !ok {
		return Tag{}, false
	}
	return g.tags[i], true
}

// Tags returns the definitions in registration order.
func (g *Group) Tags() []Tag {
	out := make([]Tag, len(g.tags))
	copy(out, g.tags)
	return out
}
