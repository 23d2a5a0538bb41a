// internal/trigger/descriptor.go
package trigger

import (
	"context"

	"sitenotify/internal/content"
)

// FireContext is the per-firing snapshot of related entities captured from
// the content repository. Created fresh on every firing and discarded when
// the synchronous dispatch call returns (or when the background queue item
// carrying it is consumed). JSON tags exist so the whole context can ride
// inside a queue envelope.
type FireContext struct {
	TriggerSlug string   `json:"triggerSlug"`
	GroupSlugs  []string `json:"groupSlugs"`

	Post           *content.Post `json:"post,omitempty"`
	Author         *content.User `json:"author,omitempty"`
	PublishingUser *content.User `json:"publishingUser,omitempty"`
	LastEditor     *content.User `json:"lastEditor,omitempty"`
	TrashingUser   *content.User `json:"trashingUser,omitempty"`

	Comment       *content.Comment `json:"comment,omitempty"`
	CommentAuthor *content.User    `json:"commentAuthor,omitempty"`
	ParentComment *content.Comment `json:"parentComment,omitempty"`
	ParentAuthor  *content.User    `json:"parentAuthor,omitempty"`

	User *content.User `json:"user,omitempty"`

	Plugin           *content.Plugin `json:"plugin,omitempty"`
	PluginOldVersion string          `json:"pluginOldVersion,omitempty"`

	Theme           *content.Theme `json:"theme,omitempty"`
	ThemeOldVersion string         `json:"themeOldVersion,omitempty"`
	PreviousTheme   *content.Theme `json:"previousTheme,omitempty"`

	Site content.SiteInfo `json:"site"`
}

// GuardFunc is a pure predicate over the event payload. Returning false
// makes the firing a silent no-op: no side effects, no logging.
type GuardFunc func(payload interface{}) bool

// CaptureFunc snapshots the related entities for a firing. A missing
// related entity is not an error; the capture leaves the field nil and
// downstream merge-tag lookups resolve to empty strings.
type CaptureFunc func(ctx context.Context, repo content.Repository, payload interface{}) (*FireContext, error)

// Descriptor describes one distinguishable site event. Triggers are
// registered through composition of these descriptors rather than an
// inheritance hierarchy; per-kind specialization lives in the Guard and
// Capture functions.
type Descriptor struct {
	Slug        string // globally unique, stable across versions (rules reference it)
	Name        string
	Description string
	Group       string // categorization for listings: post type, "comment", "user", ...
	Event       string // content repository event this trigger subscribes to

	// MergeTagGroups is the ordered list of merge tag group slugs this
	// trigger's context can feed. The "general" group is implicitly
	// appended by the engine and must not be listed here.
	MergeTagGroups []string

	Guard   GuardFunc
	Capture CaptureFunc
}
