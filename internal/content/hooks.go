// internal/content/hooks.go
package content

import "context"

// Named repository events triggers can subscribe to.
const (
	EventPostStatusTransition    = "post_status_transition"
	EventCommentInserted         = "comment_inserted"
	EventCommentStatusTransition = "comment_status_transition"
	EventUserRegistered          = "user_registered"
	EventUserLoggedIn            = "user_logged_in"
	EventUserProfileUpdated      = "user_profile_updated"
	EventUserDeleted             = "user_deleted"
	EventUserPasswordChanged     = "user_password_changed"
	EventUserPasswordReset       = "user_password_reset_requested"
	EventPluginActivated         = "plugin_activated"
	EventPluginDeactivated       = "plugin_deactivated"
	EventPluginUpdated           = "plugin_updated"
	EventPluginInstalled         = "plugin_installed"
	EventPluginRemoved           = "plugin_removed"
	EventThemeSwitched           = "theme_switched"
	EventThemeUpdated            = "theme_updated"
	EventThemeInstalled          = "theme_installed"
	EventPrivacyDataExported     = "privacy_data_exported"
	EventPrivacyDataErased       = "privacy_data_erased"
)

// PostEvent is the payload for post lifecycle events.
type PostEvent struct {
	Post         *Post  `json:"post"`
	OldStatus    string `json:"oldStatus"`
	NewStatus    string `json:"newStatus"`
	IsUpdate     bool   `json:"isUpdate"` // true when an existing post was saved, not freshly inserted
	ActingUserID int64  `json:"actingUserId"`
}

// CommentEvent is the payload for comment lifecycle events.
type CommentEvent struct {
	Comment     *Comment `json:"comment"`
	OldStatus   string   `json:"oldStatus"`
	NewStatus   string   `json:"newStatus"`
	FreshInsert bool     `json:"freshInsert"`
}

// UserEvent is the payload for user lifecycle events.
type UserEvent struct {
	User          *User    `json:"user"`
	UpdatedFields []string `json:"updatedFields,omitempty"`
}

// PluginEvent is the payload for plugin lifecycle events. OldVersion is
// only populated for updates.
type PluginEvent struct {
	Plugin     *Plugin `json:"plugin"`
	OldVersion string  `json:"oldVersion,omitempty"`
}

// ThemeEvent is the payload for theme lifecycle events.
type ThemeEvent struct {
	Theme      *Theme `json:"theme"`
	OldVersion string `json:"oldVersion,omitempty"`
	Previous   *Theme `json:"previous,omitempty"` // the theme switched away from
}

// PrivacyEvent is the payload for personal-data export/erasure events.
type PrivacyEvent struct {
	User *User `json:"user"`
}

// HookCallback handles one emitted repository event.
type HookCallback func(ctx context.Context, payload interface{})

// HookBus is the named-event subscription mechanism of the content
// repository. Callbacks run synchronously in registration order within
// the emitting call; Emit never fails and never propagates callback
// errors back to the source event.
type HookBus struct {
	callbacks map[string][]HookCallback
}

func NewHookBus() *HookBus {
	return &HookBus{callbacks: make(map[string][]HookCallback)}
}

// On subscribes a callback to a named event. Not safe for concurrent use
// with Emit; all registration happens at bootstrap.
func (b *HookBus) On(event string, cb HookCallback) {
	b.callbacks[event] = append(b.callbacks[event], cb)
}

// Emit invokes every callback subscribed to the event, in order.
func (b *HookBus) Emit(ctx context.Context, event string, payload interface{}) {
	for _, cb := range b.callbacks[event] {
		cb(ctx, payload)
	}
}
