// internal/models/rule.go
package models

import "time"

// Connection is one user-authored delivery target inside a notification
// rule: which integration to use and with what settings.
type Connection struct {
	ID          string                 `json:"id"`
	Enabled     bool                   `json:"enabled"`
	Name        string                 `json:"name"`
	Integration string                 `json:"integration"` // integration slug
	Settings    map[string]interface{} `json:"settings"`
}

// Rule is a persisted notification rule: when the trigger identified by
// TriggerSlug fires, every enabled connection is processed in stored order.
// TriggerSlug is a foreign key; it must stay stable across versions.
type Rule struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	TriggerSlug string       `json:"triggerSlug"`
	Connections []Connection `json:"connections"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
