// internal/models/logentry.go
package models

import "time"

// Delivery log statuses.
const (
	LogStatusSuccess = "success"
	LogStatusError   = "error"
)

// LogEntry is one append-only delivery log record. Entries are never
// mutated; old entries are bulk-deleted by age.
type LogEntry struct {
	ID          string    `json:"id"`
	Integration string    `json:"integration"`
	Status      string    `json:"status"` // "success" or "error"
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}
