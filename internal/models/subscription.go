// internal/models/subscription.go
package models

import "time"

// Push subscription statuses.
const (
	SubscriptionStatusSubscribed   = "subscribed"
	SubscriptionStatusUnsubscribed = "unsubscribed"
)

// PushSubscription is one browser push endpoint with its crypto keys,
// as registered by the subscriber registry.
type PushSubscription struct {
	ID              int64     `json:"id"`
	Endpoint        string    `json:"endpoint"`
	P256DH          string    `json:"p256dh"`
	Auth            string    `json:"auth"`
	ContentEncoding string    `json:"contentEncoding"` // "aesgcm" or "aes128gcm"
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
