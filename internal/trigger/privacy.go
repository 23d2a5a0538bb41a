// internal/trigger/privacy.go
package trigger

import (
	"context"
	"fmt"

	"sitenotify/internal/content"
)

func privacyCapture() CaptureFunc {
	return func(_ context.Context, _ content.Repository, payload interface{}) (*FireContext, error) {
		ev, ok := payload.(*content.PrivacyEvent)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", payload)
		}
		return &FireContext{User: ev.User}, nil
	}
}

// PrivacyDataExported fires when a personal data export completes.
func PrivacyDataExported() *Descriptor {
	return &Descriptor{
		Slug:           "privacy-data-exported",
		Name:           "Personal data exported",
		Description:    "Fires when a personal data export is completed",
		Group:          "privacy",
		Event:          content.EventPrivacyDataExported,
		MergeTagGroups: []string{"user"},
		Capture:        privacyCapture(),
	}
}

// PrivacyDataErased fires when a personal data erasure completes.
func PrivacyDataErased() *Descriptor {
	return &Descriptor{
		Slug:           "privacy-data-erased",
		Name:           "Personal data erased",
		Description:    "Fires when a personal data erasure is completed",
		Group:          "privacy",
		Event:          content.EventPrivacyDataErased,
		MergeTagGroups: []string{"user"},
		Capture:        privacyCapture(),
	}
}

// Defaults returns the full built-in trigger set for standard post and
// comment types, ready to be registered at bootstrap.
func Defaults() []*Descriptor {
	return []*Descriptor{
		PostPublished("post"),
		PostUpdated("post"),
		PostAdded("post"),
		PostDrafted("post"),
		PostScheduled("post"),
		PostPending("post"),
		PostTrashed("post"),

		CommentAdded("comment"),
		CommentReplied("comment"),
		CommentApproved("comment"),
		CommentUnapproved("comment"),
		CommentSpammed("comment"),
		CommentTrashed("comment"),

		UserRegistered(),
		UserLoggedIn(),
		UserProfileUpdated(),
		UserDeleted(),
		UserPasswordChanged(),
		UserPasswordResetRequested(),

		PluginActivated(),
		PluginDeactivated(),
		PluginUpdated(),
		PluginInstalled(),
		PluginRemoved(),

		ThemeSwitched(),
		ThemeUpdated(),
		ThemeInstalled(),

		PrivacyDataExported(),
		PrivacyDataErased(),
	}
}
