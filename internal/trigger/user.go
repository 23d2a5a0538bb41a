// internal/trigger/user.go
package trigger

import (
	"context"
	"fmt"

	"sitenotify/internal/content"
)

func userCapture() CaptureFunc {
	return func(_ context.Context, _ content.Repository, payload interface{}) (*FireContext, error) {
		ev, ok := payload.(*content.UserEvent)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", payload)
		}
		return &FireContext{User: ev.User}, nil
	}
}

func userDescriptor(slug, name, description, event string) *Descriptor {
	return &Descriptor{
		Slug:           slug,
		Name:           name,
		Description:    description,
		Group:          "user",
		Event:          event,
		MergeTagGroups: []string{"user"},
		Capture:        userCapture(),
	}
}

// UserRegistered fires when a new account is created.
func UserRegistered() *Descriptor {
	return userDescriptor("user_registration", "User registration",
		"Fires when a new user registers", content.EventUserRegistered)
}

// UserLoggedIn fires on a successful login.
func UserLoggedIn() *Descriptor {
	return userDescriptor("user_login", "User login",
		"Fires when a user logs in", content.EventUserLoggedIn)
}

// UserProfileUpdated fires when a user's profile is updated.
func UserProfileUpdated() *Descriptor {
	return userDescriptor("user_profile_updated", "User profile updated",
		"Fires when a user profile is updated", content.EventUserProfileUpdated)
}

// UserDeleted fires when an account is removed.
func UserDeleted() *Descriptor {
	return userDescriptor("user_deleted", "User deleted",
		"Fires when a user account is deleted", content.EventUserDeleted)
}

// UserPasswordChanged fires when a user's password is changed.
func UserPasswordChanged() *Descriptor {
	return userDescriptor("user_password_changed", "User password changed",
		"Fires when a user password is changed", content.EventUserPasswordChanged)
}

// UserPasswordResetRequested fires when a password reset link is requested.
func UserPasswordResetRequested() *Descriptor {
	return userDescriptor("user_password_reset_request", "User password reset requested",
		"Fires when a password reset is requested", content.EventUserPasswordReset)
}
