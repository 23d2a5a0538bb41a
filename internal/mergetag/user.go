// internal/mergetag/user.go
package mergetag

import (
	"strconv"

	"sitenotify/internal/content"
	"sitenotify/internal/trigger"
)

// UserGroup builds a group over one user-valued context field. The same
// tag set backs post_author, comment_author, the acting-user groups and
// the plain user group; they differ only in slug and selector.
func UserGroup(slug, name string, sel func(fc *trigger.FireContext) *content.User) *Group {
	str := func(field func(*content.User) string) Resolver {
		return func(fc *trigger.FireContext) string {
			u := sel(fc)
			if u == nil {
				return ""
			}
			return field(u)
		}
	}
	return NewGroup(slug, name,
		Tag{Key: "id", Label: name + " ID", Resolve: func(fc *trigger.FireContext) string {
			u := sel(fc)
			if u == nil {
				return ""
			}
			return strconv.FormatInt(u.ID, 10)
		}},
		Tag{Key: "login", Label: name + " login", Resolve: str(func(u *content.User) string { return u.Login })},
		Tag{Key: "email", Label: name + " email", Resolve: str(func(u *content.User) string { return u.Email })},
		Tag{Key: "display_name", Label: name + " display name", Resolve: str(func(u *content.User) string { return u.DisplayName })},
		Tag{Key: "first_name", Label: name + " first name", Resolve: str(func(u *content.User) string { return u.FirstName })},
		Tag{Key: "last_name", Label: name + " last name", Resolve: str(func(u *content.User) string { return u.LastName })},
		Tag{Key: "nickname", Label: name + " nickname", Resolve: str(func(u *content.User) string { return u.Nickname })},
		Tag{Key: "role", Label: name + " role", Resolve: str(func(u *content.User) string { return u.Role })},
		Tag{Key: "registered_datetime", Label: name + " registration date", Resolve: str(func(u *content.User) string { return formatTime(u.RegisteredAt) })},
	)
}

// UserDefaults returns the user-valued groups triggers declare.
func UserDefaults() []*Group {
	user := UserGroup("user", "User", func(fc *trigger.FireContext) *content.User { return fc.User })
	// The login timestamp only carries meaning for the login trigger.
	user.AddTag(Tag{
		Key:               "last_login_datetime",
		Label:             "User last login date",
		RestrictToTrigger: "user_login",
		Resolve: func(fc *trigger.FireContext) string {
			if fc.User == nil {
				return ""
			}
			return formatTime(fc.User.LastLoginAt)
		},
	})
	return []*Group{
		UserGroup("post_author", "Post author", func(fc *trigger.FireContext) *content.User { return fc.Author }),
		UserGroup("post_publishing_user", "Post publishing user", func(fc *trigger.FireContext) *content.User { return fc.PublishingUser }),
		UserGroup("post_last_editor", "Post last editor", func(fc *trigger.FireContext) *content.User { return fc.LastEditor }),
		UserGroup("post_trashing_user", "Post trashing user", func(fc *trigger.FireContext) *content.User { return fc.TrashingUser }),
		UserGroup("comment_author", "Comment author", func(fc *trigger.FireContext) *content.User { return fc.CommentAuthor }),
		UserGroup("parent_author", "Parent comment author", func(fc *trigger.FireContext) *content.User { return fc.ParentAuthor }),
		user,
	}
}
