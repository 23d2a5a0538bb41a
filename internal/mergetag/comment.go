// internal/mergetag/comment.go
package mergetag

import (
	"strconv"

	"sitenotify/internal/content"
	"sitenotify/internal/trigger"
)

// CommentGroup builds a group over one comment-valued context field.
// Backs both the comment group and the parent group for reply triggers.
func CommentGroup(slug, name string, sel func(fc *trigger.FireContext) *content.Comment) *Group {
	str := func(field func(*content.Comment) string) Resolver {
		return func(fc *trigger.FireContext) string {
			c := sel(fc)
			if c == nil {
				return ""
			}
			return field(c)
		}
	}
	return NewGroup(slug, name,
		Tag{Key: "id", Label: name + " ID", Resolve: func(fc *trigger.FireContext) string {
			c := sel(fc)
			if c == nil {
				return ""
			}
			return strconv.FormatInt(c.ID, 10)
		}},
		Tag{Key: "content", Label: name + " content", Resolve: str(func(c *content.Comment) string { return c.Content })},
		Tag{Key: "status", Label: name + " status", Resolve: str(func(c *content.Comment) string { return c.Status })},
		Tag{Key: "type", Label: name + " type", Resolve: str(func(c *content.Comment) string { return c.Type })},
		Tag{Key: "author_name", Label: name + " author name", Resolve: str(func(c *content.Comment) string { return c.AuthorName })},
		Tag{Key: "author_email", Label: name + " author email", Resolve: str(func(c *content.Comment) string { return c.AuthorEmail })},
		Tag{Key: "author_url", Label: name + " author URL", Resolve: str(func(c *content.Comment) string { return c.AuthorURL })},
		Tag{Key: "author_ip", Label: name + " author IP", Resolve: str(func(c *content.Comment) string { return c.AuthorIP })},
		Tag{Key: "creation_datetime", Label: name + " creation date", Resolve: str(func(c *content.Comment) string { return formatTime(c.CreatedAt) })},
	)
}

// CommentDefaults returns the comment-valued groups triggers declare.
func CommentDefaults() []*Group {
	return []*Group{
		CommentGroup("comment", "Comment", func(fc *trigger.FireContext) *content.Comment { return fc.Comment }),
		CommentGroup("parent", "Parent comment", func(fc *trigger.FireContext) *content.Comment { return fc.ParentComment }),
	}
}
