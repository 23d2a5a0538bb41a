// internal/mergetag/post.go
package mergetag

import (
	"strconv"
	"time"

	"sitenotify/internal/content"
	"sitenotify/internal/trigger"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// PostGroup exposes the post entity of a firing.
func PostGroup() *Group {
	p := func(fc *trigger.FireContext) *content.Post { return fc.Post }
	return NewGroup("post", "Post",
		Tag{Key: "id", Label: "Post ID", Resolve: postInt(p, func(c *content.Post) int64 { return c.ID })},
		Tag{Key: "title", Label: "Post title", Resolve: postStr(p, func(c *content.Post) string { return c.Title })},
		Tag{Key: "slug", Label: "Post slug", Resolve: postStr(p, func(c *content.Post) string { return c.Slug })},
		Tag{Key: "content", Label: "Post content", Resolve: postStr(p, func(c *content.Post) string { return c.Content })},
		Tag{Key: "excerpt", Label: "Post excerpt", Resolve: postStr(p, func(c *content.Post) string { return c.Excerpt })},
		Tag{Key: "status", Label: "Post status", Resolve: postStr(p, func(c *content.Post) string { return c.Status })},
		Tag{Key: "permalink", Label: "Post permalink", Resolve: postStr(p, func(c *content.Post) string { return c.Permalink })},
		Tag{Key: "featured_image_url", Label: "Featured image URL", Resolve: postStr(p, func(c *content.Post) string { return c.FeaturedImageURL })},
		Tag{Key: "creation_datetime", Label: "Post creation date", Resolve: postStr(p, func(c *content.Post) string { return formatTime(c.CreatedAt) })},
		Tag{Key: "modification_datetime", Label: "Post modification date", Resolve: postStr(p, func(c *content.Post) string { return formatTime(c.UpdatedAt) })},
		Tag{Key: "publication_datetime", Label: "Post publication date", Resolve: postStr(p, func(c *content.Post) string { return formatTime(c.PublishedAt) })},
	)
}

func postStr(sel func(*trigger.FireContext) *content.Post, field func(*content.Post) string) Resolver {
	return func(fc *trigger.FireContext) string {
		p := sel(fc)
		if p == nil {
			return ""
		}
		return field(p)
	}
}

func postInt(sel func(*trigger.FireContext) *content.Post, field func(*content.Post) int64) Resolver {
	return func(fc *trigger.FireContext) string {
		p := sel(fc)
		if p == nil {
			return ""
		}
		return strconv.FormatInt(field(p), 10)
	}
}
