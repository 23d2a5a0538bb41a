// internal/content/models.go
package content

import "time"

// Post statuses as used by status-transition guards.
const (
	PostStatusPublish = "publish"
	PostStatusDraft   = "draft"
	PostStatusPending = "pending"
	PostStatusFuture  = "future"
	PostStatusTrash   = "trash"
	PostStatusAuto    = "auto-draft"
)

// Comment statuses.
const (
	CommentStatusApproved   = "approved"
	CommentStatusUnapproved = "unapproved"
	CommentStatusSpam       = "spam"
	CommentStatusTrash      = "trash"
)

// Post is a content item read from the repository. Captured as a snapshot
// at trigger fire time, never persisted by this service.
type Post struct {
	ID               int64     `json:"id"`
	Type             string    `json:"type"` // e.g. "post", "page"
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Content          string    `json:"content"`
	Excerpt          string    `json:"excerpt"`
	Status           string    `json:"status"`
	Permalink        string    `json:"permalink"`
	FeaturedImageURL string    `json:"featuredImageUrl"`
	AuthorID         int64     `json:"authorId"`
	LastEditorID     int64     `json:"lastEditorId"`
	PublishedAt      time.Time `json:"publishedAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Comment is a reader comment on a post. AuthorID is zero for guests.
type Comment struct {
	ID          int64     `json:"id"`
	PostID      int64     `json:"postId"`
	AuthorID    int64     `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	AuthorURL   string    `json:"authorUrl"`
	AuthorIP    string    `json:"authorIp"`
	Content     string    `json:"content"`
	Type        string    `json:"type"` // "comment", "pingback", "trackback"
	Status      string    `json:"status"`
	ParentID    int64     `json:"parentId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// User is a site account.
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Nickname     string    `json:"nickname"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registeredAt"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
}

// Term is a taxonomy term.
type Term struct {
	ID        int64  `json:"id"`
	Taxonomy  string `json:"taxonomy"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Permalink string `json:"permalink"`
}

// Plugin is installed-extension metadata.
type Plugin struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author"`
	URI     string `json:"uri"`
}

// Theme is installed-theme metadata.
type Theme struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author"`
	URI     string `json:"uri"`
}

// SiteInfo holds the site-wide constants exposed by the general merge
// tag group.
type SiteInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	AdminEmail  string `json:"adminEmail"`
}
