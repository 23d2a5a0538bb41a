// internal/content/repository.go
package content

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repository getters when the entity does not
// exist (e.g. a comment's post was hard-deleted). Callers degrade
// gracefully: merge tags over a missing entity resolve to empty strings.
var ErrNotFound = errors.New("content: entity not found")

// Repository exposes read access to the CMS content store. The dispatch
// pipeline never writes through this boundary.
type Repository interface {
	GetPost(ctx context.Context, id int64) (*Post, error)
	GetComment(ctx context.Context, id int64) (*Comment, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetTerm(ctx context.Context, id int64) (*Term, error)
	UsersByRole(ctx context.Context, role string) ([]User, error)
	Site(ctx context.Context) (SiteInfo, error)
}
