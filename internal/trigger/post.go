// internal/trigger/post.go
package trigger

import (
	"context"
	"fmt"

	"sitenotify/internal/content"
)

// capturePostContext snapshots a post and its related users. Missing
// related users are left nil: the post may be authorless after a user
// deletion and merge tags then resolve to empty strings.
func capturePostContext(ctx context.Context, repo content.Repository, ev *content.PostEvent) *FireContext {
	fc := &FireContext{Post: ev.Post}
	if ev.Post == nil {
		return fc
	}
	if u, err := repo.GetUser(ctx, ev.Post.AuthorID); err == nil {
		fc.Author = u
	}
	if u, err := repo.GetUser(ctx, ev.Post.LastEditorID); err == nil {
		fc.LastEditor = u
	}
	return fc
}

func postEventOf(payload interface{}) (*content.PostEvent, bool) {
	ev, ok := payload.(*content.PostEvent)
	return ev, ok
}

// postCapture wraps capturePostContext with the acting-user lookup used by
// the published and trashed variants.
func postCapture(withActing func(fc *FireContext, u *content.User)) CaptureFunc {
	return func(ctx context.Context, repo content.Repository, payload interface{}) (*FireContext, error) {
		ev, ok := postEventOf(payload)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", payload)
		}
		fc := capturePostContext(ctx, repo, ev)
		if withActing != nil && ev.ActingUserID != 0 {
			if u, err := repo.GetUser(ctx, ev.ActingUserID); err == nil {
				withActing(fc, u)
			}
		}
		return fc, nil
	}
}

// PostPublished fires when a post of the given type transitions into the
// publish status from any other status.
func PostPublished(postType string) *Descriptor {
	return &Descriptor{
		Slug:           postType + "-published",
		Name:           "Post published",
		Description:    "Fires when a post is published",
		Group:          postType,
		Event:          content.EventPostStatusTransition,
		MergeTagGroups: []string{"post", "post_author", "post_publishing_user"},
		Guard: func(payload interface{}) bool {
			ev, ok := postEventOf(payload)
			return ok && ev.Post != nil && ev.Post.Type == postType &&
				ev.NewStatus == content.PostStatusPublish && ev.OldStatus != content.PostStatusPublish
		},
		Capture: postCapture(func(fc *FireContext, u *content.User) { fc.PublishingUser = u }),
	}
}

// PostUpdated fires when an already-published post is saved again.
func PostUpdated(postType string) *Descriptor {
	return &Descriptor{
		Slug:           postType + "-updated",
		Name:           "Post updated",
		Description:    "Fires when a published post is updated",
		Group:          postType,
		Event:          content.EventPostStatusTransition,
		MergeTagGroups: []string{"post", "post_author", "post_last_editor"},
		Guard: func(payload interface{}) bool {
			ev, ok := postEventOf(payload)
			return ok && ev.Post != nil && ev.Post.Type == postType && ev.IsUpdate &&
				ev.OldStatus == content.PostStatusPublish && ev.NewStatus == content.PostStatusPublish
		},
		Capture: postCapture(nil),
	}
}

// PostAdded fires on a fresh insert, skipping saves of existing posts.
func PostAdded(postType string) *Descriptor {
	return &Descriptor{
		Slug:           postType + "-added",
		Name:           "Post added",
		Description:    "Fires when a post is first created",
		Group:          postType,
		Event:          content.EventPostStatusTransition,
		MergeTagGroups: []string{"post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := postEventOf(payload)
			return ok && ev.Post != nil && ev.Post.Type == postType && !ev.IsUpdate &&
				ev.NewStatus != content.PostStatusAuto
		},
		Capture: postCapture(nil),
	}
}

// PostDrafted fires when a post is saved as a draft.
func PostDrafted(postType string) *Descriptor {
	return &Descriptor{
		Slug:           postType + "-drafted",
		Name:           "Post saved as draft",
		Description:    "Fires when a post is saved as a draft",
		Group:          postType,
		Event:          content.EventPostStatusTransition,
		MergeTagGroups: []string{"post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := postEventOf(payload)
			return ok && ev.Post != nil && ev.Post.Type == postType &&
				ev.NewStatus == content.PostStatusDraft && ev.OldStatus != content.PostStatusDraft
		},
		Capture: postCapture(nil),
	}
}

// PostScheduled fires when a post is scheduled for future publication.
func PostScheduled(postType string) *Descriptor {
	return &Descriptor{
		Slug:           postType + "-scheduled",
		Name:           "Post scheduled",
		Description:    "Fires when a post is scheduled",
		Group:          postType,
		Event:          content.EventPostStatusTransition,
		MergeTagGroups: []string{"post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := postEventOf(payload)
			return ok && ev.Post != nil && ev.Post.Type == postType &&
				ev.NewStatus == content.PostStatusFuture && ev.OldStatus != content.PostStatusFuture
		},
		Capture: postCapture(nil),
	}
}

// PostPending fires when a post is submitted for review.
func PostPending(postType string) *Descriptor {
	return &Descriptor{
		Slug:           postType + "-pending",
		Name:           "Post sent for review",
		Description:    "Fires when a post is submitted for review",
		Group:          postType,
		Event:          content.EventPostStatusTransition,
		MergeTagGroups: []string{"post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := postEventOf(payload)
			return ok && ev.Post != nil && ev.Post.Type == postType &&
				ev.NewStatus == content.PostStatusPending && ev.OldStatus != content.PostStatusPending
		},
		Capture: postCapture(nil),
	}
}

// PostTrashed fires when a post is moved to the trash. The trashing user
// group is only available on this trigger.
func PostTrashed(postType string) *Descriptor {
	return &Descriptor{
		Slug:           postType + "-trashed",
		Name:           "Post trashed",
		Description:    "Fires when a post is moved to trash",
		Group:          postType,
		Event:          content.EventPostStatusTransition,
		MergeTagGroups: []string{"post", "post_author", "post_trashing_user"},
		Guard: func(payload interface{}) bool {
			ev, ok := postEventOf(payload)
			return ok && ev.Post != nil && ev.Post.Type == postType &&
				ev.NewStatus == content.PostStatusTrash
		},
		Capture: postCapture(func(fc *FireContext, u *content.User) { fc.TrashingUser = u }),
	}
}
