// internal/trigger/comment.go
package trigger

import (
	"context"
	"fmt"

	"sitenotify/internal/content"
)

func commentEventOf(payload interface{}) (*content.CommentEvent, bool) {
	ev, ok := payload.(*content.CommentEvent)
	return ev, ok
}

// captureCommentContext snapshots a comment, its post and the involved
// users. A hard-deleted post leaves fc.Post nil and the post merge tags
// resolve to empty strings.
func captureCommentContext(ctx context.Context, repo content.Repository, ev *content.CommentEvent, withParent bool) *FireContext {
	fc := &FireContext{Comment: ev.Comment}
	if ev.Comment == nil {
		return fc
	}
	if p, err := repo.GetPost(ctx, ev.Comment.PostID); err == nil {
		fc.Post = p
		if u, err := repo.GetUser(ctx, p.AuthorID); err == nil {
			fc.Author = u
		}
	}
	if ev.Comment.AuthorID != 0 {
		if u, err := repo.GetUser(ctx, ev.Comment.AuthorID); err == nil {
			fc.CommentAuthor = u
		}
	}
	if withParent && ev.Comment.ParentID != 0 {
		if parent, err := repo.GetComment(ctx, ev.Comment.ParentID); err == nil {
			fc.ParentComment = parent
			if parent.AuthorID != 0 {
				if u, err := repo.GetUser(ctx, parent.AuthorID); err == nil {
					fc.ParentAuthor = u
				}
			}
		}
	}
	return fc
}

func commentCapture(withParent bool) CaptureFunc {
	return func(ctx context.Context, repo content.Repository, payload interface{}) (*FireContext, error) {
		ev, ok := commentEventOf(payload)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", payload)
		}
		return captureCommentContext(ctx, repo, ev, withParent), nil
	}
}

func commentTypeMatches(ev *content.CommentEvent, commentType string) bool {
	return ev.Comment != nil && ev.Comment.Type == commentType
}

// CommentAdded fires when a comment of the configured type is freshly
// inserted and approved.
func CommentAdded(commentType string) *Descriptor {
	return &Descriptor{
		Slug:           commentType + "_added",
		Name:           "Comment added",
		Description:    "Fires when a new comment is added",
		Group:          "comment",
		Event:          content.EventCommentInserted,
		MergeTagGroups: []string{"comment", "comment_author", "post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := commentEventOf(payload)
			return ok && commentTypeMatches(ev, commentType) && ev.FreshInsert &&
				ev.NewStatus == content.CommentStatusApproved
		},
		Capture: commentCapture(false),
	}
}

// CommentReplied fires when a freshly inserted comment replies to another
// comment; the parent comment and its author feed two extra merge tag
// groups.
func CommentReplied(commentType string) *Descriptor {
	return &Descriptor{
		Slug:           commentType + "_replied",
		Name:           "Comment replied",
		Description:    "Fires when a comment receives a reply",
		Group:          "comment",
		Event:          content.EventCommentInserted,
		MergeTagGroups: []string{"comment", "comment_author", "post", "post_author", "parent", "parent_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := commentEventOf(payload)
			return ok && commentTypeMatches(ev, commentType) && ev.FreshInsert &&
				ev.Comment.ParentID != 0
		},
		Capture: commentCapture(true),
	}
}

// CommentApproved fires when a comment transitions into the approved status.
func CommentApproved(commentType string) *Descriptor {
	return &Descriptor{
		Slug:           commentType + "_approved",
		Name:           "Comment approved",
		Description:    "Fires when a comment is approved",
		Group:          "comment",
		Event:          content.EventCommentStatusTransition,
		MergeTagGroups: []string{"comment", "comment_author", "post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := commentEventOf(payload)
			return ok && commentTypeMatches(ev, commentType) &&
				ev.NewStatus == content.CommentStatusApproved && ev.OldStatus != content.CommentStatusApproved
		},
		Capture: commentCapture(false),
	}
}

// CommentUnapproved fires when an approved comment is unapproved.
func CommentUnapproved(commentType string) *Descriptor {
	return &Descriptor{
		Slug:           commentType + "_unapproved",
		Name:           "Comment unapproved",
		Description:    "Fires when a comment is unapproved",
		Group:          "comment",
		Event:          content.EventCommentStatusTransition,
		MergeTagGroups: []string{"comment", "comment_author", "post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := commentEventOf(payload)
			return ok && commentTypeMatches(ev, commentType) &&
				ev.NewStatus == content.CommentStatusUnapproved && ev.OldStatus == content.CommentStatusApproved
		},
		Capture: commentCapture(false),
	}
}

// CommentSpammed fires when a comment is flagged as spam.
func CommentSpammed(commentType string) *Descriptor {
	return &Descriptor{
		Slug:           commentType + "_spammed",
		Name:           "Comment marked as spam",
		Description:    "Fires when a comment is marked as spam",
		Group:          "comment",
		Event:          content.EventCommentStatusTransition,
		MergeTagGroups: []string{"comment", "comment_author", "post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := commentEventOf(payload)
			return ok && commentTypeMatches(ev, commentType) &&
				ev.NewStatus == content.CommentStatusSpam && ev.OldStatus != content.CommentStatusSpam
		},
		Capture: commentCapture(false),
	}
}

// CommentTrashed fires when a comment is moved to the trash.
func CommentTrashed(commentType string) *Descriptor {
	return &Descriptor{
		Slug:           commentType + "_trashed",
		Name:           "Comment trashed",
		Description:    "Fires when a comment is moved to trash",
		Group:          "comment",
		Event:          content.EventCommentStatusTransition,
		MergeTagGroups: []string{"comment", "comment_author", "post", "post_author"},
		Guard: func(payload interface{}) bool {
			ev, ok := commentEventOf(payload)
			return ok && commentTypeMatches(ev, commentType) &&
				ev.NewStatus == content.CommentStatusTrash && ev.OldStatus != content.CommentStatusTrash
		},
		Capture: commentCapture(false),
	}
}
