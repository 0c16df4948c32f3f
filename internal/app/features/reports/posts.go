// internal/app/features/reports/posts.go
package reports

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/inputval"
	"github.com/dalemusser/adminpanel/internal/app/system/normalize"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/dalemusser/adminpanel/internal/domain/models"
)

// DeletePostPrompt is shown while a post deletion awaits confirmation.
const DeletePostPrompt = "Are you sure you want to PERMANENTLY DELETE this post? This action will also resolve all associated reports."

func aboutPost(postID int) func(collection.Record[models.Report]) bool {
	return func(r collection.Record[models.Report]) bool { return r.Fields.Post.ID == postID }
}

// reportedPost returns the snapshot of postID held by any of its reports.
func reportedPost(p *listpage.Page[models.Report], postID int) (models.ReportedPost, bool) {
	for _, r := range p.Store().Snapshot() {
		if r.Fields.Post.ID == postID {
			return r.Fields.Post, true
		}
	}
	return models.ReportedPost{}, false
}

// SetPostStatus moderates a reported post: every report about it records
// the post's new status and is marked Resolved.
func SetPostStatus(ctx context.Context, p *listpage.Page[models.Report], postID int, status string) (int, error) {
	id := strconv.Itoa(postID)
	status = normalize.Enum(status, models.ReportedPostStatuses)
	var c inputval.Checker
	if err := c.OneOf("post.status", status, models.ReportedPostStatuses).Err(); err != nil {
		return 0, p.Reject("post_status", id, err)
	}
	post, ok := reportedPost(p, postID)
	if !ok {
		return 0, p.Reject("post_status", id, fmt.Errorf("post %d: %w", postID, collection.ErrNotFound))
	}

	return p.UpdateWhere(ctx, "post_status", aboutPost(postID),
		func(r *models.Report) {
			r.Post.Status = status
			r.Status = models.ReportResolved
		},
		notify.Success("Post status updated",
			fmt.Sprintf("%q is now %s and its reports are resolved.", post.Title, status)),
	)
}

// RequestDeletePost asks for confirmation before removing the post along
// with every report about it.
func RequestDeletePost(p *listpage.Page[models.Report], postID int) (listpage.Pending, error) {
	id := strconv.Itoa(postID)
	post, ok := reportedPost(p, postID)
	if !ok {
		return listpage.Pending{}, p.Reject("delete_post", id, fmt.Errorf("post %d: %w", postID, collection.ErrNotFound))
	}
	target := listpage.Pending{Action: "delete_post", ID: id, Label: post.Title, Prompt: DeletePostPrompt}
	p.RequestDeleteWhere(target, aboutPost(postID),
		notify.Success("Post deleted permanently", "The post has been removed and its reports resolved."))
	return target, nil
}
