// internal/app/features/deletions/domain.go
package deletions

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/htmlsanitize"
	"github.com/dalemusser/adminpanel/internal/app/system/inputval"
	"github.com/dalemusser/adminpanel/internal/app/system/normalize"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/dalemusser/adminpanel/internal/domain/models"
)

// Schema describes the deletion requests collection.
func Schema() collection.Schema[models.DeletionRequest] {
	return collection.Schema[models.DeletionRequest]{
		Name:      models.CollDeletions,
		Statuses:  models.DeletionStatuses,
		Status:    func(d models.DeletionRequest) string { return d.Status },
		SetStatus: func(d *models.DeletionRequest, s string) { d.Status = s },
		Searchable: func(d models.DeletionRequest) []string {
			return []string{d.Name, d.Email, d.RequestID}
		},
		Filters: map[string]func(models.DeletionRequest) string{
			"status": func(d models.DeletionRequest) string { return d.Status },
			"type":   func(d models.DeletionRequest) string { return d.Type },
		},
		Validate: validate,
	}
}

func validate(d models.DeletionRequest) error {
	var c inputval.Checker
	return c.Required("request_id", d.RequestID).
		Required("name", d.Name).
		Email("email", d.Email).
		OneOf("type", d.Type, models.DeletionTypes).
		OneOf("status", d.Status, models.DeletionStatuses).
		Err()
}

func clean(d *models.DeletionRequest) {
	d.RequestID = normalize.QueryParam(d.RequestID)
	d.Name = normalize.Name(htmlsanitize.StripTags(d.Name))
	d.Email = normalize.Email(d.Email)
	d.Reason = normalize.Name(htmlsanitize.StripTags(d.Reason))
	d.Type = normalize.Enum(d.Type, models.DeletionTypes)
	if d.Type == "" {
		d.Type = models.DeletionFull
	}
	d.Status = normalize.Enum(d.Status, models.DeletionStatuses)
	if d.Status == "" {
		d.Status = models.DeletionPending
	}
	d.Description = htmlsanitize.Sanitize(d.Description)
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC().Truncate(24 * time.Hour)
	}
}

// DeletePrompt is shown while a user deletion awaits confirmation.
const DeletePrompt = "CRITICAL ACTION: This will permanently delete the user account and all associated data. This cannot be undone. Proceed?"

// Domain configures the deletion requests page. The queue opens on pending
// requests, and completing a request closes its detail view.
func Domain() listpage.Domain[models.DeletionRequest] {
	return listpage.Domain[models.DeletionRequest]{
		Schema:         Schema(),
		Noun:           "Request",
		Label:          func(d models.DeletionRequest) string { return d.RequestID },
		Clean:          clean,
		DeletePrompt:   DeletePrompt,
		DefaultFilters: map[string]string{"status": models.DeletionPending},
		ClosesOnStatus: func(status string) bool { return status == models.DeletionCompleted },
		StatusNotice: func(d models.DeletionRequest, status string) notify.Notice {
			return notify.Success("Request "+status, fmt.Sprintf("%s for %s is now %s.", d.RequestID, d.Name, status))
		},
		DeletedNotice: func(d models.DeletionRequest) notify.Notice {
			return notify.Success("User deleted", fmt.Sprintf("The account for %s and all associated data have been removed.", d.Name))
		},
	}
}

// SeedCount is the number of demo deletion requests.
const SeedCount = 20

var seedReasons = []string{
	"No longer using the platform",
	"Privacy concerns",
	"Receiving too many emails",
	"Found a better alternative",
	"Technical issues",
	"Account security compromised",
}

// Seed generates the demo deletion requests.
func Seed(rng *rand.Rand, now time.Time) []models.DeletionRequest {
	out := make([]models.DeletionRequest, SeedCount)
	for i := range out {
		out[i] = models.DeletionRequest{
			RequestID:   fmt.Sprintf("DEL-%d", 2000+i),
			Name:        fmt.Sprintf("User %d", i+20),
			Email:       fmt.Sprintf("user%d@example.com", i+20),
			Reason:      listpage.Pick(rng, seedReasons),
			Type:        listpage.Pick(rng, models.DeletionTypes),
			Status:      listpage.Pick(rng, models.DeletionStatuses),
			CreatedAt:   now.UTC().Add(-time.Duration(rng.Int64N(int64(9 * 24 * time.Hour)))).Truncate(24 * time.Hour),
			Avatar:      listpage.Avatar(i + 200),
			Description: "I want to ensure all my personal data and interaction history is completely removed from your servers.",
		}
	}
	return out
}
