// internal/app/features/reports/domain.go
package reports

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/htmlsanitize"
	"github.com/dalemusser/adminpanel/internal/app/system/inputval"
	"github.com/dalemusser/adminpanel/internal/app/system/normalize"
	"github.com/dalemusser/adminpanel/internal/domain/models"
)

// Schema describes the reports collection.
func Schema() collection.Schema[models.Report] {
	return collection.Schema[models.Report]{
		Name:      models.CollReports,
		Statuses:  models.ReportStatuses,
		Status:    func(r models.Report) string { return r.Status },
		SetStatus: func(r *models.Report, s string) { r.Status = s },
		Searchable: func(r models.Report) []string {
			return []string{r.Post.Title, r.Owner.Name, r.Reporter.Name}
		},
		Filters: map[string]func(models.Report) string{
			"status": func(r models.Report) string { return r.Status },
			"reason": func(r models.Report) string { return r.Reason },
		},
		Validate: validate,
	}
}

func validate(r models.Report) error {
	var c inputval.Checker
	return c.Required("report_id", r.ReportID).
		Required("post.title", r.Post.Title).
		OneOf("post.status", r.Post.Status, models.ReportedPostStatuses).
		OneOf("reason", r.Reason, models.ReportReasons).
		OneOf("status", r.Status, models.ReportStatuses).
		Err()
}

func clean(r *models.Report) {
	r.Post.Title = normalize.Name(htmlsanitize.StripTags(r.Post.Title))
	r.Post.Content = htmlsanitize.Sanitize(r.Post.Content)
	r.Post.Status = normalize.Enum(r.Post.Status, models.ReportedPostStatuses)
	if r.Post.Status == "" {
		r.Post.Status = models.ReportedPostActive
	}
	r.Owner.Name = normalize.Name(htmlsanitize.StripTags(r.Owner.Name))
	r.Owner.Email = normalize.Email(r.Owner.Email)
	r.Reporter.Name = normalize.Name(htmlsanitize.StripTags(r.Reporter.Name))
	r.Reporter.Email = normalize.Email(r.Reporter.Email)
	r.Reason = normalize.Enum(r.Reason, models.ReportReasons)
	r.Status = normalize.Enum(r.Status, models.ReportStatuses)
	if r.Status == "" {
		r.Status = models.ReportPending
	}
	r.Description = htmlsanitize.Sanitize(r.Description)
	if r.ReportedAt.IsZero() {
		r.ReportedAt = time.Now().UTC().Truncate(24 * time.Hour)
	}
}

// Domain configures the reported posts list page.
func Domain() listpage.Domain[models.Report] {
	return listpage.Domain[models.Report]{
		Schema:       Schema(),
		Noun:         "Report",
		Label:        func(r models.Report) string { return r.ReportID },
		Clean:        clean,
		DeletePrompt: "Are you sure you want to delete this report?",
	}
}

// SeedCount is the number of demo reports.
const SeedCount = 25

var seedTopics = []string{"AI", "Crypto", "Politics", "Gaming", "Health"}

// Seed generates the demo reports. Each report refers to its own post.
func Seed(rng *rand.Rand, now time.Time) []models.Report {
	out := make([]models.Report, SeedCount)
	for i := range out {
		out[i] = models.Report{
			ReportID: fmt.Sprintf("REP-%d", 1000+i),
			Post: models.ReportedPost{
				ID:      200 + i,
				Title:   fmt.Sprintf("User conversation about %s goes wrong", seedTopics[i%len(seedTopics)]),
				Content: "This is a detailed preview of the reported content. Administrators need to review the context thoroughly.",
				Status:  listpage.Pick(rng, models.ReportedPostStatuses),
				Image:   fmt.Sprintf("https://picsum.photos/seed/%d/400/200", i+1),
			},
			Owner: models.Party{
				Name:   fmt.Sprintf("User %d", i+5),
				Email:  fmt.Sprintf("user%d@example.com", i+5),
				Avatar: listpage.Avatar(i + 5),
			},
			Reporter: models.Party{
				Name:   fmt.Sprintf("Reporter %d", i+10),
				Email:  fmt.Sprintf("reporter%d@example.com", i+10),
				Avatar: listpage.Avatar(i + 50),
			},
			Reason:      listpage.Pick(rng, models.ReportReasons),
			Status:      listpage.Pick(rng, models.ReportStatuses),
			ReportedAt:  now.UTC().Add(-time.Duration(rng.Int64N(int64(6 * 24 * time.Hour)))).Truncate(24 * time.Hour),
			Description: "The user is repeatedly posting irrelevant links and using caps lock in every sentence.",
		}
	}
	return out
}
