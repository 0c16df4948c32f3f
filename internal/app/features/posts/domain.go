// internal/app/features/posts/domain.go
package posts

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

// Schema describes the posts collection.
func Schema() collection.Schema[models.Post] {
	return collection.Schema[models.Post]{
		Name:       models.CollPosts,
		Statuses:   models.PostStatuses,
		Status:     func(p models.Post) string { return p.Status },
		SetStatus:  func(p *models.Post, s string) { p.Status = s },
		Searchable: func(p models.Post) []string { return []string{p.Title, p.Author.Name} },
		Filters: map[string]func(models.Post) string{
			"status":   func(p models.Post) string { return p.Status },
			"category": func(p models.Post) string { return p.Category },
		},
		Validate: validate,
	}
}

func validate(p models.Post) error {
	var c inputval.Checker
	return c.Required("title", p.Title).
		MaxLen("title", p.Title, 300).
		Required("author.name", p.Author.Name).
		OneOf("category", p.Category, models.PostCategories).
		OneOf("status", p.Status, models.PostStatuses).
		NonNegative("likes", p.Likes).
		NonNegative("comments", p.Comments).
		Err()
}

func clean(p *models.Post) {
	p.Title = normalize.Name(htmlsanitize.StripTags(p.Title))
	p.Author.Name = normalize.Name(htmlsanitize.StripTags(p.Author.Name))
	p.Category = normalize.Enum(p.Category, models.PostCategories)
	p.Status = normalize.Enum(p.Status, models.PostStatuses)
	if p.Status == "" {
		p.Status = models.PostDraft
	}
	p.Content = htmlsanitize.Sanitize(p.Content)
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now().UTC().Truncate(24 * time.Hour)
	}
}

// Toggle flips a published post to draft and anything else to published.
func Toggle(current string) string {
	if current == models.PostPublished {
		return models.PostDraft
	}
	return models.PostPublished
}

func statusNotice(_ models.Post, status string) notify.Notice {
	var title string
	switch status {
	case models.PostPublished:
		title = "Post Published"
	case models.PostDraft:
		title = "Post Moved to Draft"
	default:
		title = "Post " + status
	}
	return notify.Success(title, fmt.Sprintf("Post status has been updated to %s.", status))
}

// Domain configures the posts list page.
func Domain() listpage.Domain[models.Post] {
	return listpage.Domain[models.Post]{
		Schema:       Schema(),
		Noun:         "Post",
		Label:        func(p models.Post) string { return p.Title },
		Clean:        clean,
		DeletePrompt: "Are you sure you want to permanently delete this post? This action cannot be reversed and all associated data will be lost.",
		StatusNotice: statusNotice,
		DeletedNotice: func(models.Post) notify.Notice {
			return notify.Success("Post deleted permanently", "The post and all its data have been removed.")
		},
	}
}

// SeedCount is the number of demo posts.
const SeedCount = 50

const loremContent = "<p>Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. " +
	"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.</p>"

// Seed generates the demo posts.
func Seed(rng *rand.Rand, now time.Time) []models.Post {
	day := now.UTC().Truncate(24 * time.Hour)
	out := make([]models.Post, SeedCount)
	for i := range out {
		n := i + 1
		out[i] = models.Post{
			Title:       fmt.Sprintf("Comprehensive Guide to Dashboard Design - Part %d", n),
			Author:      models.Author{Name: fmt.Sprintf("Author %d", n), Avatar: listpage.Avatar(n + 10)},
			Category:    listpage.Pick(rng, models.PostCategories),
			Status:      listpage.Pick(rng, models.PostStatuses),
			PublishedAt: day.AddDate(0, 0, -rng.IntN(116)),
			Likes:       rng.IntN(500),
			Comments:    rng.IntN(100),
			Content:     loremContent,
		}
	}
	return out
}
