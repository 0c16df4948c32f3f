// internal/app/features/contact/domain.go
package contact

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

// Schema describes the support inbox. Opening an unread message marks it read.
func Schema() collection.Schema[models.Contact] {
	return collection.Schema[models.Contact]{
		Name:      models.CollContacts,
		Statuses:  models.ContactStatuses,
		Status:    func(c models.Contact) string { return c.Status },
		SetStatus: func(c *models.Contact, s string) { c.Status = s },
		Searchable: func(c models.Contact) []string {
			return []string{c.Name, c.Email, c.Subject}
		},
		Filters: map[string]func(models.Contact) string{
			"status": func(c models.Contact) string { return c.Status },
		},
		OnOpen:   &collection.Transition{From: models.ContactUnread, To: models.ContactRead},
		Validate: validate,
	}
}

func validate(c models.Contact) error {
	var ch inputval.Checker
	return ch.Required("name", c.Name).
		Email("email", c.Email).
		Required("subject", c.Subject).
		MaxLen("subject", c.Subject, 200).
		Required("message", c.Message).
		OneOf("status", c.Status, models.ContactStatuses).
		Err()
}

func clean(c *models.Contact) {
	c.Name = normalize.Name(htmlsanitize.StripTags(c.Name))
	c.Email = normalize.Email(c.Email)
	c.Subject = normalize.Name(htmlsanitize.StripTags(c.Subject))
	c.Message = htmlsanitize.Sanitize(c.Message)
	c.Status = normalize.Enum(c.Status, models.ContactStatuses)
	if c.Status == "" {
		c.Status = models.ContactUnread
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(24 * time.Hour)
	}
}

// Domain configures the support inbox page.
func Domain() listpage.Domain[models.Contact] {
	return listpage.Domain[models.Contact]{
		Schema:       Schema(),
		Noun:         "Message",
		Label:        func(c models.Contact) string { return c.Subject },
		Clean:        clean,
		DeletePrompt: "Delete this message?",
		StatusNotice: func(c models.Contact, status string) notify.Notice {
			return notify.Success("Message updated", fmt.Sprintf("Message from %s marked as %s.", c.Name, status))
		},
		DeletedNotice: func(c models.Contact) notify.Notice {
			return notify.Success("Message deleted", fmt.Sprintf("The message from %s has been removed.", c.Name))
		},
	}
}

// starNotice reports the star state after a toggle.
func starNotice(c models.Contact) notify.Notice {
	if c.Starred {
		return notify.Success("Message starred", fmt.Sprintf("%q has been starred.", c.Subject))
	}
	return notify.Success("Star removed", fmt.Sprintf("%q is no longer starred.", c.Subject))
}

// SeedCount is the number of demo messages.
const SeedCount = 30

const seedMessage = "Hello, I'm interested in learning more about your premium features and how they can help my team scale. " +
	"I have a few questions regarding data security and API access limits."

// Seed generates the demo inbox.
func Seed(rng *rand.Rand, now time.Time) []models.Contact {
	out := make([]models.Contact, SeedCount)
	for i := range out {
		n := i + 1
		out[i] = models.Contact{
			Name:      fmt.Sprintf("User %d", n),
			Email:     fmt.Sprintf("user%d@example.com", n),
			Subject:   listpage.Pick(rng, models.ContactSubjects),
			Message:   seedMessage,
			Status:    listpage.Pick(rng, models.ContactStatuses),
			CreatedAt: now.UTC().Add(-time.Duration(rng.Int64N(int64(11 * 24 * time.Hour)))).Truncate(24 * time.Hour),
			Starred:   rng.Float64() > 0.8,
			Avatar:    listpage.Avatar(n + 100),
		}
	}
	return out
}
