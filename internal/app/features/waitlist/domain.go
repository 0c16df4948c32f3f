// internal/app/features/waitlist/domain.go
package waitlist

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

// Schema describes the waiting list. Views are ordered by queue rank.
func Schema() collection.Schema[models.WaitlistEntry] {
	return collection.Schema[models.WaitlistEntry]{
		Name:       models.CollWaitlist,
		Statuses:   models.WaitlistStatuses,
		Status:     func(e models.WaitlistEntry) string { return e.Status },
		SetStatus:  func(e *models.WaitlistEntry, s string) { e.Status = s },
		Searchable: func(e models.WaitlistEntry) []string { return []string{e.Name, e.Email} },
		Filters: map[string]func(models.WaitlistEntry) string{
			"status": func(e models.WaitlistEntry) string { return e.Status },
			"source": func(e models.WaitlistEntry) string { return e.Source },
		},
		Rank:     func(e models.WaitlistEntry) int { return e.Rank },
		Validate: validate,
	}
}

func validate(e models.WaitlistEntry) error {
	var c inputval.Checker
	return c.Required("name", e.Name).
		Email("email", e.Email).
		OneOf("source", e.Source, models.WaitlistSources).
		OneOf("status", e.Status, models.WaitlistStatuses).
		Positive("rank", e.Rank).
		NonNegative("referrals", e.Referrals).
		Err()
}

// nextRank puts a new entry at the back of the queue.
func nextRank(existing []collection.Record[models.WaitlistEntry], e *models.WaitlistEntry) {
	if e.Rank > 0 {
		return
	}
	last := 0
	for _, r := range existing {
		last = max(last, r.Fields.Rank)
	}
	e.Rank = last + 1
}

func clean(e *models.WaitlistEntry) {
	e.Name = normalize.Name(htmlsanitize.StripTags(e.Name))
	e.Email = normalize.Email(e.Email)
	e.Source = normalize.Enum(e.Source, models.WaitlistSources)
	if e.Source == "" {
		e.Source = "Direct"
	}
	e.Status = normalize.Enum(e.Status, models.WaitlistStatuses)
	if e.Status == "" {
		e.Status = models.WaitlistPending
	}
	e.Notes = htmlsanitize.Sanitize(e.Notes)
	if e.JoinedAt.IsZero() {
		e.JoinedAt = time.Now().UTC().Truncate(24 * time.Hour)
	}
}

func statusNotice(e models.WaitlistEntry, status string) notify.Notice {
	switch status {
	case models.WaitlistInvited:
		return notify.Success("Invitation sent", fmt.Sprintf("An invitation has been sent to %s.", e.Email))
	case models.WaitlistJoined:
		return notify.Success("Access approved", fmt.Sprintf("%s has joined the platform.", e.Name))
	default:
		return notify.Success("Status updated", fmt.Sprintf("%s is now %s.", e.Name, status))
	}
}

// Domain configures the waiting list page.
func Domain() listpage.Domain[models.WaitlistEntry] {
	return listpage.Domain[models.WaitlistEntry]{
		Schema:       Schema(),
		Noun:         "Entry",
		Label:        func(e models.WaitlistEntry) string { return e.Name },
		Clean:        clean,
		Prepare:      nextRank,
		DeletePrompt: "Remove this person from the waiting list?",
		StatusNotice: statusNotice,
		DeletedNotice: func(e models.WaitlistEntry) notify.Notice {
			return notify.Success("Removed from waitlist", fmt.Sprintf("%s has been removed from the waiting list.", e.Name))
		},
	}
}

// SeedCount is the number of demo waitlist entries.
const SeedCount = 40

// Seed generates the demo waiting list, ranked in order.
func Seed(rng *rand.Rand, now time.Time) []models.WaitlistEntry {
	out := make([]models.WaitlistEntry, SeedCount)
	for i := range out {
		n := i + 1
		out[i] = models.WaitlistEntry{
			Name:      fmt.Sprintf("Early Adopter %d", n),
			Email:     fmt.Sprintf("early%d@example.com", n),
			Source:    listpage.Pick(rng, models.WaitlistSources),
			Status:    listpage.Pick(rng, models.WaitlistStatuses),
			Rank:      n,
			Referrals: rng.IntN(15),
			JoinedAt:  now.UTC().Add(-time.Duration(rng.Int64N(int64(23 * 24 * time.Hour)))).Truncate(24 * time.Hour),
			Avatar:    listpage.Avatar(n + 300),
			Notes:     "Interested in the enterprise collaboration features and early API access.",
		}
	}
	return out
}
