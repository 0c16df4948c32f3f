// internal/app/features/users/domain.go
package users

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/htmlsanitize"
	"github.com/dalemusser/adminpanel/internal/app/system/inputval"
	"github.com/dalemusser/adminpanel/internal/app/system/normalize"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/dalemusser/adminpanel/internal/domain/models"
)

// Schema describes the users collection.
func Schema() collection.Schema[models.User] {
	return collection.Schema[models.User]{
		Name:       models.CollUsers,
		Statuses:   models.UserStatuses,
		Status:     func(u models.User) string { return u.Status },
		SetStatus:  func(u *models.User, s string) { u.Status = s },
		Searchable: func(u models.User) []string { return []string{u.Name, u.Email} },
		Filters: map[string]func(models.User) string{
			"status": func(u models.User) string { return u.Status },
			"role":   func(u models.User) string { return u.Role },
		},
		Validate: validate,
	}
}

func validate(u models.User) error {
	var c inputval.Checker
	return c.Required("name", u.Name).
		MaxLen("name", u.Name, 200).
		Email("email", u.Email).
		OneOf("role", u.Role, models.UserRoles).
		OneOf("status", u.Status, models.UserStatuses).
		Err()
}

// clean normalizes form input. A new user defaults to an active User
// joined today.
func clean(u *models.User) {
	u.Name = normalize.Name(htmlsanitize.StripTags(u.Name))
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Enum(u.Role, models.UserRoles)
	u.Status = normalize.Enum(u.Status, models.UserStatuses)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	if u.Joined.IsZero() {
		u.Joined = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if u.Avatar == "" && u.Email != "" {
		u.Avatar = "https://i.pravatar.cc/150?u=" + url.QueryEscape(u.Email)
	}
}

// Domain configures the users list page.
func Domain() listpage.Domain[models.User] {
	return listpage.Domain[models.User]{
		Schema:       Schema(),
		Noun:         "User",
		Label:        func(u models.User) string { return u.Name },
		Clean:        clean,
		DeletePrompt: "Are you sure you want to permanently delete this user account? This action will remove all their access and data immediately.",
		CreatedNotice: func(u models.User) notify.Notice {
			return notify.Success("User created successfully",
				fmt.Sprintf("%s has been added as a new %s.", u.Name, u.Role))
		},
		UpdatedNotice: func(u models.User) notify.Notice {
			return notify.Success("User updated successfully",
				fmt.Sprintf("%s's profile has been updated.", u.Name))
		},
		DeletedNotice: func(u models.User) notify.Notice {
			return notify.Success("User deleted successfully",
				fmt.Sprintf("%s has been removed from the system.", u.Name))
		},
	}
}

// SeedCount is the number of demo users.
const SeedCount = 50

// Seed generates the demo users.
func Seed(rng *rand.Rand, now time.Time) []models.User {
	out := make([]models.User, SeedCount)
	for i := range out {
		n := i + 1
		out[i] = models.User{
			Name:   fmt.Sprintf("User %d", n),
			Email:  fmt.Sprintf("user%d@example.com", n),
			Role:   listpage.Pick(rng, models.UserRoles),
			Status: listpage.Pick(rng, models.UserStatuses),
			Joined: daysAgo(rng, now, 115),
			Avatar: listpage.Avatar(n),
		}
	}
	return out
}

// daysAgo returns a random day within the last maxDays days.
func daysAgo(rng *rand.Rand, now time.Time, maxDays int) time.Time {
	return now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -rng.IntN(maxDays+1))
}
