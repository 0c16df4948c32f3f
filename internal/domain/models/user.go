// internal/domain/models/user.go
package models

import "time"

// User statuses.
const (
	UserActive   = "Active"
	UserInactive = "Inactive"
)

// User roles.
const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleUser   = "User"
)

// UserStatuses is the closed status enumeration for users.
var UserStatuses = []string{UserActive, UserInactive}

// UserRoles lists the roles a user may hold.
var UserRoles = []string{RoleAdmin, RoleEditor, RoleUser}

// User is a platform account managed from the Users page.
type User struct {
	Name   string    `bson:"name" json:"name"`
	Email  string    `bson:"email" json:"email"`
	Role   string    `bson:"role" json:"role"`
	Status string    `bson:"status" json:"status"`
	Joined time.Time `bson:"joined" json:"joined"`
	Avatar string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
