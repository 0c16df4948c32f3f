// internal/domain/models/waitlist.go
package models

import "time"

// Waitlist statuses.
const (
	WaitlistPending  = "Pending"
	WaitlistInvited  = "Invited"
	WaitlistJoined   = "Joined"
	WaitlistRejected = "Rejected"
)

// WaitlistStatuses is the closed status enumeration for waitlist entries.
var WaitlistStatuses = []string{WaitlistPending, WaitlistInvited, WaitlistJoined, WaitlistRejected}

// WaitlistSources lists the acquisition channels shown in the source filter.
var WaitlistSources = []string{"Twitter", "LinkedIn", "Direct", "Referral", "Product Hunt", "Newsletter"}

// WaitlistEntry is a person queued for early access.
type WaitlistEntry struct {
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Source    string    `bson:"source" json:"source"`
	Status    string    `bson:"status" json:"status"`
	Rank      int       `bson:"rank" json:"rank"`
	Referrals int       `bson:"referrals" json:"referrals"`
	JoinedAt  time.Time `bson:"joined_at" json:"joined_at"`
	Avatar    string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Notes     string    `bson:"notes" json:"notes"`
}
