// internal/domain/models/contact.go
package models

import "time"

// Contact message statuses.
const (
	ContactUnread   = "Unread"
	ContactRead     = "Read"
	ContactResolved = "Resolved"
)

// ContactStatuses is the closed status enumeration for contact messages.
var ContactStatuses = []string{ContactUnread, ContactRead, ContactResolved}

// ContactSubjects lists the subjects offered on the public contact form.
var ContactSubjects = []string{
	"General Inquiry",
	"Technical Support",
	"Partnership",
	"Billing Issue",
	"Feature Request",
	"Bug Report",
}

// Contact is a message sent through the public contact form.
type Contact struct {
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Subject   string    `bson:"subject" json:"subject"`
	Message   string    `bson:"message" json:"message"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Starred   bool      `bson:"starred" json:"starred"`
	Avatar    string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
