// internal/domain/models/collections.go
package models

// Mongo collection names. Each list domain is stored in the collection of
// the same name.
const (
	CollUsers     = "users"
	CollPosts     = "posts"
	CollReports   = "reports"
	CollContacts  = "contacts"
	CollDeletions = "deletions"
	CollWaitlist  = "waitlist"
	CollSessions  = "sessions"
	CollAudit     = "audit_events"
)

// ListCollections are the collections backing the admin list pages.
var ListCollections = []string{CollUsers, CollPosts, CollReports, CollContacts, CollDeletions, CollWaitlist}
