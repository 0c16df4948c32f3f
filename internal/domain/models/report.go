// internal/domain/models/report.go
package models

import "time"

// Report statuses.
const (
	ReportPending   = "Pending"
	ReportReviewed  = "Reviewed"
	ReportResolved  = "Resolved"
	ReportDismissed = "Dismissed"
)

// Statuses a reported post can be moved to by a moderator.
const (
	ReportedPostActive = "Active"
	ReportedPostHidden = "Hidden"
	ReportedPostBanned = "Banned"
)

// ReportStatuses is the closed status enumeration for reports.
var ReportStatuses = []string{ReportPending, ReportReviewed, ReportResolved, ReportDismissed}

// ReportedPostStatuses is the closed status enumeration for the post under review.
var ReportedPostStatuses = []string{ReportedPostActive, ReportedPostHidden, ReportedPostBanned}

// ReportReasons lists the reasons a reporter can pick.
var ReportReasons = []string{
	"Inappropriate Content",
	"Spam",
	"Hate Speech",
	"Harassment",
	"False Information",
	"Copyright Violation",
}

// ReportedPost is the snapshot of the post a report refers to.
type ReportedPost struct {
	ID      int    `bson:"id" json:"id"`
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
	Status  string `bson:"status" json:"status"`
	Image   string `bson:"image,omitempty" json:"image,omitempty"`
}

// Party identifies a person involved in a report (owner or reporter).
type Party struct {
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Report is a moderation report filed against a post.
type Report struct {
	ReportID    string       `bson:"report_id" json:"report_id"`
	Post        ReportedPost `bson:"post" json:"post"`
	Owner       Party        `bson:"owner" json:"owner"`
	Reporter    Party        `bson:"reporter" json:"reporter"`
	Reason      string       `bson:"reason" json:"reason"`
	Status      string       `bson:"status" json:"status"`
	ReportedAt  time.Time    `bson:"reported_at" json:"reported_at"`
	Description string       `bson:"description" json:"description"`
}
