// internal/domain/models/post.go
package models

import "time"

// Post statuses.
const (
	PostPublished = "Published"
	PostDraft     = "Draft"
	PostArchived  = "Archived"
)

// PostStatuses is the closed status enumeration for posts.
var PostStatuses = []string{PostPublished, PostDraft, PostArchived}

// PostCategories lists the categories offered by the post filter.
var PostCategories = []string{"Technology", "Lifestyle", "Travel", "Health", "Business"}

// Author is the embedded author summary on a post.
type Author struct {
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Post is a piece of user-authored content.
type Post struct {
	Title       string    `bson:"title" json:"title"`
	Author      Author    `bson:"author" json:"author"`
	Category    string    `bson:"category" json:"category"`
	Status      string    `bson:"status" json:"status"`
	PublishedAt time.Time `bson:"published_at" json:"published_at"`
	Likes       int       `bson:"likes" json:"likes"`
	Comments    int       `bson:"comments" json:"comments"`
	Content     string    `bson:"content" json:"content"` // sanitized HTML
}
