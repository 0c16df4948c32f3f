// internal/domain/models/deletion.go
package models

import "time"

// Deletion request statuses.
const (
	DeletionPending    = "Pending"
	DeletionProcessing = "Processing"
	DeletionCompleted  = "Completed"
	DeletionCancelled  = "Cancelled"
)

// Deletion request types.
const (
	DeletionFull     = "FULL_DELETION" // account and all data
	DeletionDataOnly = "DATA_ONLY"     // data only, account kept
)

// DeletionStatuses is the closed status enumeration for deletion requests.
var DeletionStatuses = []string{DeletionPending, DeletionProcessing, DeletionCompleted, DeletionCancelled}

// DeletionTypes lists the request types.
var DeletionTypes = []string{DeletionFull, DeletionDataOnly}

// DeletionRequest is a user's request to have their account or data removed.
type DeletionRequest struct {
	RequestID   string    `bson:"request_id" json:"request_id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Reason      string    `bson:"reason" json:"reason"`
	Type        string    `bson:"type" json:"type"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	Avatar      string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Description string    `bson:"description" json:"description"`
}
