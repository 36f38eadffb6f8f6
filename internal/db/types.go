package db

import (
	"time"

	"github.com/google/uuid"
)

// Run is one review, video or weekly run recorded for a content record.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	ContentID   string     `json:"content_id"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	Detail      string     `json:"detail,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run kinds
const (
	KindReview = "review"
	KindVideo  = "video"
	KindWeekly = "weekly"
)

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusBlocked   = "blocked"
	StatusFailed    = "failed"
)

// Artifact steps
const (
	StepDraft       = "draft"
	StepVerdict     = "verdict"
	StepImprovement = "improvement"
	StepRegenerated = "regenerated"
	StepPatch       = "patch"
	StepComposition = "composition"
	StepUpload      = "upload"
)

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	ContentID string
	Kind      string
	Status    string
	Limit     int
}
