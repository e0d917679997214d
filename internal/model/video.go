package model

import (
	"time"
)

const (
	VideoStatusUploaded   = "uploaded"
	VideoStatusProcessing = "processing"
	VideoStatusAnalyzed   = "analyzed"
	VideoStatusFailed     = "failed"
)

type Video struct {
	ID             string    `db:"id" json:"id"`
	OwnerID        string    `db:"owner_id" json:"ownerId"`
	StorageKey     string    `db:"storage_key" json:"-"`
	PublicURL      string    `db:"public_url" json:"publicUrl"`
	Title          string    `db:"title" json:"title"`
	ExerciseType   string    `db:"exercise_type" json:"exerciseType"`
	Status         string    `db:"status" json:"status"`
	AnalysisResult *string   `db:"analysis_result" json:"analysisResult"` // JSON payload, non-null only when status = analyzed
	ErrorContext   *string   `db:"error_context" json:"errorContext,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
