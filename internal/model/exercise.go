package model

import (
	"time"
)

// Exercise is a library entry curated by admins: a demonstration video plus
// a thumbnail image.
type Exercise struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	MuscleGroup  string    `db:"muscle_group" json:"muscleGroup"`
	VideoURL     string    `db:"video_url" json:"videoUrl"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnailUrl"`
	StorageKey   string    `db:"storage_key" json:"-"`
	ThumbnailKey string    `db:"thumbnail_key" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
