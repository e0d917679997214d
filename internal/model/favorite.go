package model

import (
	"time"
)

// Favorite is a bare user/video membership row. Uniqueness per
// (user_id, video_id) pair is enforced by the store's primary key.
type Favorite struct {
	UserID    string    `db:"user_id" json:"userId"`
	VideoID   string    `db:"video_id" json:"videoId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
