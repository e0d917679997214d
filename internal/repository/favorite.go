package repository

import (
	"errors"
	"strings"

	"github.com/fitai/fitai/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrDuplicateFavorite = errors.New("favorite already exists")
)

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	Delete(userID, videoID string) (bool, error)
	VideoIDs(userID string) ([]string, error)
}

type favoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	query := `INSERT INTO favorites (user_id, video_id, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(query, favorite.UserID, favorite.VideoID, favorite.CreatedAt)
	if err != nil {
		// Constraint violations (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateFavorite
		}
		if strings.Contains(errStr, "FOREIGN KEY constraint failed") || strings.Contains(errStr, "violates foreign key constraint") {
			return ErrVideoNotFound
		}
		return err
	}

	return nil
}

// Delete reports whether a row was actually removed so callers can tell a
// toggle-off apart from a no-op.
func (r *favoriteRepository) Delete(userID, videoID string) (bool, error) {
	query := `DELETE FROM favorites WHERE user_id = $1 AND video_id = $2`

	result, err := r.db.Exec(query, userID, videoID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *favoriteRepository) VideoIDs(userID string) ([]string, error) {
	var ids []string
	query := `SELECT video_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&ids, query, userID)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
