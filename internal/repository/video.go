package repository

import (
	"database/sql"
	"errors"

	"github.com/fitai/fitai/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrVideoNotFound = errors.New("video not found")
)

type VideoRepository interface {
	Create(video *model.Video) error
	ByID(id string) (*model.Video, error)
	ByOwner(ownerID string) ([]*model.Video, error)
	CountByOwner(ownerID string) (int, error)
	SetProcessing(id string) error
	SetAnalyzed(id, result string) error
	SetFailed(id, errorContext string) error
	Delete(id string) error
}

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(video *model.Video) error {
	query := `INSERT INTO videos (id, owner_id, storage_key, public_url, title, exercise_type, status, analysis_result, error_context, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		video.ID,
		video.OwnerID,
		video.StorageKey,
		video.PublicURL,
		video.Title,
		video.ExerciseType,
		video.Status,
		video.AnalysisResult,
		video.ErrorContext,
		video.CreatedAt,
	)

	return err
}

func (r *videoRepository) ByID(id string) (*model.Video, error) {
	video := &model.Video{}
	query := `SELECT * FROM videos WHERE id = $1`

	err := r.db.Get(video, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrVideoNotFound
	}

	return video, err
}

func (r *videoRepository) ByOwner(ownerID string) ([]*model.Video, error) {
	var videos []*model.Video
	query := `SELECT * FROM videos WHERE owner_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&videos, query, ownerID)
	if err != nil {
		return nil, err
	}

	return videos, nil
}

func (r *videoRepository) CountByOwner(ownerID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM videos WHERE owner_id = $1`

	err := r.db.Get(&count, query, ownerID)
	return count, err
}

// SetProcessing marks a video as handed off for analysis.
func (r *videoRepository) SetProcessing(id string) error {
	query := `UPDATE videos SET status = $1 WHERE id = $2`

	return r.update(query, model.VideoStatusProcessing, id)
}

// SetAnalyzed stores the result payload and clears any stale error context,
// keeping the "analysis_result non-null iff analyzed" invariant.
func (r *videoRepository) SetAnalyzed(id, result string) error {
	query := `UPDATE videos SET status = $1, analysis_result = $2, error_context = NULL WHERE id = $3`

	return r.update(query, model.VideoStatusAnalyzed, result, id)
}

// SetFailed always persists the error context alongside the failed status so
// failures stay diagnosable.
func (r *videoRepository) SetFailed(id, errorContext string) error {
	query := `UPDATE videos SET status = $1, analysis_result = NULL, error_context = $2 WHERE id = $3`

	return r.update(query, model.VideoStatusFailed, errorContext, id)
}

func (r *videoRepository) update(query string, args ...any) error {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrVideoNotFound
	}

	return nil
}

func (r *videoRepository) Delete(id string) error {
	query := `DELETE FROM videos WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrVideoNotFound
	}

	return nil
}
