package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/fitai/fitai/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrDuplicateProfile = errors.New("profile already exists")
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	ByID(id string) (*model.Profile, error)
	UpdateName(id, name string) error
	Delete(id string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	query := `INSERT INTO profiles (id, email, name, role, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, profile.ID, profile.Email, profile.Name, profile.Role, profile.CreatedAt)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateProfile
		}
		return err
	}

	return nil
}

func (r *profileRepository) ByID(id string) (*model.Profile, error) {
	profile := &model.Profile{}
	query := `SELECT * FROM profiles WHERE id = $1`

	err := r.db.Get(profile, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}

	return profile, err
}

func (r *profileRepository) UpdateName(id, name string) error {
	query := `UPDATE profiles SET name = $1 WHERE id = $2`

	result, err := r.db.Exec(query, name, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) Delete(id string) error {
	query := `DELETE FROM profiles WHERE id = $1`

	_, err := r.db.Exec(query, id)
	return err
}
