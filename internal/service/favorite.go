package service

import (
	"errors"
	"time"

	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo}
}

const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// ToggleResult reports which way a toggle landed.
type ToggleResult struct {
	Status    string `json:"status"`
	Favorited bool   `json:"favorited"`
}

// Toggle flips the favorite state for (user, video). Delete-then-insert
// avoids a read-modify-write race: whichever concurrent request wins the
// insert, both callers get a truthful final state.
func (s *FavoriteService) Toggle(userID, videoID string) (*ToggleResult, error) {
	removed, err := s.favoriteRepo.Delete(userID, videoID)
	if err != nil {
		return nil, err
	}
	if removed {
		return &ToggleResult{Status: ToggleRemoved, Favorited: false}, nil
	}

	err = s.favoriteRepo.Create(&model.Favorite{
		UserID:    userID,
		VideoID:   videoID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		// Concurrent toggle won the insert; the favorite exists either way
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return &ToggleResult{Status: ToggleAdded, Favorited: true}, nil
		}
		return nil, err
	}

	return &ToggleResult{Status: ToggleAdded, Favorited: true}, nil
}

// VideoIDs lists the video ids the user has favorited, newest first.
func (s *FavoriteService) VideoIDs(userID string) ([]string, error) {
	return s.favoriteRepo.VideoIDs(userID)
}
