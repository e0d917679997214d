package service

import (
	"time"

	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	videoRepo   repository.VideoRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, videoRepo repository.VideoRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		videoRepo:   videoRepo,
	}
}

// Overview is the profile page payload: account info plus activity stats.
type Overview struct {
	Profile      *model.Profile `json:"profile"`
	VideoCount   int            `json:"videoCount"`
	MonthsActive int            `json:"monthsActive"`
}

func (s *ProfileService) Overview(userID string) (*Overview, error) {
	profile, err := s.profileRepo.ByID(userID)
	if err != nil {
		return nil, err
	}

	count, err := s.videoRepo.CountByOwner(userID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Profile:      profile,
		VideoCount:   count,
		MonthsActive: monthsSince(profile.CreatedAt, time.Now()),
	}, nil
}

func (s *ProfileService) ByID(userID string) (*model.Profile, error) {
	return s.profileRepo.ByID(userID)
}

func (s *ProfileService) UpdateName(userID, name string) error {
	return s.profileRepo.UpdateName(userID, name)
}

// monthsSince counts whole calendar months between two times, minimum 1 so a
// brand-new account shows as one month active.
func monthsSince(start, now time.Time) int {
	if now.Before(start) {
		return 1
	}

	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if now.Day() < start.Day() {
		months--
	}
	if months < 1 {
		return 1
	}

	return months
}
