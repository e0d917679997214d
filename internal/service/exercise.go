package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/sanitize"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/validation"
	"github.com/google/uuid"
)

var ErrDuplicateExercise = errors.New("an exercise with this media already exists")

// ExerciseService maintains the admin-curated exercise library: a
// demonstration video plus a thumbnail per entry.
type ExerciseService struct {
	exerciseRepo repository.ExerciseRepository
	storage      storage.Storage
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, storage storage.Storage) *ExerciseService {
	return &ExerciseService{
		exerciseRepo: exerciseRepo,
		storage:      storage,
	}
}

type CreateExerciseInput struct {
	Name        string
	Description string
	MuscleGroup string
	Video       *multipart.FileHeader
	Thumbnail   *multipart.FileHeader
}

// Create uploads both media blobs and records the entry. If anything after
// the first blob fails, already-uploaded blobs are removed so the library
// never references half-written media.
func (s *ExerciseService) Create(ctx context.Context, in CreateExerciseInput) (*model.Exercise, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("exercise name is required")
	}
	if in.Video == nil || in.Thumbnail == nil {
		return nil, fmt.Errorf("exercise requires both a video and a thumbnail")
	}
	if err := validation.ValidateFile(in.Video, validation.VideoConstraints); err != nil {
		return nil, err
	}
	if err := validation.ValidateFile(in.Thumbnail, validation.ImageConstraints); err != nil {
		return nil, err
	}

	videoKey := path.Join("exercises", sanitize.Filename(in.Video.Filename))
	thumbKey := path.Join("exercises", "thumbnails", sanitize.Filename(in.Thumbnail.Filename))

	err := s.saveHeader(ctx, videoKey, in.Video)
	if err != nil {
		return nil, err
	}

	err = s.saveHeader(ctx, thumbKey, in.Thumbnail)
	if err != nil {
		s.cleanup(ctx, videoKey)
		return nil, err
	}

	exercise := &model.Exercise{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		MuscleGroup:  strings.TrimSpace(in.MuscleGroup),
		VideoURL:     s.storage.PublicURL(videoKey),
		ThumbnailURL: s.storage.PublicURL(thumbKey),
		StorageKey:   videoKey,
		ThumbnailKey: thumbKey,
		CreatedAt:    time.Now(),
	}

	err = s.exerciseRepo.Create(exercise)
	if err != nil {
		s.cleanup(ctx, videoKey, thumbKey)
		return nil, fmt.Errorf("failed to create exercise record: %w", err)
	}

	return exercise, nil
}

func (s *ExerciseService) saveHeader(ctx context.Context, key string, header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = sniffHeaderType(file)
	}

	err = s.storage.Save(ctx, key, file, header.Size, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return ErrDuplicateExercise
		}
		return err
	}

	return nil
}

func sniffHeaderType(file multipart.File) string {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "application/octet-stream"
	}
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}
	return http.DetectContentType(buffer[:n])
}

func (s *ExerciseService) cleanup(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			slog.Error("failed to delete blob during cleanup", "error", err, "key", key)
		}
	}
}

// All lists the exercise library alphabetically.
func (s *ExerciseService) All() ([]*model.Exercise, error) {
	return s.exerciseRepo.All()
}

// ByID returns a single library entry.
func (s *ExerciseService) ByID(id string) (*model.Exercise, error) {
	return s.exerciseRepo.ByID(id)
}
