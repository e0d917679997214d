package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
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

var (
	ErrNotVideoOwner   = errors.New("video belongs to another user")
	ErrDuplicateUpload = errors.New("a blob already exists at this key")
	ErrInvalidUpload   = errors.New("invalid upload")
	ErrNoFiles         = errors.New("no files in upload")
	ErrTooManyFiles    = errors.New("too many files in upload")
)

// notifyTimeout bounds the background analysis hand-off, which outlives the
// upload request.
const notifyTimeout = 45 * time.Second

type VideoService struct {
	videoRepo repository.VideoRepository
	storage   storage.Storage
	notifier  AnalysisNotifier
	maxFiles  int
	tempDir   string // "" means os.TempDir
}

func NewVideoService(videoRepo repository.VideoRepository, storage storage.Storage, notifier AnalysisNotifier, maxFiles int) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		storage:   storage,
		notifier:  notifier,
		maxFiles:  maxFiles,
	}
}

// UploadInput carries one batch of exercise videos from a single user.
type UploadInput struct {
	OwnerID      string
	BearerToken  string
	Title        string
	ExerciseType string
	Files        []*multipart.FileHeader
}

// Upload stores each file, records it, and hands it to the analysis service.
// The batch aborts on the first failure; videos already uploaded are returned
// alongside the error so the caller can report partial success.
func (s *VideoService) Upload(ctx context.Context, in UploadInput) ([]*model.Video, error) {
	if len(in.Files) == 0 {
		return nil, ErrNoFiles
	}
	if len(in.Files) > s.maxFiles {
		return nil, fmt.Errorf("%w: maximum is %d", ErrTooManyFiles, s.maxFiles)
	}
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUpload, err)
	}
	if err := validation.ValidateExerciseType(in.ExerciseType); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUpload, err)
	}

	var videos []*model.Video
	for _, header := range in.Files {
		video, err := s.uploadOne(ctx, in, header)
		if err != nil {
			return videos, fmt.Errorf("upload of %q failed: %w", header.Filename, err)
		}
		videos = append(videos, video)
	}

	return videos, nil
}

func (s *VideoService) uploadOne(ctx context.Context, in UploadInput, header *multipart.FileHeader) (*model.Video, error) {
	if err := validation.ValidateFile(header, validation.VideoConstraints); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUpload, err)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	// Spool to a temp file so the blob store gets a sized, seekable body
	tmp, err := os.CreateTemp(s.tempDir, "fitai-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, src)
	if err != nil {
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	contentType, err := sniffContentType(tmp)
	if err != nil {
		return nil, err
	}

	// Millisecond prefix keeps keys unique per owner; the conditional put
	// below still refuses the rare same-millisecond collision
	name := sanitize.Filename(header.Filename)
	if name == "" {
		name = "video"
	}
	key := path.Join(in.OwnerID, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name))

	err = s.storage.Save(ctx, key, tmp, size, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return nil, ErrDuplicateUpload
		}
		return nil, err
	}

	video := &model.Video{
		ID:           uuid.New().String(),
		OwnerID:      in.OwnerID,
		StorageKey:   key,
		PublicURL:    s.storage.PublicURL(key),
		Title:        in.Title,
		ExerciseType: in.ExerciseType,
		Status:       model.VideoStatusUploaded,
		CreatedAt:    time.Now(),
	}

	err = s.videoRepo.Create(video)
	if err != nil {
		// If DB insert fails, try to cleanup the uploaded blob
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete blob during cleanup", "error", delErr, "key", key)
		}
		return nil, fmt.Errorf("failed to create video record: %w", err)
	}

	// Hand off to the analysis service without blocking the response
	go s.notifyAnalysis(video, in.BearerToken)

	return video, nil
}

// sniffContentType detects the MIME type from the spooled bytes and rewinds
// the file for the storage put.
func sniffContentType(f *os.File) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind temp file: %w", err)
	}

	buffer := make([]byte, 512)
	n, err := f.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read temp file: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind temp file: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	return contentType, nil
}

// notifyAnalysis runs in its own goroutine with its own deadline; the upload
// response has already been written by the time it runs. Dispatch failures
// are recorded on the video so the gallery can surface them.
func (s *VideoService) notifyAnalysis(video *model.Video, bearerToken string) {
	if bearerToken == "" {
		slog.Warn("analysis hand-off skipped: no session token", "video_id", video.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	err := s.notifier.Notify(ctx, video, bearerToken)
	if err != nil {
		slog.Error("analysis hand-off failed", "video_id", video.ID, "error", err)
		if dbErr := s.videoRepo.SetFailed(video.ID, "analysis dispatch failed: "+err.Error()); dbErr != nil {
			slog.Error("failed to mark video as failed", "video_id", video.ID, "error", dbErr)
		}
		return
	}

	if err := s.videoRepo.SetProcessing(video.ID); err != nil {
		slog.Error("failed to mark video as processing", "video_id", video.ID, "error", err)
	}
}

// ApplyAnalysis records a successful result from the analysis service.
func (s *VideoService) ApplyAnalysis(videoID, result string) error {
	return s.videoRepo.SetAnalyzed(videoID, result)
}

// ApplyFailure records a failed analysis. A failed video always carries an
// error context, even when the service did not provide one.
func (s *VideoService) ApplyFailure(videoID, errorContext string) error {
	if strings.TrimSpace(errorContext) == "" {
		errorContext = "analysis failed without detail"
	}
	return s.videoRepo.SetFailed(videoID, errorContext)
}

// VideoForOwner fetches a video and verifies it belongs to the caller.
func (s *VideoService) VideoForOwner(userID, videoID string) (*model.Video, error) {
	video, err := s.videoRepo.ByID(videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != userID {
		return nil, ErrNotVideoOwner
	}
	return video, nil
}

// VideosByOwner lists the caller's gallery, newest first.
func (s *VideoService) VideosByOwner(ownerID string) ([]*model.Video, error) {
	return s.videoRepo.ByOwner(ownerID)
}

// CountByOwner reports how many videos a user has uploaded.
func (s *VideoService) CountByOwner(ownerID string) (int, error) {
	return s.videoRepo.CountByOwner(ownerID)
}

// Delete removes the caller's video from storage and the database. Favorites
// referencing it go with it via the FK cascade. The blob delete is best
// effort; the record always uses the stored key, never a client-supplied one.
func (s *VideoService) Delete(ctx context.Context, userID, videoID string) error {
	video, err := s.VideoForOwner(userID, videoID)
	if err != nil {
		return err
	}

	delErr := s.storage.Delete(ctx, video.StorageKey)
	if delErr != nil {
		slog.Error("failed to delete blob from storage", "error", delErr, "key", video.StorageKey)
	}

	return s.videoRepo.Delete(videoID)
}
