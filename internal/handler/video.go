package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/ctxkeys"
	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/service"
)

type VideoHandler struct {
	videoService *service.VideoService
	maxBytes     int64
}

func NewVideoHandler(videoService *service.VideoService, cfg *config.Config) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		maxBytes:     cfg.UploadMaxBytes,
	}
}

// Upload handles POST /api/videos/upload. The form carries up to the
// configured number of files under "videos", plus "title" and "exercise".
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	videos, err := h.videoService.Upload(r.Context(), service.UploadInput{
		OwnerID:      ctxkeys.UserID(r.Context()),
		BearerToken:  ctxkeys.BearerToken(r.Context()),
		Title:        r.FormValue("title"),
		ExerciseType: r.FormValue("exercise"),
		Files:        r.MultipartForm.File["videos"],
	})
	if err != nil {
		status := http.StatusInternalServerError
		message := err.Error()
		switch {
		case errors.Is(err, service.ErrDuplicateUpload):
			status = http.StatusConflict
		case errors.Is(err, service.ErrInvalidUpload),
			errors.Is(err, service.ErrNoFiles),
			errors.Is(err, service.ErrTooManyFiles):
			status = http.StatusBadRequest
		}

		// Storage and database failures carry backend internals; log them and
		// keep the response generic
		if status == http.StatusInternalServerError {
			slog.Error("upload failed", "user_id", ctxkeys.UserID(r.Context()), "error", err)
			message = "upload failed, please try again later"
		}

		// The batch aborts on first failure; report what did succeed so the
		// client is not left guessing
		respondJSON(w, status, map[string]any{
			"success":  false,
			"error":    message,
			"uploaded": uploadedViews(videos),
		})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "uploaded": uploadedViews(videos)})
}

func uploadedViews(videos []*model.Video) []*model.Video {
	if videos == nil {
		return []*model.Video{}
	}
	return videos
}

// List handles GET /api/videos: the caller's gallery, newest first.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videoService.VideosByOwner(ctxkeys.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load videos")
		return
	}
	if videos == nil {
		videos = []*model.Video{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

// statusResponse keeps the analysis payload as raw JSON so clients get the
// object the analysis service produced, not a re-encoded string.
type statusResponse struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	AnalysisResult json.RawMessage `json:"analysisResult,omitempty"`
	ErrorContext   string          `json:"errorContext,omitempty"`
}

// Status handles GET /api/videos/{id}/status for gallery polling.
func (h *VideoHandler) Status(w http.ResponseWriter, r *http.Request) {
	video, err := h.videoService.VideoForOwner(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondVideoError(w, err)
		return
	}

	resp := statusResponse{ID: video.ID, Status: video.Status}
	if video.AnalysisResult != nil {
		resp.AnalysisResult = json.RawMessage(*video.AnalysisResult)
	}
	if video.ErrorContext != nil {
		resp.ErrorContext = *video.ErrorContext
	}

	respondJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /api/videos/{id}.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.videoService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondVideoError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func respondVideoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrVideoNotFound):
		respondError(w, http.StatusNotFound, "video not found")
	case errors.Is(err, service.ErrNotVideoOwner):
		respondError(w, http.StatusForbidden, "not the video owner")
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
