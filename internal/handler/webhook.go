package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/service"
)

// WebhookHandler receives analysis results from the AI service.
type WebhookHandler struct {
	videoService *service.VideoService
	secret       []byte
}

func NewWebhookHandler(videoService *service.VideoService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		videoService: videoService,
		secret:       []byte(cfg.AnalysisWebhookSecret),
	}
}

type analysisCallback struct {
	VideoID string          `json:"video_id"`
	Status  string          `json:"status"` // "analyzed" or "failed"
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Analysis handles POST /webhooks/analysis, authenticated by shared secret.
func (h *WebhookHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	provided := []byte(r.Header.Get("X-Analysis-Secret"))
	if subtle.ConstantTimeCompare(provided, h.secret) != 1 {
		respondError(w, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	var cb analysisCallback
	if err := decodeJSON(r, &cb); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if cb.VideoID == "" {
		respondError(w, http.StatusBadRequest, "video_id is required")
		return
	}

	var err error
	switch cb.Status {
	case "analyzed":
		if len(cb.Result) == 0 {
			respondError(w, http.StatusBadRequest, "result is required for analyzed status")
			return
		}
		err = h.videoService.ApplyAnalysis(cb.VideoID, string(cb.Result))
	case "failed":
		err = h.videoService.ApplyFailure(cb.VideoID, cb.Error)
	default:
		respondError(w, http.StatusBadRequest, "status must be analyzed or failed")
		return
	}

	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			respondError(w, http.StatusNotFound, "video not found")
			return
		}
		slog.Error("failed to apply analysis callback", "video_id", cb.VideoID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to record result")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
