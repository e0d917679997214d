package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fitai/fitai/internal/ctxkeys"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/service"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Toggle handles POST /api/favorites/toggle.
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VideoID string `json:"videoId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.VideoID) == "" {
		respondError(w, http.StatusBadRequest, "videoId is required")
		return
	}

	result, err := h.favoriteService.Toggle(ctxkeys.UserID(r.Context()), req.VideoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			respondError(w, http.StatusNotFound, "video not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to toggle favorite")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    result.Status,
		"favorited": result.Favorited,
	})
}

// List handles GET /api/favorites: the caller's favorited video ids.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.favoriteService.VideoIDs(ctxkeys.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load favorites")
		return
	}
	if ids == nil {
		ids = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"videoIds": ids})
}
