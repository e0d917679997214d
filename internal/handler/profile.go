package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fitai/fitai/internal/ctxkeys"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Show handles GET /api/profile.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	overview, err := h.profileService.Overview(ctxkeys.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	err := h.profileService.UpdateName(ctxkeys.UserID(r.Context()), name)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
