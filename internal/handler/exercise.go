package handler

import (
	"errors"
	"net/http"

	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/service"
)

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
}

func NewExerciseHandler(exerciseService *service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// List handles GET /api/exercises: the shared exercise library.
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.exerciseService.All()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load exercises")
		return
	}
	if exercises == nil {
		exercises = []*model.Exercise{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"exercises": exercises})
}

// Show handles GET /api/exercises/{id}.
func (h *ExerciseHandler) Show(w http.ResponseWriter, r *http.Request) {
	exercise, err := h.exerciseService.ByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrExerciseNotFound) {
			respondError(w, http.StatusNotFound, "exercise not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load exercise")
		return
	}

	respondJSON(w, http.StatusOK, exercise)
}

// Create handles POST /api/exercises (admin only). Multipart form with
// "video", "thumbnail", "name", "description" and "muscleGroup".
func (h *ExerciseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	in := service.CreateExerciseInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		MuscleGroup: r.FormValue("muscleGroup"),
	}
	if files := r.MultipartForm.File["video"]; len(files) > 0 {
		in.Video = files[0]
	}
	if files := r.MultipartForm.File["thumbnail"]; len(files) > 0 {
		in.Thumbnail = files[0]
	}

	exercise, err := h.exerciseService.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateExercise) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, exercise)
}
