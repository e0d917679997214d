package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/service"
	"github.com/stretchr/testify/require"
)

func TestExerciseShowHandler(t *testing.T) {
	env := newTestEnv(t)
	repo := repository.NewExerciseRepository(env.db)
	h := NewExerciseHandler(service.NewExerciseService(repo, env.storage))

	require.NoError(t, repo.Create(&model.Exercise{
		ID:           "e1",
		Name:         "Back Squat",
		Description:  "Bar on the upper back, hips below parallel",
		MuscleGroup:  "legs",
		VideoURL:     "https://blobs.test/exercises/back_squat.mp4",
		ThumbnailURL: "https://blobs.test/exercises/thumbnails/back_squat.jpg",
		StorageKey:   "exercises/back_squat.mp4",
		ThumbnailKey: "exercises/thumbnails/back_squat.jpg",
		CreatedAt:    time.Now(),
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/exercises/{id}", h.Show)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/exercises/e1", nil), "u1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Exercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Back Squat", got.Name)
	require.Equal(t, "legs", got.MuscleGroup)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/exercises/ghost", nil), "u1"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
