package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/service"
	"github.com/stretchr/testify/require"
)

func TestProfileShowHandler(t *testing.T) {
	env := newTestEnv(t)
	h := NewProfileHandler(service.NewProfileService(env.profileRepo, env.videoRepo))

	require.NoError(t, env.profileRepo.Create(&model.Profile{
		ID:        "u1",
		Email:     "a@b.test",
		Name:      "Alex",
		Role:      model.RoleMember,
		CreatedAt: time.Now().AddDate(0, -3, 0),
	}))
	seedVideo(t, env, "v1", "u1")
	seedVideo(t, env, "v2", "u1")

	rec := httptest.NewRecorder()
	h.Show(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/profile", nil), "u1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Profile      model.Profile `json:"profile"`
		VideoCount   int           `json:"videoCount"`
		MonthsActive int           `json:"monthsActive"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Alex", resp.Profile.Name)
	require.Equal(t, 2, resp.VideoCount)
	require.Equal(t, 3, resp.MonthsActive)

	rec = httptest.NewRecorder()
	h.Show(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/profile", nil), "stranger"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileUpdateHandler(t *testing.T) {
	env := newTestEnv(t)
	h := NewProfileHandler(service.NewProfileService(env.profileRepo, env.videoRepo))

	require.NoError(t, env.profileRepo.Create(&model.Profile{
		ID:        "u1",
		Email:     "a@b.test",
		Role:      model.RoleMember,
		CreatedAt: time.Now(),
	}))

	body := strings.NewReader(`{"name":"Alexis"}`)
	rec := httptest.NewRecorder()
	h.Update(rec, asUser(httptest.NewRequest(http.MethodPut, "/api/profile", body), "u1"))
	require.Equal(t, http.StatusOK, rec.Code)

	profile, err := env.profileRepo.ByID("u1")
	require.NoError(t, err)
	require.Equal(t, "Alexis", profile.Name)

	rec = httptest.NewRecorder()
	h.Update(rec, asUser(httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(`{"name":"  "}`)), "u1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
