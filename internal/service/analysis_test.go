package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/model"
	"github.com/stretchr/testify/require"
)

func newAnalysisClient(baseURL string) *AnalysisClient {
	return NewAnalysisClient(&config.Config{
		AnalysisURL:     baseURL,
		AnalysisTimeout: 5 * time.Second,
	})
}

func TestAnalysisNotify(t *testing.T) {
	var got struct {
		VideoID    string `json:"video_id"`
		VideoRoute string `json:"video_route"`
		Exercise   string `json:"exercise"`
	}
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/analyze/", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := newAnalysisClient(srv.URL)
	err := client.Notify(context.Background(), &model.Video{
		ID:           "vid-1",
		PublicURL:    "https://blobs.test/u1/squat.mp4",
		ExerciseType: "squat",
	}, "session-token")
	require.NoError(t, err)

	require.Equal(t, "vid-1", got.VideoID)
	require.Equal(t, "https://blobs.test/u1/squat.mp4", got.VideoRoute)
	require.Equal(t, "squat", got.Exercise)
	require.Equal(t, "Bearer session-token", gotAuth)
}

func TestAnalysisNotifyOmitsEmptyAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newAnalysisClient(srv.URL).Notify(context.Background(), &model.Video{ID: "v"}, "")
	require.NoError(t, err)
}

func TestAnalysisNotifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newAnalysisClient(srv.URL).Notify(context.Background(), &model.Video{ID: "v"}, "tok")
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
	require.Contains(t, err.Error(), "model overloaded")
}

func TestAnalysisNotifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before calling

	err := newAnalysisClient(srv.URL).Notify(context.Background(), &model.Video{ID: "v"}, "tok")
	require.Error(t, err)
}
