package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fitai/fitai/internal/model"
	"github.com/stretchr/testify/require"
)

func webhookRequest(body, secret string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/webhooks/analysis", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if secret != "" {
		r.Header.Set("X-Analysis-Secret", secret)
	}
	return r
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	env := newTestEnv(t)
	h := NewWebhookHandler(env.videoService, env.cfg)

	rec := httptest.NewRecorder()
	h.Analysis(rec, webhookRequest(`{"video_id":"v1","status":"analyzed","result":{}}`, "wrong"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Analysis(rec, webhookRequest(`{"video_id":"v1","status":"analyzed","result":{}}`, ""))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRecordsAnalyzed(t *testing.T) {
	env := newTestEnv(t)
	h := NewWebhookHandler(env.videoService, env.cfg)
	seedVideo(t, env, "v1", "u1")

	rec := httptest.NewRecorder()
	h.Analysis(rec, webhookRequest(`{"video_id":"v1","status":"analyzed","result":{"score":7,"reps":12}}`, "hook-secret"))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := env.videoRepo.ByID("v1")
	require.NoError(t, err)
	require.Equal(t, model.VideoStatusAnalyzed, stored.Status)
	require.NotNil(t, stored.AnalysisResult)
	require.JSONEq(t, `{"score":7,"reps":12}`, *stored.AnalysisResult)
}

func TestWebhookRecordsFailure(t *testing.T) {
	env := newTestEnv(t)
	h := NewWebhookHandler(env.videoService, env.cfg)
	seedVideo(t, env, "v1", "u1")

	rec := httptest.NewRecorder()
	h.Analysis(rec, webhookRequest(`{"video_id":"v1","status":"failed","error":"no person detected"}`, "hook-secret"))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := env.videoRepo.ByID("v1")
	require.NoError(t, err)
	require.Equal(t, model.VideoStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorContext)
	require.Equal(t, "no person detected", *stored.ErrorContext)
}

func TestWebhookFailureWithoutDetailStillHasContext(t *testing.T) {
	env := newTestEnv(t)
	h := NewWebhookHandler(env.videoService, env.cfg)
	seedVideo(t, env, "v1", "u1")

	rec := httptest.NewRecorder()
	h.Analysis(rec, webhookRequest(`{"video_id":"v1","status":"failed"}`, "hook-secret"))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := env.videoRepo.ByID("v1")
	require.NoError(t, err)
	require.NotNil(t, stored.ErrorContext)
	require.NotEmpty(t, *stored.ErrorContext)
}

func TestWebhookValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewWebhookHandler(env.videoService, env.cfg)
	seedVideo(t, env, "v1", "u1")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing video id", `{"status":"analyzed","result":{}}`, http.StatusBadRequest},
		{"unknown status", `{"video_id":"v1","status":"maybe"}`, http.StatusBadRequest},
		{"analyzed without result", `{"video_id":"v1","status":"analyzed"}`, http.StatusBadRequest},
		{"not json", `hello`, http.StatusBadRequest},
		{"unknown video", `{"video_id":"ghost","status":"failed","error":"x"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Analysis(rec, webhookRequest(tt.body, "hook-secret"))
			require.Equal(t, tt.status, rec.Code)
		})
	}
}
