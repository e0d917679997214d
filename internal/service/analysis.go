package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/model"
)

// AnalysisNotifier hands an uploaded video off to the movement-analysis
// service. Implementations must be safe for concurrent use.
type AnalysisNotifier interface {
	Notify(ctx context.Context, video *model.Video, bearerToken string) error
}

// AnalysisClient talks to the external AI analysis service over HTTP.
type AnalysisClient struct {
	baseURL string
	client  *http.Client
}

func NewAnalysisClient(cfg *config.Config) *AnalysisClient {
	return &AnalysisClient{
		baseURL: strings.TrimSuffix(cfg.AnalysisURL, "/"),
		client:  &http.Client{Timeout: cfg.AnalysisTimeout},
	}
}

// analyzeRequest is the contract the analysis service expects: it fetches the
// video itself from video_route and posts results back to our webhook.
type analyzeRequest struct {
	VideoID    string `json:"video_id"`
	VideoRoute string `json:"video_route"`
	Exercise   string `json:"exercise"`
}

// Notify submits the video for analysis. The caller's bearer token is
// forwarded so the analysis service can attribute the request.
func (c *AnalysisClient) Notify(ctx context.Context, video *model.Video, bearerToken string) error {
	body, err := json.Marshal(analyzeRequest{
		VideoID:    video.ID,
		VideoRoute: video.PublicURL,
		Exercise:   video.ExerciseType,
	})
	if err != nil {
		return fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analysis service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Keep a short excerpt of the body for the error context
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	return nil
}

var _ AnalysisNotifier = (*AnalysisClient)(nil)
