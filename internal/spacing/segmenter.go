package spacing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SegmenterStrategy calls an external word segmentation service over HTTP.
// It is the first cascade tier: most accurate, least available.
type SegmenterStrategy struct {
	url    string
	client *http.Client
}

var _ Strategy = (*SegmenterStrategy)(nil)

// segmenterTimeout bounds one segmentation call. Restoration runs inside
// ingestion, so a slow service must not stall indexing.
const segmenterTimeout = 3 * time.Second

type segmentRequest struct {
	Text string `json:"text"`
}

type segmentResponse struct {
	Text string `json:"text"`
}

// NewSegmenterStrategy creates a strategy calling the service at url.
// The service accepts POST /segment with {"text": ...} and returns the
// segmented text in the same shape.
func NewSegmenterStrategy(url string) *SegmenterStrategy {
	return &SegmenterStrategy{
		url: url,
		client: &http.Client{
			Timeout: segmenterTimeout,
		},
	}
}

// Name identifies the strategy.
func (s *SegmenterStrategy) Name() string { return "segmenter" }

// Available probes the service health endpoint.
func (s *SegmenterStrategy) Available(ctx context.Context) bool {
	if s.url == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Restore sends text to the service and returns its segmentation.
func (s *SegmenterStrategy) Restore(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(segmentRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/segment", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call segmenter: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("segmenter returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result segmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("segmenter returned empty text")
	}
	return collapseSpaces(result.Text), nil
}
