// Package sentiment is the client for the sentiment scoring service.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Scorer maps text to a polarity in [-1, 1]. The pipeline depends on this
// interface so tests can substitute a fixed scorer.
type Scorer interface {
	Score(ctx context.Context, text string) float64
}

// Client scores text against a remote sentiment service. On any failure
// (transport error, bad status, undecodable body, empty text) it returns
// 0.0 and logs the reason. Sentiment is a best-effort signal and must
// never fail an audit batch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Polarity float64 `json:"polarity"`
}

// NewClient creates a sentiment client.
func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Score returns the polarity of text, or 0.0 on any failure.
func (c *Client) Score(ctx context.Context, text string) float64 {
	if text == "" {
		return 0.0
	}

	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode sentiment request, defaulting to 0.0")
		return 0.0
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/sentiment", bytes.NewReader(body))
	if err != nil {
		c.logger.WithError(err).Warn("Failed to build sentiment request, defaulting to 0.0")
		return 0.0
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("Sentiment service unreachable, defaulting to 0.0")
		return 0.0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Warn("Sentiment service returned non-200, defaulting to 0.0")
		return 0.0
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.WithError(err).Warn("Failed to decode sentiment response, defaulting to 0.0")
		return 0.0
	}

	if result.Polarity < -1 || result.Polarity > 1 {
		c.logger.WithField("polarity", fmt.Sprintf("%.3f", result.Polarity)).
			Warn("Sentiment service returned out-of-range polarity, defaulting to 0.0")
		return 0.0
	}
	return result.Polarity
}
