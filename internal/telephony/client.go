// Package telephony is the client for the call provider's REST API. It
// lists calls and recordings and downloads recording media. Transient
// failures are retried with exponential backoff; a download that keeps
// failing surfaces as an error the pipeline converts into a status string.
package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client talks to the telephony provider.
type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	httpClient *http.Client
}

// Call is one call as reported by the provider.
type Call struct {
	SID             string    `json:"sid"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Direction       string    `json:"direction"`
	Status          string    `json:"status"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds int       `json:"duration"`
}

// Recording is one recording as reported by the provider.
type Recording struct {
	SID             string `json:"sid"`
	CallSID         string `json:"call_sid"`
	DurationSeconds int    `json:"duration"`
	Status          string `json:"status"`
	MediaURL        string `json:"media_url"`
}

type callListResponse struct {
	Calls []Call `json:"calls"`
}

type recordingListResponse struct {
	Recordings []Recording `json:"recordings"`
}

// NewClient creates a provider client authenticated with the account
// credentials.
func NewClient(baseURL, accountSID, authToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		accountSID: accountSID,
		authToken:  authToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListCalls returns inbound calls started inside [since, until], newest
// first, capped at limit.
func (c *Client) ListCalls(ctx context.Context, since, until time.Time, limit int) ([]Call, error) {
	q := url.Values{}
	q.Set("direction", "inbound")
	q.Set("start_time_after", since.Format(time.RFC3339))
	q.Set("start_time_before", until.Format(time.RFC3339))
	q.Set("limit", fmt.Sprintf("%d", limit))

	endpoint := fmt.Sprintf("%s/accounts/%s/calls?%s", c.baseURL, c.accountSID, q.Encode())

	var result callListResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	return result.Calls, nil
}

// ListRecordings returns the completed recordings for one call.
func (c *Client) ListRecordings(ctx context.Context, callSID string) ([]Recording, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/calls/%s/recordings", c.baseURL, c.accountSID, callSID)

	var result recordingListResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("failed to list recordings for call %s: %w", callSID, err)
	}

	completed := result.Recordings[:0]
	for _, r := range result.Recordings {
		if r.Status == "completed" {
			completed = append(completed, r)
		}
	}
	return completed, nil
}

// DownloadRecording fetches the audio bytes for one recording.
func (c *Client) DownloadRecording(ctx context.Context, rec Recording) ([]byte, error) {
	mediaURL := rec.MediaURL
	if mediaURL == "" {
		mediaURL = fmt.Sprintf("%s/accounts/%s/recordings/%s.mp3", c.baseURL, c.accountSID, rec.SID)
	}

	var audio []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", mediaURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.SetBasicAuth(c.accountSID, c.authToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(fmt.Errorf("provider returned status %d", resp.StatusCode))
			}
			return fmt.Errorf("provider returned status %d", resp.StatusCode)
		}

		audio, err = io.ReadAll(resp.Body)
		return err
	}

	if err := backoff.Retry(operation, c.retryPolicy(ctx)); err != nil {
		return nil, fmt.Errorf("failed to download recording %s: %w", rec.SID, err)
	}
	return audio, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.SetBasicAuth(c.accountSID, c.authToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body)))
			}
			return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
		}

		return json.NewDecoder(resp.Body).Decode(out)
	}

	return backoff.Retry(operation, c.retryPolicy(ctx))
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute
	return backoff.WithContext(policy, ctx)
}
