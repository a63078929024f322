package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

const maxResponseSize = 1 << 20

// ErrNotConfigured is returned by the publisher when no credentials are set.
var ErrNotConfigured = errors.New("twitter credentials are not configured")

// TwitterCredentials holds OAuth 1.0a user-context keys.
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four keys are set.
func (c TwitterCredentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// TwitterPublisher posts through the X API v2 create-post endpoint.
type TwitterPublisher struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

type createPostRequest struct {
	Text string `json:"text"`
}

type createPostResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e apiError) message() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case len(e.Errors) > 0 && e.Errors[0].Message != "":
		return e.Errors[0].Message
	default:
		return e.Title
	}
}

// NewTwitterPublisher creates a publisher. With incomplete credentials the
// publisher still works but fails every attempt with ErrNotConfigured.
func NewTwitterPublisher(creds TwitterCredentials, baseURL string, timeout time.Duration, logger *slog.Logger) *TwitterPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "twitter")

	var httpClient *http.Client
	if creds.Complete() {
		config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
		httpClient = config.Client(context.Background(), oauth1.NewToken(creds.AccessToken, creds.AccessSecret))
		httpClient.Timeout = timeout
	} else {
		log.Warn("Twitter credentials are incomplete, posting is disabled")
	}

	return &TwitterPublisher{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     log,
	}
}

// Publish creates one post and returns its ID. It does not retry.
func (p *TwitterPublisher) Publish(ctx context.Context, text string) (string, error) {
	if p.httpClient == nil {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(createPostRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("twitter request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read twitter response: %w", err)
	}

	p.logger.DebugContext(ctx, "Twitter responded",
		"status", resp.StatusCode,
		"duration", time.Since(startTime))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.message() != "" {
			return "", fmt.Errorf("twitter API error (status %d): %s", resp.StatusCode, apiErr.message())
		}
		return "", fmt.Errorf("twitter API error (status %d)", resp.StatusCode)
	}

	var created createPostResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to decode twitter response: %w", err)
	}
	return created.Data.ID, nil
}
