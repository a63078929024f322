package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxResponseSize = 1 << 20

// HTTPClient posts messages to `{baseURL}/{agentID}/message`.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	agentID    string
	logger     *slog.Logger
}

// NewHTTPClient creates an agent client. The timeout bounds every call.
func NewHTTPClient(baseURL, agentID string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		agentID:    agentID,
		logger:     logger.With("component", "agent_client"),
	}
}

// Endpoint returns the message URL of the configured agent.
func (c *HTTPClient) Endpoint() string {
	return c.baseURL + "/" + c.agentID + "/message"
}

// Send performs one POST and normalizes the response. Any non-2xx status is
// a failure regardless of the body.
func (c *HTTPClient) Send(ctx context.Context, req Request) (Reply, error) {
	body, err := c.do(ctx, req)
	if err != nil {
		return Reply{}, err
	}

	reply, err := Decode(body)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to read agent response: %w", err)
	}
	return reply, nil
}

func (c *HTTPClient) do(ctx context.Context, req Request) ([]byte, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "agent responded",
		"status", resp.StatusCode,
		"user_id", req.UserID,
		"duration", time.Since(startTime))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("agent responded with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read agent response body: %w", err)
	}
	return body, nil
}

func (c *HTTPClient) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}
