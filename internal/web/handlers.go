package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edgard/tweetrelay/internal/agent"
)

const (
	maxProxyResponse = 1 << 20

	noResponseText     = "No response"
	failedMessageText  = "Failed to process message"
	chatBackendFailure = "Error communicating with backend"
	senderBot          = "bot"
)

// MessageRequest is the body of POST /api/message.
type MessageRequest struct {
	Input    string `json:"input"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// ChatMessage is one element of the /api/message response.
type ChatMessage struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// Message forwards input to the agent and answers with one bot message.
// POST /api/message
func (s *Server) Message(c echo.Context) error {
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.UserID == "" {
		req.UserID = "user"
	}
	if req.UserName == "" {
		req.UserName = "User"
	}

	ctx, cancel := s.withTimeout(c.Request().Context(), s.cfg.AgentTimeout)
	defer cancel()

	text := noResponseText
	reply, err := s.agent.Send(ctx, agent.Request{Text: req.Input, UserID: req.UserID, UserName: req.UserName})
	switch {
	case err == nil:
		text = reply.Text
	case errors.Is(err, agent.ErrNoUsableText), errors.Is(err, agent.ErrEmptySequence):
		s.logger.WarnContext(ctx, "Agent returned no usable text", "error", err)
	default:
		s.logger.ErrorContext(ctx, "Agent request failed", "error", err)
		return c.JSON(http.StatusInternalServerError, []ChatMessage{{Text: failedMessageText, Sender: senderBot}})
	}

	return c.JSON(http.StatusOK, []ChatMessage{{Text: text, Sender: senderBot}})
}

// Chat relays a message to the chat backend and returns its JSON answer.
// POST /api/chat
func (s *Server) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	body, err := s.proxyChat(c.Request().Context(), req)
	if err != nil {
		s.logger.ErrorContext(c.Request().Context(), "Chat backend request failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": chatBackendFailure})
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (s *Server) proxyChat(ctx context.Context, req ChatRequest) (json.RawMessage, error) {
	if s.cfg.ChatBackendURL == "" {
		return nil, errors.New("chat backend is not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ChatBackendURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat backend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyResponse))
	if err != nil {
		return nil, fmt.Errorf("failed to read chat backend response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("chat backend returned invalid JSON (status %d)", resp.StatusCode)
	}
	return body, nil
}

// Health reports liveness and, when a store is set, its reachability.
// GET /health
func (s *Server) Health(c echo.Context) error {
	if s.store != nil {
		if err := s.store.Ping(c.Request().Context()); err != nil {
			s.logger.WarnContext(c.Request().Context(), "Health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
