package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/tweetrelay/internal/agent"
	"github.com/edgard/tweetrelay/internal/logger"
)

type fakeAgent struct {
	got   agent.Request
	reply agent.Reply
	err   error
}

func (f *fakeAgent) Send(_ context.Context, req agent.Request) (agent.Reply, error) {
	f.got = req
	return f.reply, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		agent      *fakeAgent
		wantStatus int
		wantText   string
	}{
		{
			name:       "agent reply",
			agent:      &fakeAgent{reply: agent.Reply{Text: "hello back"}},
			wantStatus: http.StatusOK,
			wantText:   "hello back",
		},
		{
			name:       "no usable text",
			agent:      &fakeAgent{err: fmt.Errorf("failed to read agent response: %w", agent.ErrNoUsableText)},
			wantStatus: http.StatusOK,
			wantText:   "No response",
		},
		{
			name:       "transport failure",
			agent:      &fakeAgent{err: errors.New("agent responded with status: 500")},
			wantStatus: http.StatusInternalServerError,
			wantText:   "Failed to process message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New(Config{}, tt.agent, nil, logger.Discard())

			rec := do(t, s, http.MethodPost, "/api/message", `{"input":"hi","userId":"u9","userName":"Zed"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got []ChatMessage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, []ChatMessage{{Text: tt.wantText, Sender: "bot"}}, got)
			assert.Equal(t, agent.Request{Text: "hi", UserID: "u9", UserName: "Zed"}, tt.agent.got)
		})
	}
}

func TestMessageDefaultsIdentity(t *testing.T) {
	t.Parallel()

	a := &fakeAgent{reply: agent.Reply{Text: "ok"}}
	s := New(Config{}, a, nil, logger.Discard())

	rec := do(t, s, http.MethodPost, "/api/message", `{"input":"hi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, agent.Request{Text: "hi", UserID: "user", UserName: "User"}, a.got)
}

func TestChatProxy(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ping", body.Message)
		_, _ = w.Write([]byte(`{"response":"pong"}`))
	}))
	defer backend.Close()

	s := New(Config{ChatBackendURL: backend.URL, ProxyTimeout: 5 * time.Second}, &fakeAgent{}, nil, logger.Discard())
	rec := do(t, s, http.MethodPost, "/api/chat", `{"message":"ping"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"pong"}`, rec.Body.String())
}

func TestChatProxyFailure(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer backend.Close()

	for _, url := range []string{backend.URL, ""} {
		s := New(Config{ChatBackendURL: url, ProxyTimeout: 5 * time.Second}, &fakeAgent{}, nil, logger.Discard())
		rec := do(t, s, http.MethodPost, "/api/chat", `{"message":"ping"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Error communicating with backend"}`, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ok := New(Config{}, &fakeAgent{}, fakePinger{}, logger.Discard())
	rec := do(t, ok, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	down := New(Config{}, &fakeAgent{}, fakePinger{err: errors.New("closed")}, logger.Discard())
	rec = do(t, down, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	s := New(Config{Addr: "127.0.0.1:0"}, &fakeAgent{}, nil, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMessageUsesAgentFieldPriority(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": "from message", "text": "from text"}`))
	}))
	defer backend.Close()

	client := agent.NewHTTPClient(backend.URL, "agent-1", 5*time.Second, logger.Discard())
	s := New(Config{}, client, nil, logger.Discard())
	rec := do(t, s, http.MethodPost, "/api/message", `{"input":"hi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []ChatMessage{{Text: "from text", Sender: "bot"}}, got)
}
