package social

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/tweetrelay/internal/logger"
)

type fakePublisher struct {
	mu    sync.Mutex
	calls []string
	id    string
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	return f.id, f.err
}

func TestActionPost(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 300)

	tests := []struct {
		name      string
		text      string
		publisher *fakePublisher
		want      Result
		wantSent  []string
	}{
		{
			name:      "success",
			text:      "hello world",
			publisher: &fakePublisher{id: "123"},
			want:      Result{Success: true, ID: "123"},
			wantSent:  []string{"hello world"},
		},
		{
			name:      "whitespace only",
			text:      "   \n\t ",
			publisher: &fakePublisher{id: "123"},
			want:      Result{Reason: ReasonEmptyContent},
		},
		{
			name:      "empty",
			text:      "",
			publisher: &fakePublisher{id: "123"},
			want:      Result{Reason: ReasonEmptyContent},
		},
		{
			name:      "surrounding whitespace is kept",
			text:      "  padded  ",
			publisher: &fakePublisher{id: "9"},
			want:      Result{Success: true, ID: "9"},
			wantSent:  []string{"  padded  "},
		},
		{
			name:      "too long is shortened",
			text:      long,
			publisher: &fakePublisher{id: "1"},
			want:      Result{Success: true, ID: "1"},
			wantSent:  []string{strings.Repeat("a", 277) + "..."},
		},
		{
			name:      "trailing whitespace counts toward the limit",
			text:      strings.Repeat("b", 279) + "  ",
			publisher: &fakePublisher{id: "2"},
			want:      Result{Success: true, ID: "2"},
			wantSent:  []string{strings.Repeat("b", 277) + "..."},
		},
		{
			name:      "publisher error",
			text:      "hi",
			publisher: &fakePublisher{err: errors.New("rate limited")},
			want:      Result{Reason: "rate limited"},
			wantSent:  []string{"hi"},
		},
		{
			name:      "missing id",
			text:      "hi",
			publisher: &fakePublisher{},
			want:      Result{Reason: ReasonMissingID},
			wantSent:  []string{"hi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			action := NewAction(tt.publisher, DefaultMaxLength, logger.Discard())
			got := action.Post(context.Background(), tt.text, Identity{Platform: "test", UserID: "u1"})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSent, tt.publisher.calls)
		})
	}
}

func TestActionPostKeepsPrefix(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("\n  ")
	for i := 0; b.Len() < 400; i++ {
		b.WriteString(string(rune('a' + i%26)))
		if i%7 == 0 {
			b.WriteString(" ")
		}
	}
	src := []rune(b.String())

	pub := &fakePublisher{id: "5"}
	got := NewAction(pub, DefaultMaxLength, logger.Discard()).Post(context.Background(), string(src), Identity{})

	require.True(t, got.Success)
	require.Len(t, pub.calls, 1)
	sent := []rune(pub.calls[0])
	require.Len(t, sent, DefaultMaxLength)
	assert.Equal(t, string(src[:277]), string(sent[:277]))
	assert.Equal(t, "...", string(sent[277:]))
}

func TestShorten(t *testing.T) {
	t.Parallel()

	got := Shorten(strings.Repeat("x", 300), 280)
	assert.Equal(t, 280, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("x", 280)
	assert.Equal(t, exact, Shorten(exact, 280))

	emoji := strings.Repeat("é", 281)
	got = Shorten(emoji, 280)
	assert.Equal(t, 280, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestFailedNeverEmpty(t *testing.T) {
	t.Parallel()

	r := Failed("")
	assert.False(t, r.Success)
	assert.NotEmpty(t, r.Reason)
	assert.Empty(t, r.ID)
}

func TestPostURL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "https://x.com/i/web/status/42", PostURL("https://x.com/i/web/status/%s", "42"))
}

var testCreds = TwitterCredentials{
	APIKey:       "key",
	APISecret:    "secret",
	AccessToken:  "token",
	AccessSecret: "token-secret",
}

func TestTwitterPublisherPublish(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "OAuth "))

		var body createPostRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Text)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1445880548472328192","text":"hello"}}`))
	}))
	defer srv.Close()

	p := NewTwitterPublisher(testCreds, srv.URL, 5*time.Second, logger.Discard())
	id, err := p.Publish(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "1445880548472328192", id)
}

func TestTwitterPublisherAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"title":"Forbidden","detail":"You are not allowed to create a Tweet with duplicate content.","status":403}`))
	}))
	defer srv.Close()

	p := NewTwitterPublisher(testCreds, srv.URL, 5*time.Second, logger.Discard())
	_, err := p.Publish(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate content")
	assert.Contains(t, err.Error(), "403")
}

func TestTwitterPublisherMissingID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	p := NewTwitterPublisher(testCreds, srv.URL, 5*time.Second, logger.Discard())
	action := NewAction(p, DefaultMaxLength, logger.Discard())
	got := action.Post(context.Background(), "hello", Identity{})
	assert.Equal(t, Result{Reason: ReasonMissingID}, got)
}

func TestTwitterPublisherNotConfigured(t *testing.T) {
	t.Parallel()

	p := NewTwitterPublisher(TwitterCredentials{APIKey: "only-key"}, "https://api.twitter.com", time.Second, logger.Discard())
	_, err := p.Publish(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)

	action := NewAction(p, DefaultMaxLength, logger.Discard())
	got := action.Post(context.Background(), "hello", Identity{})
	assert.Equal(t, "twitter credentials are not configured", got.Reason)
}
