package social

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxLength is the X post limit in characters.
	DefaultMaxLength = 280

	ellipsis = "..."
)

// Reason strings returned to the user.
const (
	ReasonEmptyContent = "content cannot be empty"
	ReasonMissingID    = "failed to obtain post identifier"
)

// Publisher creates one post and returns its identifier.
type Publisher interface {
	Publish(ctx context.Context, text string) (string, error)
}

// Identity names the chat user on whose behalf a post is made. It is used
// for logging only and never added to the post.
type Identity struct {
	Platform string
	UserID   string
	UserName string
}

// Action validates and shortens post text, then hands it to a Publisher.
type Action struct {
	publisher Publisher
	maxLength int
	logger    *slog.Logger
}

// NewAction creates an Action. A maxLength below 4 falls back to
// DefaultMaxLength.
func NewAction(publisher Publisher, maxLength int, logger *slog.Logger) *Action {
	if maxLength < len(ellipsis)+1 {
		maxLength = DefaultMaxLength
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Action{
		publisher: publisher,
		maxLength: maxLength,
		logger:    logger.With("component", "post_action"),
	}
}

// Post publishes text exactly once. It never returns an error: every
// failure is reported through the Result.
func (a *Action) Post(ctx context.Context, text string, who Identity) Result {
	if strings.TrimSpace(text) == "" {
		return Failed(ReasonEmptyContent)
	}

	text = Shorten(text, a.maxLength)

	id, err := a.publisher.Publish(ctx, text)
	if err != nil {
		a.logger.WarnContext(ctx, "Post failed",
			"platform", who.Platform,
			"user_id", who.UserID,
			"error", err)
		return Failed(err.Error())
	}
	if id == "" {
		return Failed(ReasonMissingID)
	}

	a.logger.InfoContext(ctx, "Post published",
		"platform", who.Platform,
		"user_id", who.UserID,
		"user_name", who.UserName,
		"post_id", id,
		"length", utf8.RuneCountInString(text))
	return Succeeded(id)
}

// Shorten cuts text longer than limit characters to limit-3 characters
// followed by "...". Characters are counted as Unicode code points.
func Shorten(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}
