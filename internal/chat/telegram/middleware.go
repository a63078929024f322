package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/tweetrelay/internal/logger"
)

// LoggingMiddleware logs the start and end of every update.
func LoggingMiddleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			logEntry := updateLogger(log, update)

			logEntry.DebugContext(ctx, "Processing update")
			next(ctx, b, update)
			logEntry.DebugContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func updateLogger(log *slog.Logger, update *models.Update) *slog.Logger {
	logEntry := log.With("update_id", update.ID)

	if m := update.Message; m != nil {
		logEntry = logEntry.With(
			"update_type", "message",
			"message_id", m.ID,
			"chat_id", m.Chat.ID,
			"text_preview", logger.Truncate(messageText(m), 50),
		)
		if m.From != nil {
			logEntry = logEntry.With("user_id", m.From.ID)
		}
		return logEntry
	}
	return logEntry.With("update_type", "other")
}
