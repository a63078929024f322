package bot

import (
	"context"

	"github.com/edgard/tweetrelay/internal/database"
	"github.com/edgard/tweetrelay/internal/router"
)

// LedgerRecorder writes every posting attempt to the post ledger.
type LedgerRecorder struct {
	Store database.Store
}

// RecordPost implements router.Recorder.
func (r LedgerRecorder) RecordPost(ctx context.Context, rec router.PostRecord) error {
	return r.Store.SavePostAttempt(ctx, &database.PostAttempt{
		CreatedAt:     rec.CreatedAt,
		Platform:      rec.Platform,
		ChannelID:     rec.ChannelID,
		MessageID:     rec.MessageID,
		UserID:        rec.UserID,
		UserName:      rec.UserName,
		Intent:        rec.Intent.String(),
		Success:       rec.Result.Success,
		PostID:        rec.Result.ID,
		Reason:        rec.Result.Reason,
		ContentLength: rec.ContentLength,
	})
}
