package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store is the post ledger.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SavePostAttempt inserts one attempt and sets its ID.
	SavePostAttempt(ctx context.Context, attempt *PostAttempt) error

	// RecentPostAttempts returns up to limit attempts, newest first.
	RecentPostAttempts(ctx context.Context, limit int) ([]PostAttempt, error)

	// DeletePostAttemptsBefore removes attempts older than cutoff and
	// returns how many were removed.
	DeletePostAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance runs VACUUM and ANALYZE.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (s *sqlxStore) SavePostAttempt(ctx context.Context, attempt *PostAttempt) error {
	if attempt == nil {
		return fmt.Errorf("cannot save nil post attempt")
	}
	if attempt.Platform == "" || attempt.UserID == "" {
		return fmt.Errorf("post attempt must have a platform and user_id")
	}
	if attempt.Success == (attempt.PostID == "") {
		return fmt.Errorf("post attempt must have a post_id if and only if it succeeded")
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO post_attempts (
			created_at, platform, channel_id, message_id, user_id, user_name,
			intent, success, post_id, reason, content_length
		) VALUES (
			:created_at, :platform, :channel_id, :message_id, :user_id, :user_name,
			:intent, :success, :post_id, :reason, :content_length
		)`

	res, err := s.db.NamedExecContext(ctx, query, attempt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert post attempt", "user_id", attempt.UserID, "error", err)
		return fmt.Errorf("failed to insert post attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get post attempt id: %w", err)
	}
	attempt.ID = id

	s.logger.DebugContext(ctx, "Post attempt saved", "id", id, "success", attempt.Success)
	return nil
}

func (s *sqlxStore) RecentPostAttempts(ctx context.Context, limit int) ([]PostAttempt, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	const query = `
		SELECT id, created_at, platform, channel_id, message_id, user_id, user_name,
		       intent, success, post_id, reason, content_length
		FROM post_attempts
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	var attempts []PostAttempt
	if err := s.db.SelectContext(ctx, &attempts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query post attempts: %w", err)
	}
	return attempts, nil
}

func (s *sqlxStore) DeletePostAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM post_attempts WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete post attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted post attempts: %w", err)
	}
	return n, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	startTime := time.Now()
	// VACUUM cannot run inside a transaction.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "VACUUM failed", "error", err)
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		s.logger.ErrorContext(ctx, "ANALYZE failed", "error", err)
		return fmt.Errorf("failed to analyze database: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(startTime))
	return nil
}
