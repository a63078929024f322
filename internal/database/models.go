package database

import "time"

// PostAttempt is one row of the post ledger. The post text itself is never
// stored, only its length.
type PostAttempt struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	Platform      string `db:"platform"`
	ChannelID     string `db:"channel_id"`
	MessageID     string `db:"message_id"`
	UserID        string `db:"user_id"`
	UserName      string `db:"user_name"`
	Intent        string `db:"intent"`
	Success       bool   `db:"success"`
	PostID        string `db:"post_id"`
	Reason        string `db:"reason"`
	ContentLength int    `db:"content_length"`
}
