// Package tasks holds the scheduled maintenance jobs of the relay.
package tasks

import (
	"log/slog"
	"time"

	"github.com/edgard/tweetrelay/internal/database"
)

// TaskDeps contains the dependencies of scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	// Retention is how long post ledger rows are kept.
	Retention time.Duration
	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

func (d TaskDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
