package tasks

import (
	"context"
	"fmt"
)

// newRetentionTask deletes ledger rows older than the retention period.
func newRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", PostLedgerRetention)

	return func(ctx context.Context) error {
		if deps.Retention <= 0 {
			log.WarnContext(ctx, "Retention is not set, skipping")
			return nil
		}

		cutoff := deps.now().Add(-deps.Retention)
		deleted, err := deps.Store.DeletePostAttemptsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("post ledger retention failed: %w", err)
		}

		log.InfoContext(ctx, "Old post attempts deleted", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
