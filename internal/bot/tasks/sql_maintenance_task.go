package tasks

import (
	"context"
	"fmt"
)

func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", SQLMaintenance)

	return func(ctx context.Context) error {
		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance failed", "error", err)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}
		return nil
	}
}
