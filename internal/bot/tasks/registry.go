package tasks

import "context"

// ScheduledTaskFunc is the signature of every scheduled task. Tasks should
// stop when ctx is cancelled.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the keys under scheduler.tasks in the config.
const (
	PostLedgerRetention = "post_ledger_retention"
	SQLMaintenance      = "sql_maintenance"
)

// RegisterAllTasks returns every task keyed by name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		PostLedgerRetention: newRetentionTask(deps),
		SQLMaintenance:      newSQLMaintenanceTask(deps),
	}
	deps.Logger.Debug("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
