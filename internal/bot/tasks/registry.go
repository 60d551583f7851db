package tasks

import "context"

// ScheduledTaskFunc is the signature for all scheduled tasks. The context
// provided by the scheduler must be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the task registry. Keys match the task names used
// in the scheduler section of the configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	registry := map[string]ScheduledTaskFunc{
		"title_sync":      newTitleSyncTask(deps),
		"sql_maintenance": newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(registry))
	return registry
}
