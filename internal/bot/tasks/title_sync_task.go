package tasks

import (
	"context"
	"fmt"
	"time"
)

// newTitleSyncTask creates the task that pushes badge ranks into Telegram
// custom admin titles across all registered chats.
func newTitleSyncTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "title_sync")

	return func(ctx context.Context) error {
		start := time.Now()

		stats, err := deps.Syncer.SyncAll(ctx, deps.TgBot)
		if err != nil {
			log.ErrorContext(ctx, "Title sync failed", "error", err, "duration", time.Since(start))
			return fmt.Errorf("title sync failed: %w", err)
		}

		log.InfoContext(ctx, "Title sync completed",
			"updated", stats.Updated,
			"skipped", stats.Skipped,
			"failed", stats.Failed,
			"duration", time.Since(start))
		return nil
	}
}
