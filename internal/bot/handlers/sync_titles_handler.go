package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSyncTitlesHandler returns the admin-only /sync_titles handler, which
// pushes rating badges into admin custom titles across all known chats.
func NewSyncTitlesHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "sync_titles")

		if update.Message == nil {
			return
		}
		chatID := update.Message.Chat.ID

		sendText(ctx, b, log, chatID, deps.Config.Messages.TitleSyncStart)

		stats, err := deps.Syncer.SyncAll(ctx, b)
		if err != nil {
			log.ErrorContext(ctx, "Title sync failed", "error", err)
			sendText(ctx, b, log, chatID, deps.Config.Messages.GeneralError)
			return
		}

		sendText(ctx, b, log, chatID,
			fmt.Sprintf(deps.Config.Messages.TitleSyncDone, stats.Updated, stats.Skipped, stats.Failed))
	}
}
