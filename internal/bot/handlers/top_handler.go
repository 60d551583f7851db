package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTopHandler returns a handler for /top (and /leaderboard) showing the
// rating leaderboard.
func NewTopHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "top")

		if update.Message == nil {
			return
		}
		chatID := update.Message.Chat.ID

		top, err := deps.Service.Top(ctx, deps.Config.Rating.TopLimit)
		if err != nil {
			log.ErrorContext(ctx, "Failed to build leaderboard", "error", err)
			sendText(ctx, b, log, chatID, deps.Config.Messages.GeneralError)
			return
		}

		if len(top) == 0 {
			sendText(ctx, b, log, chatID, deps.Config.Messages.TopEmpty)
			return
		}

		lines := []string{deps.Config.Messages.TopHeader}
		for i, p := range top {
			lines = append(lines, fmt.Sprintf("%d. %s — %d (%s)", i+1, p.DisplayName, p.Rating, p.Badge.Label()))
		}

		sendText(ctx, b, log, chatID, strings.Join(lines, "\n"))
	}
}
