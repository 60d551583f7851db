package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewProfileHandler returns a handler for /profile (and its /rank and
// /rating aliases) showing the caller's rating, badge, and efficiency.
func NewProfileHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "profile")

		if update.Message == nil || update.Message.From == nil {
			return
		}
		chatID := update.Message.Chat.ID

		profile, err := deps.Service.Profile(ctx, userRef(update.Message.From))
		if err != nil {
			log.ErrorContext(ctx, "Failed to build profile",
				"user_id", update.Message.From.ID, "error", err)
			sendText(ctx, b, log, chatID, deps.Config.Messages.GeneralError)
			return
		}

		lines := []string{
			fmt.Sprintf("Профиль: %s", profile.DisplayName),
			fmt.Sprintf("Рейтинг: %d", profile.Rating),
			fmt.Sprintf("Лычка: %s", profile.Badge.Label()),
			fmt.Sprintf("КПД: %d%%", profile.EfficiencyPercent),
		}
		if profile.NextBadgeHint != "" {
			lines = append(lines, profile.NextBadgeHint)
		}

		sendText(ctx, b, log, chatID, strings.Join(lines, "\n"))
	}
}

// sendText sends a plain-text reply and logs delivery failures.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}
