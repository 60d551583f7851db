// Package handlers contains Telegram command and message handlers, their
// registration logic, and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that only lets the configured admin user
// through, replying with the not-authorized message otherwise.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if userID != deps.Config.Telegram.AdminUserID {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "admin_only")
				log.WarnContext(ctx, "Unauthorized command attempt", "user_id", userID, "chat_id", chatID)

				_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.NotAuthorized,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}

// ChatTracker creates a middleware that registers every group chat the bot
// sees, so the title sync task knows which chats to walk. Registration is
// best-effort; failures never block the update.
func ChatTracker(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message != nil {
				chat := update.Message.Chat
				if chat.Type == models.ChatTypeGroup || chat.Type == models.ChatTypeSupergroup {
					err := deps.Service.TouchChat(ctx, chat.ID, string(chat.Type), chat.Title, chat.Username)
					if err != nil {
						deps.Logger.WarnContext(ctx, "Failed to register chat", "chat_id", chat.ID, "error", err)
					}
				}
			}

			next(ctx, b, update)
		}
	}
}
