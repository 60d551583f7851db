package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avdeev/karmabot/internal/rating"
)

// NewMessageHandler returns the default handler for ordinary group messages.
// It turns praise replies into +1 votes and grants passive activity points to
// the sender. Everything here is best-effort: failures are logged and the
// update is never retried.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "message")

		msg := update.Message
		if msg == nil || msg.From == nil || msg.From.IsBot {
			return
		}
		if msg.Chat.Type != models.ChatTypeGroup && msg.Chat.Type != models.ChatTypeSupergroup {
			return
		}
		text := msg.Text
		if strings.HasPrefix(text, "/") {
			return
		}
		chatID := msg.Chat.ID

		if reply := msg.ReplyToMessage; reply != nil && reply.From != nil && !reply.From.IsBot {
			if rating.IsPraiseReplyText(text) {
				announceVote(ctx, b, deps, chatID, msg.From, reply.From)
			}
		}

		result, err := deps.Service.AwardActivity(ctx, chatID, userRef(msg.From))
		if err != nil {
			log.ErrorContext(ctx, "Activity award failed",
				"chat_id", chatID, "user_id", msg.From.ID, "error", err)
			return
		}
		if result.Status != rating.ActivityAwarded || !result.BadgeChanged {
			return
		}

		profile, err := deps.Service.Profile(ctx, userRef(msg.From))
		if err != nil {
			log.ErrorContext(ctx, "Failed to build profile after badge change",
				"user_id", msg.From.ID, "error", err)
			return
		}
		sendText(ctx, b, log, chatID,
			fmt.Sprintf(deps.Config.Messages.BadgeUp, profile.DisplayName, profile.Badge.Label()))
	}
}
