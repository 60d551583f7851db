package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avdeev/karmabot/internal/rating"
)

// NewPlusHandler returns a handler for the /plus command: +1 reputation to
// the author of the replied-to message.
func NewPlusHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "plus")

		if update.Message == nil || update.Message.From == nil {
			return
		}
		chatID := update.Message.Chat.ID

		reply := update.Message.ReplyToMessage
		if reply == nil || reply.From == nil {
			sendText(ctx, b, log, chatID, deps.Config.Messages.PlusUsage)
			return
		}

		announceVote(ctx, b, deps, chatID, update.Message.From, reply.From)
	}
}

// announceVote runs a vote through the rating service and reports the
// outcome to the chat. Shared by /plus and praise replies.
func announceVote(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, from, to *models.User) {
	log := deps.Logger.With("handler", "plus")

	result, err := deps.Service.VotePlusOne(ctx, chatID, userRef(from), userRef(to))
	if err != nil {
		log.ErrorContext(ctx, "Vote failed",
			"chat_id", chatID, "from_user_id", from.ID, "to_user_id", to.ID, "error", err)
		sendText(ctx, b, log, chatID, deps.Config.Messages.GeneralError)
		return
	}

	switch result.Status {
	case rating.VoteRejectedSelf:
		sendText(ctx, b, log, chatID, deps.Config.Messages.SelfVote)

	case rating.VoteRejectedCooldown:
		sendText(ctx, b, log, chatID,
			fmt.Sprintf(deps.Config.Messages.VoteCooldown, formatDuration(result.RetryAfter)))

	case rating.VoteAccepted:
		profile, err := deps.Service.Profile(ctx, userRef(to))
		if err != nil {
			log.ErrorContext(ctx, "Failed to build profile after vote", "user_id", to.ID, "error", err)
			return
		}
		sendText(ctx, b, log, chatID,
			fmt.Sprintf(deps.Config.Messages.VoteAccepted,
				profile.DisplayName, result.NewRating, profile.Badge.Label()))
	}
}
