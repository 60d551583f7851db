// Package titles reflects badge ranks into Telegram custom admin titles.
// The whole sync is best-effort: every failure is logged and counted, none
// abort the run.
package titles

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avdeev/karmabot/internal/rating"
)

// TitleRuneLimit is Telegram's cap on custom admin titles.
const TitleRuneLimit = 16

// Truncate normalizes whitespace and cuts the title to Telegram's limit,
// counting runes so multibyte names survive.
func Truncate(title string) string {
	normalized := strings.Join(strings.Fields(title), " ")
	runes := []rune(normalized)
	if len(runes) <= TitleRuneLimit {
		return normalized
	}
	return string(runes[:TitleRuneLimit])
}

// Stats summarizes one sync run.
type Stats struct {
	Updated int
	Skipped int
	Failed  int
}

// Syncer walks the registered chats and sets each editable admin's custom
// title to their current badge.
type Syncer struct {
	logger *slog.Logger
	svc    *rating.Service
}

// NewSyncer creates a title syncer over the rating service.
func NewSyncer(svc *rating.Service, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Syncer{
		logger: logger.With("component", "title_syncer"),
		svc:    svc,
	}
}

// SyncAll syncs every chat in the registry. Only storage errors (listing the
// chats) are returned; per-chat Telegram failures end up in Stats.
func (s *Syncer) SyncAll(ctx context.Context, b *bot.Bot) (Stats, error) {
	chatIDs, err := s.svc.ListChatIDs(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list chats for title sync: %w", err)
	}

	var stats Stats
	for _, chatID := range chatIDs {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		s.SyncChat(ctx, b, chatID, &stats)
	}

	s.logger.InfoContext(ctx, "Title sync finished",
		"chats", len(chatIDs), "updated", stats.Updated, "skipped", stats.Skipped, "failed", stats.Failed)
	return stats, nil
}

// SyncChat syncs the custom titles of a single chat. Skips chats that are
// not supergroups or where the bot lacks can_promote_members.
func (s *Syncer) SyncChat(ctx context.Context, b *bot.Bot, chatID int64, stats *Stats) {
	log := s.logger.With("chat_id", chatID)

	chat, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: chatID})
	if err != nil {
		log.WarnContext(ctx, "Cannot fetch chat", "error", err)
		stats.Failed++
		return
	}
	if chat.Type != models.ChatTypeSupergroup {
		log.DebugContext(ctx, "Skipping chat", "reason", "not a supergroup", "type", chat.Type)
		stats.Skipped++
		return
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		log.WarnContext(ctx, "Cannot fetch bot identity", "error", err)
		stats.Failed++
		return
	}

	myMember, err := b.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: chatID, UserID: me.ID})
	if err != nil {
		log.WarnContext(ctx, "Cannot fetch bot membership", "error", err)
		stats.Failed++
		return
	}
	switch myMember.Type {
	case models.ChatMemberTypeOwner:
		// Owners can always promote.
	case models.ChatMemberTypeAdministrator:
		if myMember.Administrator == nil || !myMember.Administrator.CanPromoteMembers {
			log.DebugContext(ctx, "Skipping chat", "reason", "bot has no can_promote_members")
			stats.Skipped++
			return
		}
	default:
		log.DebugContext(ctx, "Skipping chat", "reason", "bot is not admin")
		stats.Skipped++
		return
	}

	admins, err := b.GetChatAdministrators(ctx, &bot.GetChatAdministratorsParams{ChatID: chatID})
	if err != nil {
		log.WarnContext(ctx, "Cannot list chat administrators", "error", err)
		stats.Failed++
		return
	}

	for _, cm := range admins {
		if cm.Type != models.ChatMemberTypeAdministrator || cm.Administrator == nil {
			stats.Skipped++
			continue
		}
		admin := cm.Administrator
		if admin.User.IsBot {
			stats.Skipped++
			continue
		}
		if !admin.CanBeEdited {
			stats.Skipped++
			continue
		}

		profile, err := s.svc.Profile(ctx, rating.UserRef{
			ID:        admin.User.ID,
			Username:  admin.User.Username,
			FirstName: admin.User.FirstName,
			LastName:  admin.User.LastName,
			IsBot:     admin.User.IsBot,
		})
		if err != nil {
			log.WarnContext(ctx, "Cannot build profile for admin", "user_id", admin.User.ID, "error", err)
			stats.Failed++
			continue
		}

		if s.setTitle(ctx, b, chatID, admin.User.ID, profile.Badge) {
			stats.Updated++
		} else {
			stats.Failed++
		}
	}
}

// setTitle applies the badge as a custom title, falling back to the plain
// name when Telegram rejects the emoji variant.
func (s *Syncer) setTitle(ctx context.Context, b *bot.Bot, chatID, userID int64, badge rating.Badge) bool {
	log := s.logger.With("chat_id", chatID, "user_id", userID)

	withEmoji := Truncate(badge.Label())
	plain := Truncate(badge.Name)

	ok, err := b.SetChatAdministratorCustomTitle(ctx, &bot.SetChatAdministratorCustomTitleParams{
		ChatID:      chatID,
		UserID:      userID,
		CustomTitle: withEmoji,
	})
	if err == nil && ok {
		return true
	}

	if err != nil && strings.Contains(strings.ToUpper(err.Error()), "ADMIN_RANK_EMOJI_NOT_ALLOWED") {
		ok, err = b.SetChatAdministratorCustomTitle(ctx, &bot.SetChatAdministratorCustomTitleParams{
			ChatID:      chatID,
			UserID:      userID,
			CustomTitle: plain,
		})
		if err == nil && ok {
			return true
		}
	}

	log.WarnContext(ctx, "Failed to set custom title", "title", withEmoji, "error", err)
	return false
}
