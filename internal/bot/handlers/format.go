package handlers

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/avdeev/karmabot/internal/rating"
)

// formatDuration renders a cooldown remainder as "2ч 5м", "5м" or "30с".
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dч %dм", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dм", minutes)
	default:
		return fmt.Sprintf("%dс", total)
	}
}

// userRef maps a Telegram user into the rating core's boundary type.
func userRef(u *models.User) rating.UserRef {
	return rating.UserRef{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsBot:     u.IsBot,
	}
}
