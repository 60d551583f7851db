// Package tasks implements the scheduled background tasks: periodic badge
// title sync and database maintenance.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/avdeev/karmabot/internal/config"
	"github.com/avdeev/karmabot/internal/database"
	"github.com/avdeev/karmabot/internal/titles"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Syncer *titles.Syncer
	TgBot  *tgbot.Bot
	Config *config.Config
}
