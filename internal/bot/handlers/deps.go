package handlers

import (
	"log/slog"

	"github.com/avdeev/karmabot/internal/config"
	"github.com/avdeev/karmabot/internal/rating"
	"github.com/avdeev/karmabot/internal/titles"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Service *rating.Service
	Syncer  *titles.Syncer
}
