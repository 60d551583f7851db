// Package config manages application configuration from config.yaml,
// BOT_-prefixed environment variables, and default values.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config is the root application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Rating    RatingConfig    `mapstructure:"rating"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and runtime identity.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"required,gt=0"`

	// BotInfo is filled at startup from GetMe, not from configuration.
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// RatingConfig holds the reputation business rules.
type RatingConfig struct {
	VoteCooldown            time.Duration `mapstructure:"vote_cooldown"     validate:"min=1s"`
	ActivityPoints          int64         `mapstructure:"activity_points"`
	ActivityCooldown        time.Duration `mapstructure:"activity_cooldown" validate:"min=1s"`
	GeniusEfficiencyCutoff  int           `mapstructure:"genius_efficiency_cutoff"  validate:"min=0,max=100"`
	SupremeEfficiencyCutoff int           `mapstructure:"supreme_efficiency_cutoff" validate:"min=0,max=100"`
	TopLimit                int           `mapstructure:"top_limit" validate:"min=1,max=50"`
}

// TaskConfig enables and schedules one background task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds the user-facing reply templates.
type MessagesConfig struct {
	Welcome        string `mapstructure:"welcome"`
	Help           string `mapstructure:"help"`
	NotAuthorized  string `mapstructure:"not_authorized"`
	GeneralError   string `mapstructure:"general_error"`
	PlusUsage      string `mapstructure:"plus_usage"`
	SelfVote       string `mapstructure:"self_vote"`
	VoteCooldown   string `mapstructure:"vote_cooldown"`
	VoteAccepted   string `mapstructure:"vote_accepted"`
	BadgeUp        string `mapstructure:"badge_up"`
	TopHeader      string `mapstructure:"top_header"`
	TopEmpty       string `mapstructure:"top_empty"`
	TitleSyncStart string `mapstructure:"title_sync_start"`
	TitleSyncDone  string `mapstructure:"title_sync_done"`
}
