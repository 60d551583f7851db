package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration, layering:
// 1. default values
// 2. the YAML file at path (optional)
// 3. BOT_* environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, everything can come from env.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func isNotExist(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	// Required keys get empty defaults so AutomaticEnv can fill them when no
	// config file is present; validation rejects them if they stay empty.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_user_id", 0)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("rating.vote_cooldown", DefaultVoteCooldown)
	v.SetDefault("rating.activity_points", DefaultActivityPoints)
	v.SetDefault("rating.activity_cooldown", DefaultActivityCooldown)
	v.SetDefault("rating.genius_efficiency_cutoff", DefaultGeniusEfficiencyCutoff)
	v.SetDefault("rating.supreme_efficiency_cutoff", DefaultSupremeEfficiencyCutoff)
	v.SetDefault("rating.top_limit", DefaultTopLimit)

	v.SetDefault("scheduler.tasks.title_sync.enabled", true)
	v.SetDefault("scheduler.tasks.title_sync.schedule", DefaultTitleSyncSchedule)
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", DefaultSQLMaintenanceSchedule)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.not_authorized", DefaultMessages.NotAuthorized)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.plus_usage", DefaultMessages.PlusUsage)
	v.SetDefault("messages.self_vote", DefaultMessages.SelfVote)
	v.SetDefault("messages.vote_cooldown", DefaultMessages.VoteCooldown)
	v.SetDefault("messages.vote_accepted", DefaultMessages.VoteAccepted)
	v.SetDefault("messages.badge_up", DefaultMessages.BadgeUp)
	v.SetDefault("messages.top_header", DefaultMessages.TopHeader)
	v.SetDefault("messages.top_empty", DefaultMessages.TopEmpty)
	v.SetDefault("messages.title_sync_start", DefaultMessages.TitleSyncStart)
	v.SetDefault("messages.title_sync_done", DefaultMessages.TitleSyncDone)
}
