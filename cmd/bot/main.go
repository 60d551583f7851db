// Package main contains the entrypoint for the Telegram rating bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/jonboulle/clockwork"

	"github.com/avdeev/karmabot/internal/bot"
	"github.com/avdeev/karmabot/internal/bot/handlers"
	"github.com/avdeev/karmabot/internal/bot/tasks"
	"github.com/avdeev/karmabot/internal/config"
	"github.com/avdeev/karmabot/internal/database"
	"github.com/avdeev/karmabot/internal/logger"
	"github.com/avdeev/karmabot/internal/rating"
	"github.com/avdeev/karmabot/internal/telegram"
	"github.com/avdeev/karmabot/internal/titles"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, db, rating
// service, bot, scheduler), handles graceful shutdown, and returns an exit
// code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	svc := rating.NewService(store, clockwork.NewRealClock(), log, rating.Config{
		VoteCooldown:            cfg.Rating.VoteCooldown,
		ActivityPoints:          cfg.Rating.ActivityPoints,
		ActivityCooldown:        cfg.Rating.ActivityCooldown,
		GeniusEfficiencyCutoff:  cfg.Rating.GeniusEfficiencyCutoff,
		SupremeEfficiencyCutoff: cfg.Rating.SupremeEfficiencyCutoff,
	})
	syncer := titles.NewSyncer(svc, log)

	hDeps := handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Service: svc,
		Syncer:  syncer,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.ChatTracker(hDeps)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Retrieve bot info and store it in the config for runtime use.
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.SetCommandMenu(ctx, tg, log); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Syncer: syncer,
		TgBot:  tg,
		Config: cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	time.Sleep(time.Second)
	return 0
}
