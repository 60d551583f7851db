// Package main contains the seeding CLI: it assigns random ratings to
// existing users, which is handy for demoing the leaderboard and badges on a
// fresh database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avdeev/karmabot/internal/config"
	"github.com/avdeev/karmabot/internal/database"
	"github.com/avdeev/karmabot/internal/logger"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	minRating := flag.Int64("min", 0, "Minimum rating to assign")
	maxRating := flag.Int64("max", 120000, "Maximum rating to assign")
	all := flag.Bool("all", false, "Reseed every user, not only users with zero rating")
	dryRun := flag.Bool("dry-run", false, "Print what would change without writing")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)

	if *minRating < 0 || *maxRating < *minRating {
		log.Error("Invalid rating range", "min", *minRating, "max", *maxRating)
		return 1
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	userIDs, err := store.ListUserIDs(ctx, !*all)
	if err != nil {
		log.Error("Failed to list users", "error", err)
		return 1
	}
	if len(userIDs) == 0 {
		log.Info("No users to seed")
		return 0
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().Unix()
	seeded := 0
	for _, userID := range userIDs {
		rating := *minRating + rng.Int63n(*maxRating-*minRating+1)
		if *dryRun {
			log.Info("Would seed user", "user_id", userID, "rating", rating)
			continue
		}
		if err := store.SetRating(ctx, userID, rating, now); err != nil {
			log.Error("Failed to seed user", "user_id", userID, "error", err)
			return 1
		}
		seeded++
	}

	log.Info("Seeding finished", "users", len(userIDs), "seeded", seeded, "dry_run", *dryRun)
	return 0
}
