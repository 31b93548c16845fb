// cmd/historian/main.go pops session actions from the Redis queue and persists
// them to PostgreSQL.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/cache"
	"github.com/jason-s-yu/thirtyseconds/internal/config"
	"github.com/jason-s-yu/thirtyseconds/internal/database"
	"github.com/jason-s-yu/thirtyseconds/internal/historian"
)

func main() {
	cfg := config.LoadHistorian()

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Fatalf("%v", err)
	}

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer rdb.Close()

	hs := historian.NewService(
		cache.NewQueue(rdb, cfg.QueueName),
		database.NewGameRepository(pool),
		historian.Config{
			BatchSize:     cfg.BatchSize,
			FlushDelay:    cfg.FlushDelay,
			Inactivity:    cfg.Inactivity,
			SweepInterval: cfg.SweepInterval,
		},
		clockwork.NewRealClock(),
		logger.WithField("component", "historian"),
	)
	hs.Run(ctx)
	logger.Info("historian shutdown complete")
}
