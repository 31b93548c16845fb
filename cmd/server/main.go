// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/cache"
	"github.com/jason-s-yu/thirtyseconds/internal/config"
	"github.com/jason-s-yu/thirtyseconds/internal/database"
	"github.com/jason-s-yu/thirtyseconds/internal/game"
	"github.com/jason-s-yu/thirtyseconds/internal/handlers"
	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

func main() {
	cfg := config.LoadServer()

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := words.LoadDir(cfg.WordBankDir, logger)
	if err != nil {
		logger.Fatalf("loading word banks: %v", err)
	}

	opts := game.Options{
		Logger:     logger,
		TimerGrace: cfg.TimerGrace,
	}

	// action log for the historian
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer rdb.Close()
		opts.Actions = cache.NewPublisher(rdb, cfg.QueueName, logger)
		logger.Infof("publishing actions to redis %s (%s)", cfg.RedisAddr, cfg.QueueName)
	}

	// finished game results
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.Fatalf("%v", err)
		}
		opts.Results = database.NewResultRecorder(database.NewGameRepository(pool), logger)
		logger.Info("recording finished games to postgres")
	}

	store := game.NewSessionStore(catalog, opts)
	srv := handlers.NewGameServer(store, logger)
	go store.RunSweeper(ctx, cfg.SweepInterval, cfg.SessionIdleTimeout)

	httpServer := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: srv.Routes(cfg.AllowedOrigins, handlers.WSOptions{
			MessagesPerSecond: cfg.MessagesPerSecond,
			Burst:             cfg.MessageBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Running on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, info := range store.List() {
		if err := store.Delete(info.ID); err != nil {
			logger.Warnf("closing session %s: %v", info.ID, err)
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
