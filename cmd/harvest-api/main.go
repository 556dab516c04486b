package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"harvest/internal/api"
	"harvest/internal/catalog"
	"harvest/internal/config"
	"harvest/internal/db"
	"harvest/internal/game"
	"harvest/internal/history"
	"harvest/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadAPIFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	countries, err := loadCatalog(ctx, cfg)
	if err != nil {
		logger.Error("load catalog", "err", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "countries", len(countries))

	var results *history.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		results = history.NewStore(pool, logger)
		if err := results.EnsureSchema(ctx); err != nil {
			logger.Error("ensure schema failed", "err", err)
			os.Exit(1)
		}
	} else {
		logger.Info("DATABASE_URL not set, leaderboard disabled")
	}

	sessions := session.NewManager(catalog.GameOptions(countries), game.NewSource(), logger)
	server := api.New(cfg, logger, sessions, countries, results)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("harvest api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func loadCatalog(ctx context.Context, cfg config.APIConfig) ([]catalog.Country, error) {
	if cfg.CatalogFile != "" {
		return catalog.LoadFile(cfg.CatalogFile)
	}
	return catalog.NewClient(cfg.CatalogURL).Fetch(ctx)
}
