package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"harvest/internal/catalog"
	"harvest/internal/config"
	"harvest/internal/game"
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

	games := envIntDefault("HARVEST_SIM_GAMES", 1000)
	src := game.NewSource()
	if v := strings.TrimSpace(os.Getenv("HARVEST_SIM_SEED")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logger.Error("invalid HARVEST_SIM_SEED", "value", v)
			os.Exit(1)
		}
		src = game.NewSeededSource(seed)
	}

	logger.Info("simulation starting", "games", games, "countries", len(countries))
	stats, err := game.Simulate(catalog.GameOptions(countries), games, src, logger)
	if err != nil {
		logger.Error("simulation failed", "err", err)
		os.Exit(1)
	}

	logger.Info("simulation complete",
		"games", stats.Games,
		"avg_seasons", stats.AvgSeasons(),
		"wins_by_seat", stats.WinsBySeat,
		"wins_by_profile", stats.WinsByProfile,
		"wins_by_reason", stats.WinsByReason,
	)
}

func loadCatalog(ctx context.Context, cfg config.APIConfig) ([]catalog.Country, error) {
	if cfg.CatalogFile != "" {
		return catalog.LoadFile(cfg.CatalogFile)
	}
	return catalog.NewClient(cfg.CatalogURL).Fetch(ctx)
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
