package config

import (
	"os"
	"strings"
)

// DefaultCatalogURL is the hosted crop dataset the API falls back to when no
// local catalog file is configured.
const DefaultCatalogURL = "https://szcngfdwlktwaefirtux.supabase.co/storage/v1/object/public/game-assets/thryve_crops_data_2025.04.14.json"

type APIConfig struct {
	Addr        string
	DatabaseURL string
	CatalogURL  string
	CatalogFile string
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() APIConfig {
	addr := strings.TrimSpace(os.Getenv("PORT"))
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("HARVEST_API_ADDR", ":8080")
	}

	return APIConfig{
		Addr:        addr,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CatalogURL:  envDefault("HARVEST_CATALOG_URL", DefaultCatalogURL),
		CatalogFile: strings.TrimSpace(os.Getenv("HARVEST_CATALOG_FILE")),
	}
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("HARVEST_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
