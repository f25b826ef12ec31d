package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// A missing required variable is fatal.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
	return cfg
}

// FromLookup builds a Config from lookup, which has the signature of
// os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	var missing []string

	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	getEnvDefault := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		Port:     getEnv("PORT"),
		LogLevel: getEnvDefault("LOG_LEVEL", "info"),
		Store: StoreConfig{
			Backend:   getEnvDefault("STORE_BACKEND", BackendSQLite),
			DBName:    getEnvDefault("DB_NAME", "statsage.db"),
			StatsFile: getEnvDefault("STATS_FILE", "stats.json"),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:         getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvDefault("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET"),
		},
		Riot: RiotConfig{
			APIKey:      getEnv("RIOT_API_KEY"),
			RegionalURL: getEnvDefault("RIOT_REGIONAL_URL", "https://americas.api.riotgames.com"),
			PlatformURL: getEnvDefault("RIOT_PLATFORM_URL", "https://na1.api.riotgames.com"),
		},
		ProjectID: getEnvDefault("GCP_PROJECT", ""),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %v", missing)
	}
	if cfg.Store.Backend != BackendSQLite && cfg.Store.Backend != BackendFile {
		return Config{}, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendFile, cfg.Store.Backend)
	}
	return cfg, nil
}
