package main

import (
	"context"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/e-mault/stat-sage/internal/database"
	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/store"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	numUsers          = 50
	charactersPerGame = 4
)

var champions = []string{"Ahri", "Ezreal", "Jinx", "Lux", "Miss Fortune", "Thresh", "Yasuo", "Zed"}

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	defaults := map[string]string{
		"STORE_BACKEND":     "sqlite",
		"DB_NAME":           "statsage.db",
		"STATS_FILE":        "stats.json",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	config := make(map[string]string, len(defaults))
	for key, fallback := range defaults {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			config[key] = value
		} else {
			config[key] = fallback
		}
	}
	return config
}

func main() {
	log.Info("Starting stat seeder...")
	cfg := loadConfig()
	ctx := context.Background()

	var target ledger.Store
	if cfg["STORE_BACKEND"] == "file" {
		target = store.NewFileStore(cfg["STATS_FILE"])
	} else {
		db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
		if err != nil {
			log.Fatalf("Failed to initialize database: %s", err)
		}
		defer teardown()
		target = store.NewSQLStore(db)
	}

	existing, err := target.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load existing stats: %s", err)
	}

	startTime := time.Now()
	for i := 0; i < numUsers; i++ {
		userID := "U" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
		record := &ledger.UserRecord{Games: map[ledger.Game]ledger.GameRecord{}}
		for _, game := range ledger.Games {
			pool := champions
			if roster := game.Roster(); len(roster) > 0 {
				pool = roster
			}
			played := make(ledger.GameRecord, charactersPerGame)
			for _, idx := range rand.Perm(len(pool))[:charactersPerGame] {
				stats := make(ledger.CharacterStats, len(game.Stats()))
				for _, stat := range game.Stats() {
					stats[stat] = randomValue(stat)
				}
				played[pool[idx]] = stats
			}
			record.Games[game] = played
		}
		existing[userID] = record
	}

	if err := target.Save(ctx, existing); err != nil {
		log.Fatalf("Failed to save seeded stats: %s", err)
	}
	log.Info("Seeded users", "count", numUsers, "total_users", len(existing), "duration", time.Since(startTime))

	engine := ledger.NewEngine(target)
	board, err := engine.Rank(ctx, string(ledger.Deadlock), "")
	if err != nil {
		log.Fatalf("Failed to rank seeded stats: %s", err)
	}
	if top := board.For(ledger.Souls); len(top) > 0 {
		log.Info("Top Deadlock souls after seeding", "user_id", top[0].UserID, "score", top[0].Score)
	}
}

func randomValue(stat ledger.Stat) int {
	switch stat {
	case ledger.Souls:
		return rand.Intn(50000)
	case ledger.Wins, ledger.Losses:
		return rand.Intn(40)
	default:
		return rand.Intn(300)
	}
}
