package metrics

import (
	"context"
	"database/sql"
	"sync"

	"github.com/charmbracelet/log"
)

// store handles command usage counters in the database.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ UsageStore = (*store)(nil)

// NewUsageStore creates a UsageStore on a database migrated by database.InitDB.
func NewUsageStore(db *sql.DB) UsageStore {
	return &store{
		db: db,
	}
}

// Increment upserts a usage key and increments its value by one. Failures
// are logged and swallowed so command handling never depends on them.
func (s *store) Increment(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO command_usage (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1;
	`, key)
	if err != nil {
		log.Error("Failed to increment command usage", "error", err, "key", key)
		return
	}
	log.Debug("Incremented command usage", "key", key)
}

// GetAll returns every usage counter.
func (s *store) GetAll(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM command_usage")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		usage[key] = value
	}
	return usage, rows.Err()
}
