package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/vmihailenco/msgpack/v5"
)

// SQLStore keeps one msgpack-encoded row per user in the ledger_users table.
type SQLStore struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLStore)(nil)

// userRow is the persisted form of a ledger.UserRecord.
type userRow struct {
	AccountID string                               `msgpack:"puuid,omitempty"`
	Games     map[string]map[string]map[string]int `msgpack:"games,omitempty"`
}

// NewSQLStore creates a SQLStore on a database migrated by database.InitDB.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context) (ledger.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id, record FROM ledger_users")
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	l := make(ledger.Ledger)
	for rows.Next() {
		var userID string
		var blob []byte
		if err := rows.Scan(&userID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		rec, err := decodeRow(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to decode record for %s: %w", userID, err)
		}
		l[userID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger rows: %w", err)
	}
	return l, nil
}

// Save replaces the table's contents with l in one transaction.
func (s *SQLStore) Save(ctx context.Context, l ledger.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_users"); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear ledger: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO ledger_users (user_id, record) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for userID, rec := range l {
		if rec == nil {
			continue
		}
		blob, err := encodeRow(rec)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode record for %s: %w", userID, err)
		}
		if _, err := stmt.ExecContext(ctx, userID, blob); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record for %s: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Saved ledger", "users", len(l))
	return nil
}

func encodeRow(rec *ledger.UserRecord) ([]byte, error) {
	row := userRow{AccountID: rec.AccountID}
	if len(rec.Games) > 0 {
		row.Games = make(map[string]map[string]map[string]int, len(rec.Games))
		for game, gr := range rec.Games {
			chars := make(map[string]map[string]int, len(gr))
			for character, cs := range gr {
				stats := make(map[string]int, len(cs))
				for stat, v := range cs {
					stats[string(stat)] = v
				}
				chars[character] = stats
			}
			row.Games[string(game)] = chars
		}
	}
	return msgpack.Marshal(row)
}

func decodeRow(blob []byte) (*ledger.UserRecord, error) {
	var row userRow
	if err := msgpack.Unmarshal(blob, &row); err != nil {
		return nil, err
	}

	rec := &ledger.UserRecord{AccountID: row.AccountID}
	for gameName, chars := range row.Games {
		game, err := ledger.ParseGame(gameName)
		if err != nil {
			return nil, err
		}
		gr := make(ledger.GameRecord, len(chars))
		for character, stats := range chars {
			cs := make(ledger.CharacterStats, len(stats))
			for stat, v := range stats {
				cs[ledger.Stat(stat)] = v
			}
			gr[character] = cs
		}
		if rec.Games == nil {
			rec.Games = make(map[ledger.Game]ledger.GameRecord)
		}
		rec.Games[game] = ledger.NormalizeGameRecord(game, gr)
	}
	return rec, nil
}
