package store_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/e-mault/stat-sage/internal/database"
	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func sampleLedger() ledger.Ledger {
	return ledger.Ledger{
		"111": {
			AccountID: "puuid-111",
			Games: map[ledger.Game]ledger.GameRecord{
				ledger.League:   {"Ahri": {ledger.Kills: 7, ledger.Wins: 2}},
				ledger.Deadlock: {"Mo & Krill": {ledger.Souls: 31000}, "Haze": {ledger.Deaths: 0}},
			},
		},
		"222": {Games: map[ledger.Game]ledger.GameRecord{
			ledger.League: {"Miss Fortune": {ledger.Assists: 14}},
		}},
		"333": {AccountID: "puuid-333"},
	}
}

func setupSQLStore(t *testing.T) *store.SQLStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return store.NewSQLStore(db)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := store.NewFileStore(filepath.Join(t.TempDir(), "stats.json"))
	l, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, l)
}

func TestFileStore_EmptyFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	l, err := store.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, l)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stats.json")
	s := store.NewFileStore(path)

	require.NoError(t, s.Save(ctx, sampleLedger()))

	l, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleLedger(), l)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"puuid": "puuid-111"`)
	assert.Contains(t, string(data), "\n    \"111\"")

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files should not be left behind")
}

func TestFileStore_RejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"u1": {"Valorant": {}}}`), 0o644))

	_, err := store.NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestSQLStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupSQLStore(t)

	l, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, l)

	require.NoError(t, s.Save(ctx, sampleLedger()))
	l, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleLedger(), l)
}

func TestSQLStore_SaveReplacesRows(t *testing.T) {
	ctx := context.Background()
	s := setupSQLStore(t)

	require.NoError(t, s.Save(ctx, sampleLedger()))

	smaller := ledger.Ledger{"222": {Games: map[ledger.Game]ledger.GameRecord{
		ledger.League: {"Miss Fortune": {ledger.Assists: 15}},
	}}}
	require.NoError(t, s.Save(ctx, smaller))

	l, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, smaller, l)
}

func TestSQLStore_BacksEngine(t *testing.T) {
	ctx := context.Background()
	engine := ledger.NewEngine(setupSQLStore(t))

	_, err := engine.UpdateStat(ctx, "u1", "deadlock", "grey talon", "souls", 500)
	require.NoError(t, err)
	_, err = engine.UpdateStat(ctx, "u2", "deadlock", "grey talon", "souls", 900)
	require.NoError(t, err)

	board, err := engine.Rank(ctx, "Deadlock", "Grey Talon")
	require.NoError(t, err)
	assert.Equal(t, []ledger.RankEntry{{UserID: "u2", Score: 900}, {UserID: "u1", Score: 500}}, board.For(ledger.Souls))
}

func TestFileStore_OriginalLayoutMergesWithNewWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"u1": {"League": {"Miss fortune": {"Kills": 3}}}}`), 0o644))
	engine := ledger.NewEngine(store.NewFileStore(path))

	_, err := engine.UpdateStat(ctx, "u1", "League", "miss fortune", "Kills", 5)
	require.NoError(t, err)

	totals, err := engine.CombineStats(ctx, "u1", "League")
	require.NoError(t, err)
	assert.Equal(t, 5, totals.Get(ledger.Kills))

	view, err := engine.GetUserStats(ctx, "u1", "League")
	require.NoError(t, err)
	require.Len(t, view.Games[0].Characters, 1)
	assert.Equal(t, "Miss Fortune", view.Games[0].Characters[0].Name)
}

func TestSQLStore_NormalizesStoredNames(t *testing.T) {
	ctx := context.Background()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	blob, err := msgpack.Marshal(map[string]any{
		"games": map[string]map[string]map[string]int{
			"league": {"Miss fortune": {"kills": 3}},
		},
	})
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO ledger_users (user_id, record) VALUES (?, ?)", "u1", blob)
	require.NoError(t, err)

	l, err := store.NewSQLStore(db).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.CharacterStats{ledger.Kills: 3}, l["u1"].Games[ledger.League]["Miss Fortune"])
}

func TestFileStore_ConcurrentUpdatesThroughEngine(t *testing.T) {
	ctx := context.Background()
	engine := ledger.NewEngine(store.NewFileStore(filepath.Join(t.TempDir(), "stats.json")))
	stats := ledger.Deadlock.Stats()
	users := []string{"u1", "u2", "u3", "u4"}

	var wg sync.WaitGroup
	for _, userID := range users {
		for i, stat := range stats {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := engine.UpdateStat(ctx, userID, "Deadlock", "Haze", string(stat), i+10)
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	for _, userID := range users {
		totals, err := engine.CombineStats(ctx, userID, "Deadlock")
		require.NoError(t, err)
		for i, stat := range stats {
			assert.Equal(t, i+10, totals.Get(stat), "%s %s", userID, stat)
		}
	}
}
