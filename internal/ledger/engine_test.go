package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEngine(t *testing.T, initial ledger.Ledger) (*ledger.Engine, *ledger.MemoryStore) {
	t.Helper()
	store := ledger.NewMemoryStore(initial)
	return ledger.NewEngine(store), store
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"league", "League"},
		{"  DEADLOCK ", "Deadlock"},
		{"grey   talon", "Grey Talon"},
		{"mo & krill", "Mo & Krill"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ledger.Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestParseCharacter(t *testing.T) {
	t.Run("deadlock resolves roster spelling", func(t *testing.T) {
		name, err := ledger.Deadlock.ParseCharacter("mcginnis")
		require.NoError(t, err)
		assert.Equal(t, "McGinnis", name)

		name, err = ledger.Deadlock.ParseCharacter("LADY GEIST")
		require.NoError(t, err)
		assert.Equal(t, "Lady Geist", name)
	})

	t.Run("deadlock rejects unknown hero with roster", func(t *testing.T) {
		_, err := ledger.Deadlock.ParseCharacter("NotARealHero")
		var verr *ledger.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "character", verr.Field)
		assert.Len(t, verr.Valid, 22)
	})

	t.Run("league accepts free text", func(t *testing.T) {
		name, err := ledger.League.ParseCharacter("miss fortune")
		require.NoError(t, err)
		assert.Equal(t, "Miss Fortune", name)
	})

	t.Run("league rejects empty name", func(t *testing.T) {
		_, err := ledger.League.ParseCharacter("  ")
		var verr *ledger.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestUpdateStat(t *testing.T) {
	ctx := context.Background()

	t.Run("update then read back returns value", func(t *testing.T) {
		engine, store := setupEngine(t, nil)

		update, err := engine.UpdateStat(ctx, "u1", "league", "ahri", "kills", 7)
		require.NoError(t, err)
		assert.Equal(t, ledger.League, update.Game)
		assert.Equal(t, "Ahri", update.Character)
		assert.Equal(t, ledger.Kills, update.Stat)
		assert.False(t, update.HadPrevious)

		view, err := engine.GetUserStats(ctx, "u1", "League")
		require.NoError(t, err)
		require.Len(t, view.Games, 1)
		require.Len(t, view.Games[0].Characters, 1)
		stats := view.Games[0].Characters[0].Stats
		assert.Equal(t, ledger.StatValue{Stat: ledger.Kills, Value: 7, Recorded: true}, stats[0])
		assert.False(t, stats[1].Recorded, "Deaths should not be recorded")
		assert.Equal(t, 1, store.SaveCalls)
	})

	t.Run("repeated update overwrites", func(t *testing.T) {
		engine, store := setupEngine(t, nil)

		_, err := engine.UpdateStat(ctx, "u1", "Deadlock", "Haze", "Souls", 1000)
		require.NoError(t, err)
		update, err := engine.UpdateStat(ctx, "u1", "deadlock", "haze", "souls", 250)
		require.NoError(t, err)
		assert.True(t, update.HadPrevious)
		assert.Equal(t, 1000, update.Previous)

		assert.Equal(t, 250, store.Snapshot()["u1"].Games[ledger.Deadlock]["Haze"][ledger.Souls])
	})

	t.Run("invalid hero leaves ledger unchanged", func(t *testing.T) {
		initial := ledger.Ledger{"u1": {Games: map[ledger.Game]ledger.GameRecord{
			ledger.Deadlock: {"Haze": {ledger.Kills: 3}},
		}}}
		engine, store := setupEngine(t, initial)

		_, err := engine.UpdateStat(ctx, "u1", "Deadlock", "NotARealHero", "Kills", 1)
		var verr *ledger.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "character", verr.Field)
		assert.Equal(t, 0, store.SaveCalls)
		assert.Equal(t, initial, store.Snapshot())
	})

	t.Run("invalid game lists games", func(t *testing.T) {
		engine, _ := setupEngine(t, nil)
		_, err := engine.UpdateStat(ctx, "u1", "Valorant", "Jett", "Kills", 1)
		var verr *ledger.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "game", verr.Field)
		assert.Equal(t, []string{"League", "Deadlock"}, verr.Valid)
	})

	t.Run("souls is not a league stat", func(t *testing.T) {
		engine, store := setupEngine(t, nil)
		_, err := engine.UpdateStat(ctx, "u1", "League", "Ahri", "Souls", 1)
		var verr *ledger.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "stat", verr.Field)
		assert.Equal(t, []string{"Kills", "Deaths", "Assists", "Wins", "Losses"}, verr.Valid)
		assert.Empty(t, store.Snapshot())
	})

	t.Run("store failure is a collaborator error", func(t *testing.T) {
		engine, store := setupEngine(t, nil)
		store.SaveErr = errors.New("disk full")

		_, err := engine.UpdateStat(ctx, "u1", "League", "Ahri", "Kills", 1)
		var cerr *ledger.CollaboratorError
		require.ErrorAs(t, err, &cerr)
		assert.ErrorIs(t, err, store.SaveErr)
	})
}

func TestSetCachedAccountID(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t, nil)

	written, err := engine.SetCachedAccountID(ctx, "u1", "puuid-1")
	require.NoError(t, err)
	assert.True(t, written)

	written, err = engine.SetCachedAccountID(ctx, "u1", "puuid-2")
	require.NoError(t, err)
	assert.False(t, written)

	id, ok, err := engine.CachedAccountID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "puuid-1", id)
	assert.Equal(t, 1, store.SaveCalls)
}

func TestGetUserStats(t *testing.T) {
	ctx := context.Background()
	initial := ledger.Ledger{
		"u1": {
			AccountID: "puuid",
			Games: map[ledger.Game]ledger.GameRecord{
				ledger.League:   {"Zed": {ledger.Kills: 1}, "Ahri": {ledger.Wins: 2}},
				ledger.Deadlock: {"Haze": {ledger.Souls: 10}},
			},
		},
		"only-puuid": {AccountID: "x"},
	}
	engine, _ := setupEngine(t, initial)

	t.Run("all games in fixed order with sorted characters", func(t *testing.T) {
		view, err := engine.GetUserStats(ctx, "u1", "")
		require.NoError(t, err)
		require.Len(t, view.Games, 2)
		assert.Equal(t, ledger.League, view.Games[0].Game)
		assert.Equal(t, ledger.Deadlock, view.Games[1].Game)
		assert.Equal(t, "Ahri", view.Games[0].Characters[0].Name)
		assert.Equal(t, "Zed", view.Games[0].Characters[1].Name)
		assert.Len(t, view.Games[1].Characters[0].Stats, 6)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := engine.GetUserStats(ctx, "nobody", "")
		var nerr *ledger.NotFoundError
		require.ErrorAs(t, err, &nerr)
		assert.Empty(t, nerr.Game)
	})

	t.Run("user with only an account id has no stats", func(t *testing.T) {
		_, err := engine.GetUserStats(ctx, "only-puuid", "")
		var nerr *ledger.NotFoundError
		require.ErrorAs(t, err, &nerr)
	})

	t.Run("missing game", func(t *testing.T) {
		engine, _ := setupEngine(t, ledger.Ledger{"u2": {Games: map[ledger.Game]ledger.GameRecord{
			ledger.League: {"Ahri": {ledger.Kills: 1}},
		}}})
		_, err := engine.GetUserStats(ctx, "u2", "deadlock")
		var nerr *ledger.NotFoundError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, ledger.Deadlock, nerr.Game)
	})
}

func TestUpdateStat_ConcurrentWritesAreNotLost(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t, nil)
	roster := ledger.Deadlock.Roster()

	var wg sync.WaitGroup
	for i, hero := range roster {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.UpdateStat(ctx, "u1", "Deadlock", hero, "Souls", i+1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	record := store.Snapshot()["u1"].Games[ledger.Deadlock]
	require.Len(t, record, len(roster))
	for i, hero := range roster {
		assert.Equal(t, i+1, record[hero][ledger.Souls], hero)
	}
	assert.Equal(t, len(roster), store.SaveCalls)
}
