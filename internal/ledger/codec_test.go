package ledger_test

import (
	"encoding/json"
	"testing"

	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRecordJSON_ReadsStatsFileLayout(t *testing.T) {
	doc := `{
		"123456789": {
			"League": {"Ahri": {"Kills": 3, "Wins": 1}},
			"Deadlock": {"Mo & Krill": {"Souls": 4200}},
			"puuid": "abc-123"
		}
	}`

	var l ledger.Ledger
	require.NoError(t, json.Unmarshal([]byte(doc), &l))

	rec := l["123456789"]
	require.NotNil(t, rec)
	assert.Equal(t, "abc-123", rec.AccountID)
	assert.Equal(t, 3, rec.Games[ledger.League]["Ahri"][ledger.Kills])
	assert.Equal(t, 4200, rec.Games[ledger.Deadlock]["Mo & Krill"][ledger.Souls])
}

func TestUserRecordJSON_RejectsUnknownGame(t *testing.T) {
	var l ledger.Ledger
	err := json.Unmarshal([]byte(`{"u1": {"Valorant": {"Jett": {"Kills": 1}}}}`), &l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Valorant")
}

func TestLedgerJSON_RoundTrip(t *testing.T) {
	original := ledger.Ledger{
		"u1": {
			AccountID: "puuid-1",
			Games: map[ledger.Game]ledger.GameRecord{
				ledger.League:   {"Ahri": {ledger.Kills: 3, ledger.Deaths: -1}},
				ledger.Deadlock: {"Grey Talon": {ledger.Souls: 123456789}},
			},
		},
		"u2": {AccountID: "only-account"},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded ledger.Ledger
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestUserRecordJSON_NormalizesStoredNames(t *testing.T) {
	doc := `{
		"u1": {
			"League": {
				"Miss fortune": {"Kills": 3, "deaths": 1},
				"Miss Fortune": {"Kills": 9},
				"ahri": {"Souls": 100, "Wins": 2}
			},
			"Deadlock": {
				"grey talon": {"Souls": 500},
				"NotARealHero": {"Kills": 1}
			}
		}
	}`

	var l ledger.Ledger
	require.NoError(t, json.Unmarshal([]byte(doc), &l))

	league := l["u1"].Games[ledger.League]
	require.Len(t, league, 2)
	assert.Equal(t, ledger.CharacterStats{ledger.Kills: 9, ledger.Deaths: 1}, league["Miss Fortune"])
	assert.Equal(t, ledger.CharacterStats{ledger.Wins: 2}, league["Ahri"])

	deadlock := l["u1"].Games[ledger.Deadlock]
	require.Len(t, deadlock, 1)
	assert.Equal(t, 500, deadlock["Grey Talon"][ledger.Souls])
}

func TestNormalizeGameRecord_CanonicalKeyWinsRegardlessOfOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		gr := ledger.NormalizeGameRecord(ledger.League, ledger.GameRecord{
			"zed":  {ledger.Kills: 1, "kills": 4},
			"Zed":  {ledger.Kills: 2},
			"ZED ": {ledger.Assists: 5},
		})
		require.Len(t, gr, 1)
		assert.Equal(t, ledger.CharacterStats{ledger.Kills: 2, ledger.Assists: 5}, gr["Zed"])
	}
}
