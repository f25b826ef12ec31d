package ledger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// accountIDKey is the document key holding the cached PUUID next to the
// game keys, matching the stats.json layout.
const accountIDKey = "puuid"

// MarshalJSON flattens the record into {"<Game>": {...}, "puuid": "..."}.
func (r UserRecord) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(r.Games)+1)
	for game, gr := range r.Games {
		doc[string(game)] = gr
	}
	if r.AccountID != "" {
		doc[accountIDKey] = r.AccountID
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads the flattened layout written by MarshalJSON. Unknown
// game keys are rejected rather than dropped.
func (r *UserRecord) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*r = UserRecord{}
	for key, raw := range doc {
		if key == accountIDKey {
			if err := json.Unmarshal(raw, &r.AccountID); err != nil {
				return fmt.Errorf("failed to decode %s: %w", accountIDKey, err)
			}
			continue
		}
		game, err := ParseGame(key)
		if err != nil {
			return fmt.Errorf("unknown game key %q in user record", key)
		}
		var gr GameRecord
		if err := json.Unmarshal(raw, &gr); err != nil {
			return fmt.Errorf("failed to decode %s record: %w", game, err)
		}
		if r.Games == nil {
			r.Games = make(map[Game]GameRecord)
		}
		r.Games[game] = NormalizeGameRecord(game, gr)
	}
	return nil
}

// NormalizeGameRecord rewrites a loaded game record so every character and
// stat key has its canonical spelling, as if written through UpdateStat.
// Keys that fold to the same name are merged; where both spellings hold a
// value for a stat, the already-canonical key wins. Characters outside the
// roster and stats the game does not track are dropped with a warning.
func NormalizeGameRecord(game Game, gr GameRecord) GameRecord {
	out := make(GameRecord, len(gr))
	for _, key := range canonicalLast(keysOf(gr), game.ParseCharacter) {
		character, _ := game.ParseCharacter(key)
		cs := out[character]
		if cs == nil {
			cs = make(CharacterStats, len(gr[key]))
			out[character] = cs
		}
		statKeys := make([]string, 0, len(gr[key]))
		for stat := range gr[key] {
			statKeys = append(statKeys, string(stat))
		}
		parseStat := func(k string) (string, error) {
			stat, err := game.ParseStat(k)
			return string(stat), err
		}
		for _, statKey := range canonicalLast(statKeys, parseStat) {
			stat, _ := game.ParseStat(statKey)
			cs[stat] = gr[key][Stat(statKey)]
		}
	}
	return out
}

// canonicalLast returns the keys that parse, sorted so that keys already in
// canonical form come after their variants. Keys that fail to parse are
// logged and left out.
func canonicalLast(keys []string, parse func(string) (string, error)) []string {
	type entry struct {
		key       string
		canonical bool
	}
	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		canonical, err := parse(key)
		if err != nil {
			log.Warn("Dropping unknown key from stored ledger", "key", key, "error", err)
			continue
		}
		entries = append(entries, entry{key: key, canonical: canonical == key})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].canonical != entries[j].canonical {
			return !entries[i].canonical
		}
		return entries[i].key < entries[j].key
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}

func keysOf(gr GameRecord) []string {
	keys := make([]string, 0, len(gr))
	for k := range gr {
		keys = append(keys, k)
	}
	return keys
}
