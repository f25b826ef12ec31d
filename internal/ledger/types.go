package ledger

import (
	"sync"
)

// Ledger holds every user's stats, keyed by the caller's chat user ID.
type Ledger map[string]*UserRecord

// UserRecord is everything stored for one user.
type UserRecord struct {
	// AccountID caches the user's Riot PUUID. It is written once.
	AccountID string
	Games     map[Game]GameRecord
}

// GameRecord maps a canonical character name to that character's stats.
type GameRecord map[string]CharacterStats

// CharacterStats holds the latest value of each recorded stat. A stat that is
// absent has never been recorded.
type CharacterStats map[Stat]int

// Engine implements the ledger, aggregation and leaderboard operations on top
// of a Store. Every operation runs under mu so a load-mutate-save sequence is
// never interleaved with another.
type Engine struct {
	store Store
	mu    sync.Mutex
}

// StatUpdate describes a successful UpdateStat call using the canonical names
// that were stored.
type StatUpdate struct {
	UserID      string `json:"user_id"`
	Game        Game   `json:"game"`
	Character   string `json:"character"`
	Stat        Stat   `json:"stat"`
	Value       int    `json:"value"`
	Previous    int    `json:"previous"`
	HadPrevious bool   `json:"had_previous"`
}

// StatValue is one stat in a per-character view.
type StatValue struct {
	Stat     Stat `json:"stat"`
	Value    int  `json:"value"`
	Recorded bool `json:"recorded"`
}

// CharacterView lists a character's stats in canonical order.
type CharacterView struct {
	Name  string      `json:"name"`
	Stats []StatValue `json:"stats"`
}

// GameView lists a user's characters for one game, sorted by name.
type GameView struct {
	Game       Game            `json:"game"`
	Characters []CharacterView `json:"characters"`
}

// UserView is the read-back of a user's stats.
type UserView struct {
	UserID string     `json:"user_id"`
	Games  []GameView `json:"games"`
}

// StatLine is a single aggregated stat.
type StatLine struct {
	Stat  Stat `json:"stat"`
	Value int  `json:"value"`
}

// Totals are aggregated stats in the game's canonical order.
type Totals []StatLine

// Get returns the total for stat, or 0 if the stat is not part of the totals.
func (t Totals) Get(stat Stat) int {
	for _, line := range t {
		if line.Stat == stat {
			return line.Value
		}
	}
	return 0
}

// GameTotals pairs a game with the user's combined totals for it.
type GameTotals struct {
	Game   Game   `json:"game"`
	Totals Totals `json:"totals"`
}

// RankEntry is one user's position in a stat ranking.
type RankEntry struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
}

// StatRanking is the ordered top-N for one stat.
type StatRanking struct {
	Stat    Stat        `json:"stat"`
	Entries []RankEntry `json:"entries"`
}

// Leaderboard holds one ranking per stat, in canonical stat order.
type Leaderboard struct {
	Game      Game          `json:"game"`
	Character string        `json:"character,omitempty"`
	Rankings  []StatRanking `json:"rankings"`
}

// For returns the ranking for stat.
func (l Leaderboard) For(stat Stat) []RankEntry {
	for _, r := range l.Rankings {
		if r.Stat == stat {
			return r.Entries
		}
	}
	return nil
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for userID, rec := range l {
		if rec == nil {
			continue
		}
		out[userID] = rec.clone()
	}
	return out
}

func (r *UserRecord) clone() *UserRecord {
	c := &UserRecord{AccountID: r.AccountID}
	if r.Games != nil {
		c.Games = make(map[Game]GameRecord, len(r.Games))
		for game, gr := range r.Games {
			cgr := make(GameRecord, len(gr))
			for character, cs := range gr {
				ccs := make(CharacterStats, len(cs))
				for stat, v := range cs {
					ccs[stat] = v
				}
				cgr[character] = ccs
			}
			c.Games[game] = cgr
		}
	}
	return c
}

// user returns the record for userID, creating it when missing.
func (l Ledger) user(userID string) *UserRecord {
	rec := l[userID]
	if rec == nil {
		rec = &UserRecord{}
		l[userID] = rec
	}
	return rec
}

// characterStats returns the stats for character in game, creating the
// intermediate records when missing.
func (r *UserRecord) characterStats(game Game, character string) CharacterStats {
	if r.Games == nil {
		r.Games = make(map[Game]GameRecord)
	}
	gr := r.Games[game]
	if gr == nil {
		gr = make(GameRecord)
		r.Games[game] = gr
	}
	cs := gr[character]
	if cs == nil {
		cs = make(CharacterStats)
		gr[character] = cs
	}
	return cs
}

// game returns the user's record for game, nil-safe on the user.
func (r *UserRecord) game(game Game) GameRecord {
	if r == nil {
		return nil
	}
	return r.Games[game]
}

// hasGames reports whether the user has any stat recorded.
func (r *UserRecord) hasGames() bool {
	if r == nil {
		return false
	}
	for _, gr := range r.Games {
		if len(gr) > 0 {
			return true
		}
	}
	return false
}
