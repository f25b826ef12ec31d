package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Game identifies one of the tracked games.
type Game string

const (
	League   Game = "League"
	Deadlock Game = "Deadlock"
)

// Stat is the name of a single tracked statistic.
type Stat string

const (
	Kills   Stat = "Kills"
	Deaths  Stat = "Deaths"
	Assists Stat = "Assists"
	Wins    Stat = "Wins"
	Losses  Stat = "Losses"
	Souls   Stat = "Souls"
)

// LeaderboardSize is the maximum number of entries ranked per stat.
const LeaderboardSize = 10

// Games lists every supported game in display order.
var Games = []Game{League, Deadlock}

var statOrder = map[Game][]Stat{
	League:   {Kills, Deaths, Assists, Wins, Losses},
	Deadlock: {Kills, Deaths, Assists, Wins, Losses, Souls},
}

var deadlockRoster = []string{
	"Abrams", "Bebop", "Dynamo", "Grey Talon", "Haze", "Infernus", "Ivy", "Kelvin",
	"Lady Geist", "Lash", "McGinnis", "Mirage", "Mo & Krill", "Paradox", "Pocket",
	"Seven", "Shiv", "Vindicta", "Viscous", "Warden", "Wraith", "Yamato",
}

// rosterIndex maps the normalized form of each hero to its canonical spelling,
// so "mcginnis" resolves to "McGinnis".
var rosterIndex = func() map[string]string {
	idx := make(map[string]string, len(deadlockRoster))
	for _, name := range deadlockRoster {
		idx[Normalize(name)] = name
	}
	return idx
}()

// Normalize folds a user-supplied key into its canonical case form: surrounding
// whitespace trimmed, inner whitespace collapsed, and every word title-cased.
// Game names, character names and stat names all go through it.
func Normalize(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	// A Caser keeps state between calls and must not be shared.
	return cases.Title(language.Und).String(strings.Join(fields, " "))
}

// ParseGame validates and normalizes a game name.
func ParseGame(name string) (Game, error) {
	normalized := Game(Normalize(name))
	if _, ok := statOrder[normalized]; ok {
		return normalized, nil
	}
	return "", &ValidationError{Field: "game", Value: name, Valid: gameNames()}
}

// Stats returns the game's valid stats in canonical order.
func (g Game) Stats() []Stat {
	order := statOrder[g]
	out := make([]Stat, len(order))
	copy(out, order)
	return out
}

// HasStat reports whether stat is tracked for the game.
func (g Game) HasStat(stat Stat) bool {
	for _, s := range statOrder[g] {
		if s == stat {
			return true
		}
	}
	return false
}

// Roster returns the closed character set for the game, or nil when any
// character name is accepted.
func (g Game) Roster() []string {
	if g != Deadlock {
		return nil
	}
	out := make([]string, len(deadlockRoster))
	copy(out, deadlockRoster)
	return out
}

// ParseStat validates and normalizes a stat name for the game.
func (g Game) ParseStat(name string) (Stat, error) {
	stat := Stat(Normalize(name))
	if g.HasStat(stat) {
		return stat, nil
	}
	valid := make([]string, 0, len(statOrder[g]))
	for _, s := range statOrder[g] {
		valid = append(valid, string(s))
	}
	return "", &ValidationError{Field: "stat", Value: name, Game: g, Valid: valid}
}

// ParseCharacter validates and normalizes a character name for the game.
// Deadlock heroes resolve to the roster's spelling; League names are free text.
func (g Game) ParseCharacter(name string) (string, error) {
	normalized := Normalize(name)
	if g == Deadlock {
		if canonical, ok := rosterIndex[normalized]; ok {
			return canonical, nil
		}
		return "", &ValidationError{Field: "character", Value: name, Game: g, Valid: g.Roster()}
	}
	if normalized == "" {
		return "", &ValidationError{Field: "character", Value: name, Game: g}
	}
	return normalized, nil
}

func gameNames() []string {
	names := make([]string, len(Games))
	for i, g := range Games {
		names[i] = string(g)
	}
	return names
}
