package ledger

import (
	"cmp"
	"context"
	"slices"
	"sort"
)

// Rank builds the top-N ranking per stat across every user. With a character
// only that character counts; otherwise a user's characters are summed.
// Equal scores are ordered by user ID ascending.
func (e *Engine) Rank(ctx context.Context, gameName, characterName string) (Leaderboard, error) {
	game, err := ParseGame(gameName)
	if err != nil {
		return Leaderboard{}, err
	}
	var character string
	if characterName != "" {
		if character, err = game.ParseCharacter(characterName); err != nil {
			return Leaderboard{}, err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.load(ctx)
	if err != nil {
		return Leaderboard{}, err
	}
	return rank(ledger, game, character)
}

func rank(ledger Ledger, game Game, character string) (Leaderboard, error) {
	perUser := make(map[string]Totals)
	for userID, rec := range ledger {
		gr := rec.game(game)
		if len(gr) == 0 {
			continue
		}
		if character != "" {
			cs, ok := gr[character]
			if !ok {
				continue
			}
			gr = GameRecord{character: cs}
		}
		perUser[userID] = combine(game, gr)
	}
	if len(perUser) == 0 {
		return Leaderboard{}, &EmptyResultError{Game: game, Character: character}
	}

	users := make([]string, 0, len(perUser))
	for userID := range perUser {
		users = append(users, userID)
	}
	sort.Strings(users)

	board := Leaderboard{Game: game, Character: character}
	for i, stat := range game.Stats() {
		entries := make([]RankEntry, 0, len(users))
		for _, userID := range users {
			entries = append(entries, RankEntry{UserID: userID, Score: perUser[userID][i].Value})
		}
		// users is sorted, so a stable sort leaves ties in user ID order.
		slices.SortStableFunc(entries, func(a, b RankEntry) int {
			return cmp.Compare(b.Score, a.Score)
		})
		if len(entries) > LeaderboardSize {
			entries = entries[:LeaderboardSize]
		}
		board.Rankings = append(board.Rankings, StatRanking{Stat: stat, Entries: entries})
	}
	return board, nil
}
