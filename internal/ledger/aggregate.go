package ledger

import "context"

// CombineStats sums each stat across all of the user's characters for the
// game. Unrecorded stats count as zero. The result is in canonical order.
func (e *Engine) CombineStats(ctx context.Context, userID, gameName string) (Totals, error) {
	game, err := ParseGame(gameName)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	gr := ledger[userID].game(game)
	if len(gr) == 0 {
		return nil, &NotFoundError{UserID: userID, Game: game}
	}
	return combine(game, gr), nil
}

// CombineAllGames returns combined totals for every game the user has
// records for, in the order of Games.
func (e *Engine) CombineAllGames(ctx context.Context, userID string) ([]GameTotals, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	rec := ledger[userID]
	var out []GameTotals
	for _, game := range Games {
		gr := rec.game(game)
		if len(gr) == 0 {
			continue
		}
		out = append(out, GameTotals{Game: game, Totals: combine(game, gr)})
	}
	if len(out) == 0 {
		return nil, &NotFoundError{UserID: userID}
	}
	return out, nil
}

func combine(game Game, gr GameRecord) Totals {
	stats := game.Stats()
	totals := make(Totals, len(stats))
	for i, stat := range stats {
		totals[i].Stat = stat
		for _, cs := range gr {
			totals[i].Value += cs[stat]
		}
	}
	return totals
}
