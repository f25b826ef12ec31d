package ledger

import "context"

// Store persists the whole ledger. Load returns everything; Save replaces
// everything.
type Store interface {
	Load(ctx context.Context) (Ledger, error)
	Save(ctx context.Context, ledger Ledger) error
}

// Service is the set of ledger operations used by the command dispatcher and
// the HTTP API.
type Service interface {
	UpdateStat(ctx context.Context, userID, game, character, stat string, value int) (StatUpdate, error)
	SetCachedAccountID(ctx context.Context, userID, accountID string) (bool, error)
	CachedAccountID(ctx context.Context, userID string) (string, bool, error)
	GetUserStats(ctx context.Context, userID, game string) (UserView, error)
	CombineStats(ctx context.Context, userID, game string) (Totals, error)
	CombineAllGames(ctx context.Context, userID string) ([]GameTotals, error)
	Rank(ctx context.Context, game, character string) (Leaderboard, error)
}
