package ledger

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests. It hands out copies so a
// caller cannot change the stored ledger without calling Save.
type MemoryStore struct {
	mu     sync.Mutex
	ledger Ledger

	LoadErr   error
	SaveErr   error
	SaveCalls int
}

// NewMemoryStore creates a MemoryStore seeded with a copy of initial.
func NewMemoryStore(initial Ledger) *MemoryStore {
	if initial == nil {
		initial = make(Ledger)
	}
	return &MemoryStore{ledger: initial.Clone()}
}

func (m *MemoryStore) Load(ctx context.Context) (Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.ledger.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, ledger Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls++
	m.ledger = ledger.Clone()
	return nil
}

// Snapshot returns a copy of what is currently stored.
func (m *MemoryStore) Snapshot() Ledger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Clone()
}

// MockService is a mock implementation of the Service interface for testing.
// It is safe for concurrent use.
type MockService struct {
	mu sync.Mutex

	// Spies for method calls
	UpdateStatFunc         func(userID, game, character, stat string, value int) (StatUpdate, error)
	SetCachedAccountIDFunc func(userID, accountID string) (bool, error)
	CachedAccountIDFunc    func(userID string) (string, bool, error)
	GetUserStatsFunc       func(userID, game string) (UserView, error)
	CombineStatsFunc       func(userID, game string) (Totals, error)
	CombineAllGamesFunc    func(userID string) ([]GameTotals, error)
	RankFunc               func(game, character string) (Leaderboard, error)

	// Call records
	UpdateStatCalls []struct {
		UserID, Game, Character, Stat string
		Value                         int
	}
	SetCachedAccountIDCalls []struct {
		UserID, AccountID string
	}
	RankCalls []struct {
		Game, Character string
	}
}

// NewMockService creates a new mock instance.
func NewMockService() *MockService {
	return &MockService{}
}

func (m *MockService) UpdateStat(ctx context.Context, userID, game, character, stat string, value int) (StatUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateStatCalls = append(m.UpdateStatCalls, struct {
		UserID, Game, Character, Stat string
		Value                         int
	}{userID, game, character, stat, value})
	if m.UpdateStatFunc != nil {
		return m.UpdateStatFunc(userID, game, character, stat, value)
	}
	return StatUpdate{UserID: userID, Game: Game(game), Character: character, Stat: Stat(stat), Value: value}, nil
}

func (m *MockService) SetCachedAccountID(ctx context.Context, userID, accountID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCachedAccountIDCalls = append(m.SetCachedAccountIDCalls, struct {
		UserID, AccountID string
	}{userID, accountID})
	if m.SetCachedAccountIDFunc != nil {
		return m.SetCachedAccountIDFunc(userID, accountID)
	}
	return true, nil
}

func (m *MockService) CachedAccountID(ctx context.Context, userID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CachedAccountIDFunc != nil {
		return m.CachedAccountIDFunc(userID)
	}
	return "", false, nil
}

func (m *MockService) GetUserStats(ctx context.Context, userID, game string) (UserView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetUserStatsFunc != nil {
		return m.GetUserStatsFunc(userID, game)
	}
	return UserView{}, &NotFoundError{UserID: userID}
}

func (m *MockService) CombineStats(ctx context.Context, userID, game string) (Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CombineStatsFunc != nil {
		return m.CombineStatsFunc(userID, game)
	}
	return nil, &NotFoundError{UserID: userID, Game: Game(game)}
}

func (m *MockService) CombineAllGames(ctx context.Context, userID string) ([]GameTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CombineAllGamesFunc != nil {
		return m.CombineAllGamesFunc(userID)
	}
	return nil, &NotFoundError{UserID: userID}
}

func (m *MockService) Rank(ctx context.Context, game, character string) (Leaderboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RankCalls = append(m.RankCalls, struct {
		Game, Character string
	}{game, character})
	if m.RankFunc != nil {
		return m.RankFunc(game, character)
	}
	return Leaderboard{}, &EmptyResultError{Game: Game(game), Character: character}
}
