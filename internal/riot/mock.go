package riot

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the RiotClient interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetPUUIDFunc             func(gameName, tagLine string) (string, error)
	GetTotalMasteryScoreFunc func(puuid string) (int, error)

	// Call records
	GetPUUIDCalls             []string
	GetTotalMasteryScoreCalls []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPUUIDCalls = nil
	m.GetTotalMasteryScoreCalls = nil
}

func (m *MockClient) GetPUUID(ctx context.Context, gameName, tagLine string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPUUIDCalls = append(m.GetPUUIDCalls, gameName+"#"+tagLine)
	if m.GetPUUIDFunc != nil {
		return m.GetPUUIDFunc(gameName, tagLine)
	}
	return "puuid-" + gameName, nil
}

func (m *MockClient) GetTotalMasteryScore(ctx context.Context, puuid string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTotalMasteryScoreCalls = append(m.GetTotalMasteryScoreCalls, puuid)
	if m.GetTotalMasteryScoreFunc != nil {
		return m.GetTotalMasteryScoreFunc(puuid)
	}
	return 0, nil
}
