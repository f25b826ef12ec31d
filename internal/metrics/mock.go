package metrics

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	commands         map[string]int
	commandDurations map[string][]float64
	statUpdates      map[string]int
	riotRequests     map[string]int
	eventsPublished  int
	eventsFailed     int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		commands:         make(map[string]int),
		commandDurations: make(map[string][]float64),
		statUpdates:      make(map[string]int),
		riotRequests:     make(map[string]int),
	}
}

func (m *Mock) IncCommand(command, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[command+"/"+outcome]++
}

func (m *Mock) ObserveCommandDuration(command string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandDurations[command] = append(m.commandDurations[command], duration)
}

func (m *Mock) IncStatUpdates(game string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statUpdates[game]++
}

func (m *Mock) IncRiotRequest(endpoint, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riotRequests[endpoint+"/"+outcome]++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Commands returns how often IncCommand was called for command and outcome.
func (m *Mock) Commands(command, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commands[command+"/"+outcome]
}

// CommandDurations returns the durations observed for command.
func (m *Mock) CommandDurations(command string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.commandDurations[command]...)
}

// StatUpdates returns the number of stat updates recorded for game.
func (m *Mock) StatUpdates(game string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statUpdates[game]
}

// RiotRequests returns how often IncRiotRequest was called for endpoint and outcome.
func (m *Mock) RiotRequests(endpoint, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.riotRequests[endpoint+"/"+outcome]
}

// EventsPublished returns the number of times IncEventsPublished was called.
func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}

// EventsFailed returns the number of times IncEventsFailed was called.
func (m *Mock) EventsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}

// MockUsageStore is an in-memory UsageStore for testing.
type MockUsageStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMockUsageStore creates a new mock instance.
func NewMockUsageStore() *MockUsageStore {
	return &MockUsageStore{counts: make(map[string]int)}
}

func (m *MockUsageStore) Increment(ctx context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *MockUsageStore) GetAll(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

// Get returns the count for key.
func (m *MockUsageStore) Get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}
