package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/pubsub"
	"github.com/slack-go/slack"
)

// Mock is a mock implementation of the Notifier interface for testing.
// Format methods return a single section naming the method and its input.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for announcement functions
	AnnounceStatUpdateFunc    func(event pubsub.StatUpdatedEvent, dryRun bool) error
	AnnounceAccountLinkedFunc func(event pubsub.AccountLinkedEvent, dryRun bool) error

	// Call records
	AnnounceStatUpdateCalls    []pubsub.StatUpdatedEvent
	AnnounceAccountLinkedCalls []pubsub.AccountLinkedEvent
	FormatErrorCalls           []error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnnounceStatUpdateCalls = nil
	m.AnnounceAccountLinkedCalls = nil
	m.FormatErrorCalls = nil
}

func (m *Mock) FormatStatUpdated(update ledger.StatUpdate, userName string) slack.Message {
	return mockMessage("stat_updated", update.Character, update.Stat, update.Value)
}

func (m *Mock) FormatUserStats(view ledger.UserView) slack.Message {
	return mockMessage("user_stats", view.UserID, len(view.Games))
}

func (m *Mock) FormatCombinedStats(totals []ledger.GameTotals, userName string) slack.Message {
	return mockMessage("combined_stats", userName, len(totals))
}

func (m *Mock) FormatLeaderboard(board ledger.Leaderboard) slack.Message {
	return mockMessage("leaderboard", board.Game, len(board.Rankings))
}

func (m *Mock) FormatAccountLinked(riotID, puuid, cached string, saved bool) slack.Message {
	return mockMessage("account_linked", riotID, puuid, cached, saved)
}

func (m *Mock) FormatMasteryScore(riotID string, score int) slack.Message {
	return mockMessage("mastery_score", riotID, score)
}

func (m *Mock) FormatHelp(commands []CommandHelp) slack.Message {
	return mockMessage("help", len(commands))
}

func (m *Mock) FormatText(text string) slack.Message {
	return mockMessage("text", text)
}

func (m *Mock) FormatError(err error) slack.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatErrorCalls = append(m.FormatErrorCalls, err)
	return mockMessage("error", err)
}

func (m *Mock) AnnounceStatUpdate(ctx context.Context, event pubsub.StatUpdatedEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnnounceStatUpdateCalls = append(m.AnnounceStatUpdateCalls, event)
	if m.AnnounceStatUpdateFunc != nil {
		return m.AnnounceStatUpdateFunc(event, dryRun)
	}
	return nil
}

func (m *Mock) AnnounceAccountLinked(ctx context.Context, event pubsub.AccountLinkedEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnnounceAccountLinkedCalls = append(m.AnnounceAccountLinkedCalls, event)
	if m.AnnounceAccountLinkedFunc != nil {
		return m.AnnounceAccountLinkedFunc(event, dryRun)
	}
	return nil
}

func mockMessage(kind string, args ...any) slack.Message {
	text := fmt.Sprintf("%s %v", kind, args)
	return slack.NewBlockMessage(slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, false, false), nil, nil))
}
