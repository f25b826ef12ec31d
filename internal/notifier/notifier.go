package notifier

import (
	"context"

	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/pubsub"
	"github.com/slack-go/slack"
)

// CommandHelp is one line of the help listing.
type CommandHelp struct {
	Usage       string
	Description string
}

// Notifier defines a high-level interface for rendering command replies and
// announcing ledger events. This decouples the rest of the application from
// the specific chat provider (e.g., Slack).
type Notifier interface {
	// For slash command replies
	FormatStatUpdated(update ledger.StatUpdate, userName string) slack.Message
	FormatUserStats(view ledger.UserView) slack.Message
	FormatCombinedStats(totals []ledger.GameTotals, userName string) slack.Message
	FormatLeaderboard(board ledger.Leaderboard) slack.Message
	FormatAccountLinked(riotID, puuid, cached string, saved bool) slack.Message
	FormatMasteryScore(riotID string, score int) slack.Message
	FormatHelp(commands []CommandHelp) slack.Message
	FormatText(text string) slack.Message
	FormatError(err error) slack.Message

	// For channel announcements
	AnnounceStatUpdate(ctx context.Context, event pubsub.StatUpdatedEvent, dryRun bool) error
	AnnounceAccountLinked(ctx context.Context, event pubsub.AccountLinkedEvent, dryRun bool) error
}
