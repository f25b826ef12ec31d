package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/metrics"
	"github.com/e-mault/stat-sage/internal/notifier"
	"github.com/e-mault/stat-sage/internal/pubsub"
	"github.com/e-mault/stat-sage/internal/riot"
)

// Verb names.
const (
	VerbUpdateStat   = "update_stat"
	VerbViewStats    = "view_stats"
	VerbViewStatsAll = "view_stats_all"
	VerbLeaderboard  = "leaderboard"
	VerbGetPUUID     = "get_puuid"
	VerbTotalMastery = "total_mastery"
	VerbHello        = "hello"
	VerbPing         = "ping"
	VerbCommands     = "commands"
)

// rootVerb is the generic "/statsage <verb> ..." entry point.
const rootVerb = "statsage"

// aliases maps older command names to their verb.
var aliases = map[string]string{
	"help":           VerbCommands,
	"add_stats":      VerbUpdateStat,
	"add_stat":       VerbUpdateStat,
	"view_all_stats": VerbViewStatsAll,
}

// Help lists every verb in display order.
var Help = []notifier.CommandHelp{
	{Usage: "/update_stat <game> <character> <stat> <value>", Description: "Add or update a stat for one of your characters."},
	{Usage: "/view_stats [game]", Description: "View your stats per character."},
	{Usage: "/view_stats_all [game]", Description: "View your stats combined across all characters."},
	{Usage: "/leaderboard <game> [character]", Description: "Show the top 10 players per stat for a game, optionally for one character."},
	{Usage: "/get_puuid <name> <tagline>", Description: "Show and save your League PUUID from your in-game name and tag."},
	{Usage: "/total_mastery <name> <tagline>", Description: "Show your total champion mastery score in League."},
	{Usage: "/commands", Description: "Show this help message."},
	{Usage: "/ping", Description: "Has the bot respond back with Pong!"},
	{Usage: "/hello", Description: "Has the bot say hello back."},
}

// Invocation is one chat command as received from the transport.
type Invocation struct {
	UserID   string
	UserName string
	// Command is the slash command, e.g. "/update_stat" or "/statsage".
	Command string
	// Text is everything after the command.
	Text string
}

// Request is a parsed Invocation.
type Request struct {
	Verb string
	Args []string
}

// UsageError means the arguments could not be shaped for the verb.
type UsageError struct {
	Verb   string
	Reason string
}

func (e *UsageError) Error() string {
	usage := usageFor(e.Verb)
	if usage == "" {
		return e.Reason
	}
	if e.Reason == "" {
		return fmt.Sprintf("Usage: `%s`", usage)
	}
	return fmt.Sprintf("%s Usage: `%s`", e.Reason, usage)
}

// UnknownCommandError is returned for a verb that does not exist.
type UnknownCommandError struct {
	Verb string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command `%s`. Try `/commands` to see what I can do.", e.Verb)
}

// accountNotFoundError means Riot has no account for the Riot ID.
type accountNotFoundError struct {
	RiotID string
}

func (e *accountNotFoundError) Error() string {
	return fmt.Sprintf("Could not find a Riot account for %s.", e.RiotID)
}

// Dispatcher runs chat commands against the ledger and the Riot API and
// renders the reply.
type Dispatcher struct {
	ledger   ledger.Service
	riot     riot.RiotClient
	notifier notifier.Notifier
	metrics  metrics.Metrics
	usage    metrics.UsageStore
	events   pubsub.PubSubClient
	now      func() time.Time
}

func usageFor(verb string) string {
	for _, h := range Help {
		if name, _, _ := strings.Cut(h.Usage, " "); name == "/"+verb {
			return h.Usage
		}
	}
	return ""
}
